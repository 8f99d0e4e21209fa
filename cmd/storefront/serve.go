package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/growthlabpro/storefront/bootstrap"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront server",
	Long: `Start the storefront server.

The server will:
  - Load configuration from storefront.yaml (or --config)
  - Or load configuration from the environment when no file exists
  - Serve the checkout session and contact form functions
  - Serve the catalog, cart and checkout API under /api

Environment variables (serverless-compatible names):
  STRIPE_SECRET_KEY             - Stripe secret key
  VITE_STRIPE_PUBLISHABLE_KEY   - Stripe publishable key
  SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, SMTP_FROM
  CONTACT_EMAIL                 - Contact form recipient
  STOREFRONT_SERVER_PORT        - Server port (default: 8080)
  STOREFRONT_LOG_LEVEL          - Log level: debug, info, warn, error

Examples:
  storefront serve
  storefront serve --config /etc/storefront/storefront.yaml
  storefront serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "reload configuration on file change and SIGHUP")
}

func runServe(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s not found, running with environment variables\n", cfgFile)
	}

	app, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		HotReload:  hotReload,
		Version:    version,
		Commit:     commit,
	})
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run(cmd.Context())
}
