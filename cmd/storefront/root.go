package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/growthlabpro/storefront/config"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "GrowthLabPro storefront: catalog, cart, checkout and contact relay",
	Long: `storefront serves the GrowthLabPro pricing catalog, shopping cart and
Stripe Checkout session functions, and relays contact form submissions by email.

Quick start:
  storefront serve      # Start the server
  storefront catalog    # Show the product catalog

Operations:
  storefront validate   # Validate configuration
  storefront checkout   # Run a checkout against a session service`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "config file path")
}
