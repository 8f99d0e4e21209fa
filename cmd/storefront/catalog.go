package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/growthlabpro/storefront/domain/catalog"
)

var catalogOutput string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the product catalog",
	Long: `Show the pricing-page offerings with their Stripe price ids and modes.

Examples:
  storefront catalog
  storefront catalog --output json`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringVarP(&catalogOutput, "output", "o", "table", "output format: table, json or yaml")
}

type catalogRow struct {
	Key     catalog.Key  `json:"key" yaml:"key"`
	Name    string       `json:"name" yaml:"name"`
	Kind    catalog.Kind `json:"kind" yaml:"kind"`
	Mode    catalog.Mode `json:"mode" yaml:"mode"`
	PriceID string       `json:"priceId" yaml:"price_id"`
	Price   string       `json:"price" yaml:"price"`
}

func catalogRows() []catalogRow {
	cat := catalog.Default()
	offerings := catalog.Offerings()
	rows := make([]catalogRow, 0, len(offerings))
	for _, o := range offerings {
		p, ok := cat.Get(o.Key)
		if !ok {
			continue
		}
		price := o.PriceLabel
		if o.Kind == catalog.KindPlan {
			price = fmt.Sprintf("$%d/month or $%d/year", o.MonthlyPrice, o.AnnualPrice)
		}
		rows = append(rows, catalogRow{
			Key:     o.Key,
			Name:    p.Name,
			Kind:    o.Kind,
			Mode:    p.Mode,
			PriceID: p.PriceID,
			Price:   price,
		})
	}
	return rows
}

func runCatalog(cmd *cobra.Command, args []string) error {
	return writeCatalog(cmd.OutOrStdout(), catalogOutput, catalogRows())
}

func writeCatalog(w io.Writer, format string, rows []catalogRow) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tNAME\tKIND\tMODE\tPRICE ID\tPRICE")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Key, r.Name, r.Kind, r.Mode, r.PriceID, r.Price)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
