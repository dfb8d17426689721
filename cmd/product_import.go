package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	productService "giftshop.GO/service/product"
)

var (
	importFile           string
	importBatch          int
	importSkipVariations bool
	importRefresh        bool
)

var importCmd = &cobra.Command{
	Use:   "products:import",
	Short: "Import products and their variations from CSV",
	RunE: func(c *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open CSV: %w", err)
		}
		defer f.Close()

		ctx := context.Background()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := productService.ImportProducts(a.DB, f, productService.ImportOptions{
			BatchSize:      importBatch,
			SkipVariations: importSkipVariations,
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		out := c.OutOrStdout()
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  [warn] %s\n", w)
		}
		fmt.Fprintf(out, `
=== Import Report ===
CSV rows:       %d
Products:       %d
Created:        %d
Updated:        %d
Skipped:        %d
Variations:     %d
Total time:     %s
  - Processing: %s
  - DB upsert:  %s
=====================
`, res.TotalRows, res.Products, res.Created, res.Updated, res.Skipped, res.Variations,
			res.TotalTime.Round(time.Millisecond),
			res.ProcessTime.Round(time.Millisecond),
			res.DBTime.Round(time.Millisecond))

		if importRefresh {
			if _, err := a.Catalog.Refresh(ctx); err != nil {
				return err
			}
			fmt.Fprintf(out, "catalog refreshed: %d products\n", a.Catalog.Stats().Products)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV file path (required)")
	importCmd.MarkFlagRequired("file")
	importCmd.Flags().IntVar(&importBatch, "batch-size", 500, "Batch size for DB operations")
	importCmd.Flags().BoolVar(&importSkipVariations, "skip-variations", false, "Ignore variation columns")
	importCmd.Flags().BoolVar(&importRefresh, "refresh", false, "Load a fresh snapshot after the import")
	rootCmd.AddCommand(importCmd)
}
