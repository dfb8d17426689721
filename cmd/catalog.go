package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"giftshop.GO/app"
	"giftshop.GO/catalog"
	catalogService "giftshop.GO/service/catalog"
)

var (
	queryScreen   string
	queryText     string
	queryCats     []string
	queryMinPrice float64
	queryMaxPrice float64
	queryMinDisc  int
	queryMaxDisc  int
	queryColl     string
	queryRecip    string
	querySort     string
	queryPage     int
	queryJSON     bool

	recommendRecipient string
	recommendLimit     int

	refreshIndex bool
	keywordsFile string
)

var catalogRefreshCmd = &cobra.Command{
	Use:   "catalog:refresh",
	Short: "Fetch a fresh snapshot from the database and report its size",
	RunE: func(c *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if _, err := a.Catalog.Refresh(ctx); err != nil {
			return err
		}
		st := a.Catalog.Stats()
		fmt.Fprintf(c.OutOrStdout(), "products=%d deals=%d collections=%d recipients=%d\n",
			st.Products, st.Deals, st.Collections, st.Recipients)
		if refreshIndex {
			n, err := a.Reindex(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "indexed %d products into %s\n", n, a.Search.Index())
		}
		return nil
	},
}

var catalogQueryCmd = &cobra.Command{
	Use:   "catalog:query",
	Short: "Filter, sort and page the catalog the way a screen would",
	RunE: func(c *cobra.Command, args []string) error {
		f, err := filterFromFlags(c)
		if err != nil {
			return err
		}
		ctx := context.Background()
		a, err := loaded(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		screen := catalog.ParseScreen(queryScreen)
		var results []catalog.Product
		switch screen {
		case catalog.ScreenDeals:
			results = a.Catalog.Engine().Deals(f, a.Sessions.Shuffler())
		case catalog.ScreenBundle:
			if results, err = a.Catalog.Engine().CollectionProducts(queryColl, f); err != nil {
				return err
			}
		default:
			results = a.Catalog.Engine().Query(f)
		}
		page := catalog.PageOf(results, queryPage, screen.PageSize())
		if queryJSON {
			return writeJSON(c.OutOrStdout(), page)
		}
		writeProducts(c.OutOrStdout(), page.Items)
		fmt.Fprintf(c.OutOrStdout(), "%d of %d (page %d, more=%t)\n", len(page.Items), page.Total, page.CurrentPage, page.HasMore)
		return nil
	},
}

var catalogRecommendCmd = &cobra.Command{
	Use:   "catalog:recommend",
	Short: "Rank gift suggestions for a recipient profile",
	RunE: func(c *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := loaded(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		products, err := a.Catalog.Engine().Recommend(recommendRecipient, recommendLimit)
		if err != nil {
			return err
		}
		writeProducts(c.OutOrStdout(), products)
		return nil
	},
}

var catalogIndexCmd = &cobra.Command{
	Use:   "catalog:index",
	Short: "Push the current snapshot to the Elasticsearch product index",
	RunE: func(c *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := loaded(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		n, err := a.Reindex(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "indexed %d products into %s\n", n, a.Search.Index())
		return nil
	},
}

var catalogKeywordsCmd = &cobra.Command{
	Use:   "catalog:keywords",
	Short: "Print the recommendation keyword table (built-in or --file) as YAML",
	RunE: func(c *cobra.Command, args []string) error {
		table, err := catalogService.LoadKeywordTable(keywordsFile)
		if err != nil {
			return err
		}
		return catalogService.WriteKeywordTable(c.OutOrStdout(), table)
	},
}

// loaded bootstraps the app and loads the first snapshot.
func loaded(ctx context.Context) (*app.App, error) {
	a, err := bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.Start(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// filterFromFlags builds the filter from catalog:query flags. Bounds are only
// set when their flag was given.
func filterFromFlags(c *cobra.Command) (catalog.FilterState, error) {
	f := catalog.FilterState{
		Query:        queryText,
		Categories:   queryCats,
		CollectionID: queryColl,
		RecipientID:  queryRecip,
		Sort:         catalog.SortKey(querySort),
	}
	if !catalog.IsValidSort(f.Sort) {
		return f, fmt.Errorf("%w: %q", catalogService.ErrInvalidSort, querySort)
	}
	flags := c.Flags()
	if flags.Changed("min-price") {
		m := catalog.FromFloat(queryMinPrice)
		f.MinPrice = &m
	}
	if flags.Changed("max-price") {
		m := catalog.FromFloat(queryMaxPrice)
		f.MaxPrice = &m
	}
	if flags.Changed("min-discount") {
		d := queryMinDisc
		f.MinDiscount = &d
	}
	if flags.Changed("max-discount") {
		d := queryMaxDisc
		f.MaxDiscount = &d
	}
	return f, nil
}

func writeProducts(w io.Writer, products []catalog.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tWAS\tDISCOUNT\tVENDOR")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\t%s\n", p.ID, p.Name, p.Price, p.OriginalPrice, p.DiscountPercentage, p.VendorName)
	}
	tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	catalogRefreshCmd.Flags().BoolVar(&refreshIndex, "index", false, "Also reindex Elasticsearch after the refresh")

	fl := catalogQueryCmd.Flags()
	fl.StringVar(&queryScreen, "screen", string(catalog.ScreenHome), "home, deals, search or bundle")
	fl.StringVarP(&queryText, "query", "q", "", "Case-insensitive name substring")
	fl.StringSliceVar(&queryCats, "category", nil, "Category id (repeatable)")
	fl.Float64Var(&queryMinPrice, "min-price", 0, "Lowest final price")
	fl.Float64Var(&queryMaxPrice, "max-price", 0, "Highest final price")
	fl.IntVar(&queryMinDisc, "min-discount", 0, "Lowest discount percentage")
	fl.IntVar(&queryMaxDisc, "max-discount", 0, "Highest discount percentage")
	fl.StringVar(&queryColl, "collection", "", "Restrict to a collection (required for --screen bundle)")
	fl.StringVar(&queryRecip, "recipient", "", "Restrict to a recipient's recommendations")
	fl.StringVar(&querySort, "sort", "", "discount_desc, discount_asc, price_asc, price_desc, name_asc or name_desc")
	fl.IntVar(&queryPage, "page", 1, "Show pages 1..page")
	fl.BoolVar(&queryJSON, "json", false, "Print the page as JSON")

	catalogRecommendCmd.Flags().StringVar(&recommendRecipient, "recipient", "", "Recipient id (required)")
	catalogRecommendCmd.MarkFlagRequired("recipient")
	catalogRecommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "Maximum suggestions (0 uses the configured limit)")

	catalogKeywordsCmd.Flags().StringVarP(&keywordsFile, "file", "f", "", "Keyword table to validate and print")

	rootCmd.AddCommand(catalogRefreshCmd, catalogQueryCmd, catalogRecommendCmd, catalogIndexCmd, catalogKeywordsCmd)
}
