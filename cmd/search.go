package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/shopsavvy/savvy-scrape/internal/platform"
	"github.com/shopsavvy/savvy-scrape/internal/ui"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search products across platforms",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringSlice("platforms", []string{"all"}, "Platforms to search (lazada, zalora, shein, shopee, all)")
	searchCmd.Flags().Int("max-pages", 1, "Search pages per platform")
	searchCmd.Flags().Float64("min-price", 0, "Minimum price filter")
	searchCmd.Flags().Float64("max-price", 0, "Maximum price filter")
	searchCmd.Flags().String("brand", "", "Brand filter")
	searchCmd.Flags().String("sort", "", "Sort order: price_asc, price_desc, rating_desc, popularity_desc, date_desc")
	searchCmd.Flags().Bool("no-cache", false, "Disable the result cache")
	searchCmd.Flags().Bool("force-refresh", false, "Bypass the cache and re-scrape every platform")
	searchCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	orch, fetcher, err := initPipeline()
	if err != nil {
		return err
	}
	defer fetcher.Close()

	platforms, _ := cmd.Flags().GetStringSlice("platforms")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	minPrice, _ := cmd.Flags().GetFloat64("min-price")
	maxPrice, _ := cmd.Flags().GetFloat64("max-price")
	brand, _ := cmd.Flags().GetString("brand")
	sortBy, _ := cmd.Flags().GetString("sort")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	forceRefresh, _ := cmd.Flags().GetBool("force-refresh")
	format, _ := cmd.Flags().GetString("format")

	req := models.SearchRequest{
		Query:     args[0],
		Platforms: platforms,
		Filters: models.SearchFilters{
			MinPrice: minPrice,
			MaxPrice: maxPrice,
			Brand:    brand,
			SortBy:   sortBy,
		},
		MaxPages:     maxPages,
		UseCache:     !noCache,
		ForceRefresh: forceRefresh,
	}

	spin := ui.New()
	spin.Start(fmt.Sprintf("Searching '%s' on %s...", req.Query, strings.Join(platforms, ", ")))
	ctx := platform.WithReporter(context.Background(), spin.Update)
	resp := orch.Search(ctx, req)
	spin.Stop()

	for _, warning := range resp.Errors {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}

	switch format {
	case "table":
		printProductsTable(resp.Results)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}

	if !resp.Success {
		return fmt.Errorf("search failed for every platform")
	}
	return nil
}
