package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/shopsavvy/savvy-scrape/internal/models"
)

// printProductsTable prints products in a human-friendly card layout.
func printProductsTable(products []models.Product) {
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, " %d. %s  [%s]\n", i+1, p.Title, p.Platform)

		priceLine := "    Price: " + formatPrice(p.Price)
		if p.OriginalPrice > p.Price {
			priceLine += fmt.Sprintf("  (was %s, -%.0f%%)", formatPrice(p.OriginalPrice), p.DiscountPercent)
		}
		if p.Rating > 0 {
			priceLine += fmt.Sprintf("  |  %.1f★", p.Rating)
			if p.RatingCount > 0 {
				priceLine += fmt.Sprintf(" (%d)", p.RatingCount)
			}
		}
		fmt.Fprintln(os.Stdout, priceLine)
		fmt.Fprintf(os.Stdout, "    %s\n", cleanURL(p.ProductURL))
	}
}

// formatPrice formats a peso amount as "₱1,299.00".
func formatPrice(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	whole, frac, _ := strings.Cut(s, ".")
	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)
	return "₱" + strings.Join(parts, ",") + "." + frac
}

// cleanURL strips tracking query params and returns the bare product URL.
func cleanURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	return u.String()
}
