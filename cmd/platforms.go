package cmd

import (
	"fmt"
	"os"

	"github.com/shopsavvy/savvy-scrape/internal/sites"
	"github.com/spf13/cobra"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms",
	Run: func(cmd *cobra.Command, args []string) {
		for _, site := range sites.All() {
			fmt.Fprintf(os.Stdout, "%-10s %s\n", site.Name, site.BaseURL)
		}
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
