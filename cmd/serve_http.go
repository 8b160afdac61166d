package cmd

import (
	"fmt"

	mcpserver "github.com/shopsavvy/savvy-scrape/mcp"
	"github.com/spf13/cobra"
)

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Start MCP HTTP server",
	Long:  "Start the MCP server over HTTP for remote access.",
	RunE:  runServeHTTP,
}

func init() {
	serveHTTPCmd.Flags().String("port", "", "HTTP port (default from $PORT or 8080)")
	rootCmd.AddCommand(serveHTTPCmd)
}

func runServeHTTP(cmd *cobra.Command, args []string) error {
	orch, fetcher, err := initPipeline()
	if err != nil {
		return err
	}
	defer fetcher.Close()

	port := cfg.HTTPPort
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}
	return mcpserver.ServeHTTP(orch, fmt.Sprintf(":%s", port), cfg.APIKey)
}
