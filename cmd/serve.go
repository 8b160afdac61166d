package cmd

import (
	mcpserver "github.com/shopsavvy/savvy-scrape/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server on stdio",
	Long:  "Start the MCP server over stdio for use from MCP clients (Claude Desktop, editors).",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	orch, fetcher, err := initPipeline()
	if err != nil {
		return err
	}
	defer fetcher.Close()

	return mcpserver.Serve(orch)
}
