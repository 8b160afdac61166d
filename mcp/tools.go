package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/shopsavvy/savvy-scrape/internal/platform"
	"github.com/shopsavvy/savvy-scrape/internal/search"
)

func registerTools(s *server.MCPServer, orch *search.Orchestrator) {
	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search products across e-commerce platforms (Lazada, Zalora, Shein, Shopee)"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithString("platforms",
			mcp.Description("Comma-separated platforms, or 'all' (default)"),
		),
		mcp.WithNumber("max_pages",
			mcp.Description("Search pages per platform (default: 1)"),
		),
		mcp.WithNumber("min_price",
			mcp.Description("Minimum price filter"),
		),
		mcp.WithNumber("max_price",
			mcp.Description("Maximum price filter"),
		),
		mcp.WithString("sort",
			mcp.Description("Sort order: price_asc, price_desc, rating_desc, popularity_desc, date_desc"),
		),
		mcp.WithBoolean("force_refresh",
			mcp.Description("Bypass the cache and re-scrape every platform"),
		),
	)
	s.AddTool(searchTool, searchHandler(orch))

	platformsTool := mcp.NewTool("list_platforms",
		mcp.WithDescription("List the supported e-commerce platforms"),
	)
	s.AddTool(platformsTool, handleListPlatforms)

	clearTool := mcp.NewTool("clear_cache",
		mcp.WithDescription("Clear the cached search results"),
	)
	s.AddTool(clearTool, clearCacheHandler(orch))
}

func searchHandler(orch *search.Orchestrator) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := request.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		var platforms []string
		if raw := request.GetString("platforms", "all"); raw != "" {
			for _, p := range strings.Split(raw, ",") {
				platforms = append(platforms, strings.TrimSpace(p))
			}
		}

		req := models.SearchRequest{
			Query:     query,
			Platforms: platforms,
			Filters: models.SearchFilters{
				MinPrice: request.GetFloat("min_price", 0),
				MaxPrice: request.GetFloat("max_price", 0),
				SortBy:   request.GetString("sort", ""),
			},
			MaxPages:     request.GetInt("max_pages", 1),
			UseCache:     true,
			ForceRefresh: request.GetBool("force_refresh", false),
		}

		resp := orch.Search(ctx, req)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleListPlatforms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, _ := json.MarshalIndent(platform.List(), "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func clearCacheHandler(orch *search.Orchestrator) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if orch.ClearCache() {
			return mcp.NewToolResultText(`{"cleared":true}`), nil
		}
		return mcp.NewToolResultText(`{"cleared":false}`), nil
	}
}
