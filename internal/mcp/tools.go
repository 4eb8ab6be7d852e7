package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchCardsTool defines the search_cards MCP tool.
var searchCardsTool = mcp.NewTool("search_cards",
	mcp.WithDescription("Search the documentation chapters by title, description, difficulty and tags. Short queries match literally; queries of three or more characters also match titles and descriptions as a subsequence."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search text; case-insensitive. An empty query lists every chapter."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of chapters to return (default: all)"),
	),
)

// listCardsTool defines the list_cards MCP tool.
var listCardsTool = mcp.NewTool("list_cards",
	mcp.WithDescription("List every documentation chapter in page order."),
	mcp.WithString("difficulty",
		mcp.Description("Only list chapters with this difficulty, e.g. Beginner"),
	),
)
