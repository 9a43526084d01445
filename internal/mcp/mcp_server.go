// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"time"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Roomspot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, client contract.RoomInfoClient) *server.MCPServer {
	s := server.NewMCPServer(
		"Roomspot Room Finder",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		client:  client,
		now:     time.Now,
	}

	// --- 1. Tool: find_free_rooms ---
	s.AddTool(mcp.NewTool("find_free_rooms",
		mcp.WithDescription("Find and rank campus rooms that are free during a time window."),
		mcp.WithString("location", mcp.Description("Campus area to search, e.g. 'Zürich Zentrum'. Use list_locations for valid names."), mcp.Required()),
		mcp.WithString("building", mcp.Description("Restrict the search to one building code, e.g. 'HG'.")),
		mcp.WithString("when", mcp.Description("Window start as RFC3339, YYYY-MM-DDTHH:MM or HH:MM today. Defaults to now.")),
		mcp.WithNumber("hours", mcp.Description("Window length in hours. Defaults to 1.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rooms returned.")),
	), h.handleFindFreeRooms)

	// --- 2. Tool: list_locations ---
	s.AddTool(mcp.NewTool("list_locations",
		mcp.WithDescription("List the campus areas that can be searched."),
	), h.handleListLocations)

	// --- 3. Tool: list_rooms ---
	s.AddTool(mcp.NewTool("list_rooms",
		mcp.WithDescription("List the rooms of a campus area from the room directory."),
		mcp.WithString("location", mcp.Description("Campus area to list."), mcp.Required()),
		mcp.WithString("building", mcp.Description("Restrict the list to one building code.")),
	), h.handleListRooms)

	return s
}

// StartMCPServer starts the Roomspot MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, client contract.RoomInfoClient) error {
	s := NewMCPServer(baseCfg, mgr, client)
	return server.ServeStdio(s)
}
