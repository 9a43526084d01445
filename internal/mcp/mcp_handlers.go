package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/roomspot/core"
	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	client  contract.RoomInfoClient
	now     func() time.Time
}

// findFreeRoomsResult is the JSON payload of find_free_rooms.
type findFreeRoomsResult struct {
	Location   string                      `json:"location"`
	Building   string                      `json:"building,omitempty"`
	From       time.Time                   `json:"from"`
	To         time.Time                   `json:"to"`
	Candidates int                         `json:"candidates"`
	Rooms      []schema.EnrichedRoomResult `json:"rooms"`
	Warnings   []string                    `json:"warnings,omitempty"`
}

func (h *toolHandler) handleFindFreeRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	now := h.now()
	err := contract.RevalidateSearch(cfg,
		request.GetString("location", ""),
		request.GetString("building", ""),
		request.GetString("when", ""),
		request.GetFloat("hours", 0),
		now)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid search parameters: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	result, err := core.GetSearchResults(core.WithSuppressHeader(ctx), cfg, h.mgr, h.client, now)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(findFreeRoomsResult{
		Location:   cfg.Location,
		Building:   cfg.Building,
		From:       cfg.When,
		To:         cfg.When.Add(cfg.Duration),
		Candidates: result.Candidates,
		Rooms:      schema.EnrichRooms(result.Rooms),
		Warnings:   result.Warnings,
	}, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListLocations(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(schema.AllLocations, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Location = request.GetString("location", "")
	cfg.Building = request.GetString("building", "")
	if !schema.IsKnownLocation(cfg.Location) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid location %q: use list_locations for valid names", cfg.Location)), nil
	}

	rooms, err := core.GetRoomDirectory(ctx, cfg, h.mgr, h.client)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("directory lookup failed: %v", err)), nil
	}

	ids := make([]string, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID()
	}
	jsonData, _ := json.MarshalIndent(ids, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
