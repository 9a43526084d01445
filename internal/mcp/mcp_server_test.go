package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/roomspot/core/algo"
	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/internal/iocache"
	mcp_internal "github.com/huangsam/roomspot/internal/mcp"
	"github.com/huangsam/roomspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		ResultLimit: 10,
		Workers:     2,
		FetchDays:   1,
		Timezone:    time.UTC,
		ClosingHour: 22,
		EmptyWindow: schema.EmptyWindowAvailable,
		Duration:    time.Hour,
		Weights:     algo.DefaultWeights(),
	}
}

func newManager(t *testing.T) *iocache.MockCacheManager {
	t.Helper()
	store, err := iocache.NewMemoryCacheStore("room_cache")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRoomStore").Return(store)
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func testDirectory() []schema.RoomDirectoryEntry {
	return []schema.RoomDirectoryEntry{
		{Building: "HG", Floor: "E", Room: "1", Location: schema.LocationZurichZentrum, Type: "Seminars / Courses", Seats: 30},
		{Building: "CAB", Floor: "G", Room: "11", Location: schema.LocationZurichZentrum, Type: "Lecture hall", Seats: 200},
		{Building: "HPH", Floor: "G", Room: "1", Location: schema.LocationZurichHonggerberg, Type: "Seminars / Courses", Seats: 30},
	}
}

func request(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	// No manager or client is needed because validation fails first
	s := mcp_internal.NewMCPServer(baseConfig(), nil, nil)
	ctx := context.Background()

	t.Run("find_free_rooms unknown location", func(t *testing.T) {
		tool := s.GetTool("find_free_rooms")
		require.NotNil(t, tool, "Tool find_free_rooms should exist")

		res, err := tool.Handler(ctx, request("find_free_rooms", map[string]any{"location": "Atlantis"}))
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(t, res), "invalid location")
	})

	t.Run("find_free_rooms invalid when", func(t *testing.T) {
		tool := s.GetTool("find_free_rooms")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, request("find_free_rooms", map[string]any{
			"location": schema.LocationZurichZentrum,
			"when":     "next tuesday",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid --when value")
	})

	t.Run("find_free_rooms invalid hours", func(t *testing.T) {
		tool := s.GetTool("find_free_rooms")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, request("find_free_rooms", map[string]any{
			"location": schema.LocationZurichZentrum,
			"hours":    -2.0,
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "hours must be between 0 and 24")
	})

	t.Run("list_rooms unknown location", func(t *testing.T) {
		tool := s.GetTool("list_rooms")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, request("list_rooms", map[string]any{"location": "Atlantis"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "list_locations")
	})
}

func TestMCPServerListLocations(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil, nil)
	tool := s.GetTool("list_locations")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), request("list_locations", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var locations []string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &locations))
	assert.Equal(t, schema.AllLocations, locations)
}

func TestMCPServerFindFreeRooms(t *testing.T) {
	client := new(contract.MockRoomInfoClient)
	client.On("GetDirectory", mock.Anything).Return(testDirectory(), nil)
	client.On("GetAllocations", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]schema.AllocationInterval{}, nil)

	s := mcp_internal.NewMCPServer(baseConfig(), newManager(t), client)
	tool := s.GetTool("find_free_rooms")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), request("find_free_rooms", map[string]any{
		"location": schema.LocationZurichZentrum,
		"hours":    2.0,
		"limit":    1.0,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var payload struct {
		Location   string    `json:"location"`
		Candidates int       `json:"candidates"`
		From       time.Time `json:"from"`
		To         time.Time `json:"to"`
		Rooms      []struct {
			Rank   int    `json:"rank"`
			RoomID string `json:"room_id"`
		} `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
	assert.Equal(t, schema.LocationZurichZentrum, payload.Location)
	assert.Equal(t, 2, payload.Candidates)
	assert.Equal(t, 2*time.Hour, payload.To.Sub(payload.From))
	require.Len(t, payload.Rooms, 1)
	assert.Equal(t, 1, payload.Rooms[0].Rank)
}

func TestMCPServerFindFreeRoomsSearchFailure(t *testing.T) {
	client := new(contract.MockRoomInfoClient)
	client.On("GetDirectory", mock.Anything).Return(testDirectory(), nil)

	s := mcp_internal.NewMCPServer(baseConfig(), newManager(t), client)
	tool := s.GetTool("find_free_rooms")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), request("find_free_rooms", map[string]any{
		"location": schema.LocationZurichZentrum,
		"building": "XYZ",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "search failed")
}

func TestMCPServerListRooms(t *testing.T) {
	client := new(contract.MockRoomInfoClient)
	client.On("GetDirectory", mock.Anything).Return(testDirectory(), nil)

	s := mcp_internal.NewMCPServer(baseConfig(), newManager(t), client)
	tool := s.GetTool("list_rooms")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), request("list_rooms", map[string]any{
		"location": schema.LocationZurichZentrum,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var ids []string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &ids))
	assert.Equal(t, []string{"CAB G 11", "HG E 1"}, ids)
}
