package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/roomspot/schema"
)

// Layouts accepted for allocation timestamps. Values without an offset are
// read in the client's location.
var wireTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// wireDirectoryEntry is one room as served by the room-info directory endpoint.
type wireDirectoryEntry struct {
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Room     string `json:"room"`
	Location struct {
		AreaDesc string `json:"areaDesc"`
	} `json:"location"`
	TypeDesc string `json:"typeDesc"`
	Seats    int    `json:"seats"`
}

// wireAllocation is one interval as served by the allocations endpoint.
type wireAllocation struct {
	DateFrom string          `json:"date_from"`
	DateTo   string          `json:"date_to"`
	Type     schema.SlotType `json:"type"`
}

// HTTPRoomInfoClient talks to the room-info web service.
type HTTPRoomInfoClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Location   *time.Location
}

var _ RoomInfoClient = &HTTPRoomInfoClient{} // Compile-time check

// NewHTTPRoomInfoClient returns a client for baseURL. Allocation times without
// an offset are interpreted in loc.
func NewHTTPRoomInfoClient(baseURL string, timeout time.Duration, loc *time.Location) *HTTPRoomInfoClient {
	if loc == nil {
		loc = time.UTC
	}
	return &HTTPRoomInfoClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Location:   loc,
	}
}

// DirectoryURL returns the endpoint listing every room.
func (c *HTTPRoomInfoClient) DirectoryURL() string {
	return c.BaseURL + "?path=/rooms&lang=en"
}

// AllocationsURL returns the allocations endpoint for a room and date range.
func (c *HTTPRoomInfoClient) AllocationsURL(roomID string, from, to time.Time) string {
	return fmt.Sprintf("%s?path=/rooms/%s/allocations&from=%s&to=%s",
		c.BaseURL, url.PathEscape(roomID), from.Format(time.DateOnly), to.Format(time.DateOnly))
}

// GetDirectory implements the RoomInfoClient interface.
func (c *HTTPRoomInfoClient) GetDirectory(ctx context.Context) ([]schema.RoomDirectoryEntry, error) {
	var raw []wireDirectoryEntry
	if err := c.getJSON(ctx, c.DirectoryURL(), &raw); err != nil {
		return nil, fmt.Errorf("room directory: %w", err)
	}
	entries := make([]schema.RoomDirectoryEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, schema.RoomDirectoryEntry{
			Building: strings.TrimSpace(r.Building),
			Floor:    strings.TrimSpace(r.Floor),
			Room:     strings.TrimSpace(r.Room),
			Location: strings.TrimSpace(r.Location.AreaDesc),
			Type:     strings.TrimSpace(r.TypeDesc),
			Seats:    r.Seats,
		})
	}
	return entries, nil
}

// GetAllocations implements the RoomInfoClient interface.
func (c *HTTPRoomInfoClient) GetAllocations(ctx context.Context, roomID string, from, to time.Time) ([]schema.AllocationInterval, error) {
	var raw []wireAllocation
	if err := c.getJSON(ctx, c.AllocationsURL(roomID, from, to), &raw); err != nil {
		return nil, fmt.Errorf("allocations for %s: %w", roomID, err)
	}
	intervals := make([]schema.AllocationInterval, 0, len(raw))
	for i, r := range raw {
		start, err := ParseWireTime(r.DateFrom, c.Location)
		if err != nil {
			return nil, fmt.Errorf("allocations for %s: entry %d: %w", roomID, i, err)
		}
		end, err := ParseWireTime(r.DateTo, c.Location)
		if err != nil {
			return nil, fmt.Errorf("allocations for %s: entry %d: %w", roomID, i, err)
		}
		intervals = append(intervals, schema.AllocationInterval{Start: start, End: end, SlotType: r.Type})
	}
	return intervals, nil
}

func (c *HTTPRoomInfoClient) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "*/*")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ParseWireTime parses an allocation timestamp. RFC3339 values keep their offset;
// local values are read in loc.
func ParseWireTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range wireTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
