package algo

import (
	"testing"

	"github.com/huangsam/roomspot/schema"
	"github.com/stretchr/testify/assert"
)

func TestRankRooms(t *testing.T) {
	rooms := []schema.ScoredRoom{
		{RoomID: "ML F 34", Score: 40},
		{RoomID: "HG E 1", Score: 70},
		{RoomID: "CAB G 11", Score: 55},
	}

	ranked := RankRooms(rooms, 2)

	assert.Len(t, ranked, 2)
	assert.Equal(t, "HG E 1", ranked[0].RoomID)
	assert.Equal(t, "CAB G 11", ranked[1].RoomID)
}

func TestRankRoomsTieBreak(t *testing.T) {
	rooms := []schema.ScoredRoom{
		{RoomID: "ML F 34", Score: 60},
		{RoomID: "CAB G 11", Score: 60},
		{RoomID: "HG E 1", Score: 60},
		{RoomID: "AA A 1", Score: 10},
	}

	ranked := RankRooms(rooms, 10)

	assert.Equal(t, []string{"CAB G 11", "HG E 1", "ML F 34", "AA A 1"},
		[]string{ranked[0].RoomID, ranked[1].RoomID, ranked[2].RoomID, ranked[3].RoomID})
}

func TestRankRoomsLimit(t *testing.T) {
	rooms := []schema.ScoredRoom{{RoomID: "a", Score: 1}, {RoomID: "b", Score: 2}}
	assert.Len(t, RankRooms(rooms, 5), 2)
	assert.Len(t, RankRooms(rooms, 0), 2)
	assert.Empty(t, RankRooms(nil, 3))
}
