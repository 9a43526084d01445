package algo

import (
	"sort"

	"github.com/huangsam/roomspot/schema"
)

// RankRooms sorts rooms by score in descending order and returns the top
// 'limit' rooms. Equal scores are ordered by room ID ascending so the result
// never depends on the order rooms were scored in. A limit of zero or less
// keeps every room.
func RankRooms(rooms []schema.ScoredRoom, limit int) []schema.ScoredRoom {
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Score != rooms[j].Score {
			return rooms[i].Score > rooms[j].Score
		}
		return rooms[i].RoomID < rooms[j].RoomID
	})
	if limit > 0 && len(rooms) > limit {
		return rooms[:limit]
	}
	return rooms
}
