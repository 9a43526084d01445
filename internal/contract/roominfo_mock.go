package contract

import (
	"context"
	"time"

	"github.com/huangsam/roomspot/schema"
	"github.com/stretchr/testify/mock"
)

// MockRoomInfoClient is a mock implementation of RoomInfoClient for testing.
type MockRoomInfoClient struct {
	mock.Mock
}

var _ RoomInfoClient = &MockRoomInfoClient{} // Compile-time check

// GetDirectory implements the RoomInfoClient interface.
func (m *MockRoomInfoClient) GetDirectory(ctx context.Context) ([]schema.RoomDirectoryEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]schema.RoomDirectoryEntry)
	return entries, args.Error(1)
}

// GetAllocations implements the RoomInfoClient interface.
func (m *MockRoomInfoClient) GetAllocations(ctx context.Context, roomID string, from, to time.Time) ([]schema.AllocationInterval, error) {
	args := m.Called(ctx, roomID, from, to)
	intervals, _ := args.Get(0).([]schema.AllocationInterval)
	return intervals, args.Error(1)
}
