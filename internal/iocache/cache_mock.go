package iocache

import (
	"time"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetRoomStore implements the CacheManager interface.
func (m *MockCacheManager) GetRoomStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetHistoryStore implements the CacheManager interface.
func (m *MockCacheManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginSearch implements the HistoryStore interface.
func (m *MockHistoryStore) BeginSearch(startTime time.Time, query schema.SearchQuery) (string, error) {
	args := m.Called(startTime, query)
	return args.String(0), args.Error(1)
}

// EndSearch implements the HistoryStore interface.
func (m *MockHistoryStore) EndSearch(runID string, endTime time.Time, candidates, scored int) error {
	args := m.Called(runID, endTime, candidates, scored)
	return args.Error(0)
}

// RecordScoredRoom implements the HistoryStore interface.
func (m *MockHistoryStore) RecordScoredRoom(runID string, room schema.EnrichedRoomResult) error {
	args := m.Called(runID, room)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllSearchRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSearchRuns() ([]schema.SearchRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.SearchRunRecord)
	return runs, args.Error(1)
}

// GetAllScoredRooms implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllScoredRooms() ([]schema.ScoredRoomRecord, error) {
	args := m.Called()
	rooms, _ := args.Get(0).([]schema.ScoredRoomRecord)
	return rooms, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
