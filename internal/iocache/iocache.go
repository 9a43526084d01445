package iocache

import (
	"sync"

	"github.com/huangsam/roomspot/internal/contract"
)

// CacheStoreManager manages the room and history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	rooms        contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetRoomStore returns the CacheStore holding directory and timeline blobs.
func (mgr *CacheStoreManager) GetRoomStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.rooms
}

// GetHistoryStore returns the HistoryStore, or nil when history is disabled.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
