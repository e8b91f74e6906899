// Package iocache provides the durable storage layer: the dataset cache and
// the run-tracking store, each backed by SQLite, MySQL or PostgreSQL.
package iocache

import (
	"sync"

	"github.com/clutchmetrics/clutch/internal/contract"
)

// CacheStoreManager manages the dataset cache and run store instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	dataset      contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetDatasetStore returns the dataset CacheStore.
func (mgr *CacheStoreManager) GetDatasetStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.dataset
}

// GetRunStore returns the run-tracking RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
