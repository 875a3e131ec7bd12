// Package iocache persists cache entries and the drained event log to SQL backends.
package iocache

import (
	"sync"

	"github.com/huangsam/dhtcli/internal/contract"
)

// StoreManager manages the entry store and the event log store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	entries      contract.EntryStore
	events       contract.EventLogStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetEntryStore returns the persistent entry store.
func (mgr *StoreManager) GetEntryStore() contract.EntryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.entries
}

// GetEventLogStore returns the event log store, or nil when event recording is disabled.
func (mgr *StoreManager) GetEventLogStore() contract.EventLogStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.events
}
