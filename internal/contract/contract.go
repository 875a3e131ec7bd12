// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"encoding/json"
	"time"

	"github.com/huangsam/dhtcli/schema"
)

// CacheReader is the read-only view of a cache handle.
// Prompt updaters receive this view so they cannot mutate cache state.
type CacheReader interface {
	// GetHash returns the current content fingerprint. No side effects.
	GetHash(ctx context.Context) (schema.Hash, error)

	// Peers returns a snapshot of the known peers. No side effects.
	Peers(ctx context.Context) ([]schema.PeerRecord, error)
}

// Cache is the command-capable handle to the distributed cache.
// It is owned by exactly one caller at a time and is never shared
// with the goroutine draining the event stream.
type Cache interface {
	CacheReader

	// Send publishes a volatile value. Best effort, never persisted.
	Send(ctx context.Context, value json.RawMessage) error

	// Put upserts a persistent entry keyed by (topic, uuid).
	Put(ctx context.Context, topic, uuid string, value json.RawMessage) error

	// Del removes the persistent entry keyed by (topic, uuid).
	Del(ctx context.Context, topic, uuid string) error
}

// EventSink receives every event drained from the cache event stream.
type EventSink interface {
	Record(ctx context.Context, ev schema.Event) error
}

// StoreManager defines the interface for managing persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetEntryStore() EntryStore
	GetEventLogStore() EventLogStore
}

// EntryStore defines the interface for persistent entry storage.
type EntryStore interface {
	// Get returns the value and update time of an entry, or sql.ErrNoRows.
	Get(ctx context.Context, topic, uuid string) ([]byte, time.Time, error)

	// Put inserts or replaces an entry.
	Put(ctx context.Context, topic, uuid string, value []byte, updatedAt time.Time) error

	// Delete removes an entry and reports whether it existed.
	Delete(ctx context.Context, topic, uuid string) (bool, error)

	// List returns all entries ordered by topic and uuid.
	List(ctx context.Context) ([]schema.EntryRecord, error)

	GetStatus() (schema.StoreStatus, error)
	Close() error
}

// EventLogStore defines the interface for recording drained events.
type EventLogStore interface {
	EventSink

	// List returns all recorded events in arrival order.
	List(ctx context.Context) ([]schema.EventRecord, error)

	GetStatus() (schema.EventLogStatus, error)
	Close() error
}
