// Package core is the local cache engine: a single-node implementation of the
// distributed cache handle together with its event stream.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"
)

// Errors returned by cache operations.
var (
	ErrClosed        = errors.New("cache is closed")
	ErrEntryNotFound = errors.New("entry not found")
	ErrInvalidValue  = errors.New("value is not valid JSON")
	ErrInvalidKey    = errors.New("topic and uuid must be non-empty")
)

// Builder constructs a cache handle and its event stream from configuration.
type Builder struct {
	cfg   *contract.Config
	store contract.EntryStore
	now   func() time.Time
}

// NewBuilder is the starting point for building a cache. The store may be nil,
// in which case entries only live in memory.
func NewBuilder(cfg *contract.Config, store contract.EntryStore) *Builder {
	return &Builder{cfg: cfg, store: store, now: time.Now}
}

// WithClock overrides the time source used for entry and peer timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// MakeChannel builds the cache handle and the stream of events it emits.
// Stored entries are loaded first, then a ReadyPeers event announces the
// statically configured peers. The stream is closed by Cache.Close.
func (b *Builder) MakeChannel(ctx context.Context) (*Cache, <-chan schema.Event, error) {
	self := b.cfg.PeerID
	if self == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate peer id: %w", err)
		}
		self = id.String()
	}

	buffer := b.cfg.EventBuffer
	if buffer <= 0 {
		buffer = contract.DefaultEventBuffer
	}

	c := &Cache{
		self:    self,
		store:   b.store,
		entries: make(map[string]schema.PersistentElement),
		peers:   newPeerTable(self, b.cfg.StaticPeers),
		events:  make(chan schema.Event, buffer),
		done:    make(chan struct{}),
		now:     b.now,
	}

	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.emit(ctx, schema.ReadyPeers{Peers: c.peers.remoteIDs()}); err != nil {
		return nil, nil, err
	}
	return c, c.events, nil
}
