package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"
	"github.com/rs/zerolog/log"
)

// Cache is the local cache handle. Every mutation is written through to the
// entry store and then emitted on the event stream.
type Cache struct {
	mu        sync.Mutex // Serializes mutations and guards sends on events
	self      string
	store     contract.EntryStore
	entries   map[string]schema.PersistentElement
	hash      schema.Hash
	peers     *peerTable
	events    chan schema.Event
	done      chan struct{}
	closed    bool
	closeOnce sync.Once
	now       func() time.Time
}

var _ contract.Cache = &Cache{} // Compile-time check

// load fills the in-memory view from the entry store.
func (c *Cache) load(ctx context.Context) error {
	if c.store != nil {
		records, err := c.store.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to load stored entries: %w", err)
		}
		for _, r := range records {
			e := schema.PersistentElement{Topic: r.Topic, UUID: r.UUID, Value: r.Value, UpdatedAt: r.UpdatedAt}
			c.entries[e.Key()] = e
		}
	}
	c.hash = contentHash(c.entries)
	return nil
}

// PeerID returns the identity of the local node.
func (c *Cache) PeerID() string {
	return c.self
}

// GetHash returns the fingerprint of the current entry set.
func (c *Cache) GetHash(ctx context.Context) (schema.Hash, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	return c.hash, nil
}

// Peers returns a snapshot of every known peer, the local node included.
func (c *Cache) Peers(ctx context.Context) ([]schema.PeerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	return c.peers.snapshot(c.hash, c.now()), nil
}

// Send publishes a volatile value. It is delivered on the local event stream only.
func (c *Cache) Send(ctx context.Context, value json.RawMessage) error {
	if !json.Valid(value) {
		return ErrInvalidValue
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.emit(ctx, schema.VolatileData{Value: bytes.Clone(value)})
}

// Put upserts the entry keyed by (topic, uuid).
func (c *Cache) Put(ctx context.Context, topic, uuid string, value json.RawMessage) error {
	if err := validateKey(topic, uuid); err != nil {
		return err
	}
	if !json.Valid(value) {
		return ErrInvalidValue
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	e := schema.PersistentElement{
		Topic:     topic,
		UUID:      uuid,
		Value:     bytes.Clone(value),
		UpdatedAt: c.now(),
	}
	if c.store != nil {
		if err := c.store.Put(ctx, topic, uuid, e.Value, e.UpdatedAt); err != nil {
			return fmt.Errorf("failed to store %s: %w", e.Key(), err)
		}
	}
	c.entries[e.Key()] = e
	c.hash = contentHash(c.entries)
	c.notify(ctx, schema.PersistentData{Element: e})
	return nil
}

// Del removes the entry keyed by (topic, uuid). Deleting a missing entry
// returns ErrEntryNotFound.
func (c *Cache) Del(ctx context.Context, topic, uuid string) error {
	if err := validateKey(topic, uuid); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	e := schema.PersistentElement{Topic: topic, UUID: uuid}
	if _, ok := c.entries[e.Key()]; !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, e.Key())
	}
	if c.store != nil {
		if _, err := c.store.Delete(ctx, topic, uuid); err != nil {
			return fmt.Errorf("failed to delete %s: %w", e.Key(), err)
		}
	}
	delete(c.entries, e.Key())
	c.hash = contentHash(c.entries)

	e.Deleted = true
	e.UpdatedAt = c.now()
	c.notify(ctx, schema.PersistentData{Element: e})
	return nil
}

// Announce records a hash announcement from a peer. A peer heard from for the
// first time is reported on the event stream as ready.
func (c *Cache) Announce(ctx context.Context, peerID string, hash schema.Hash) error {
	peerID = strings.TrimSpace(peerID)
	if peerID == "" || peerID == c.self {
		return fmt.Errorf("invalid peer id %q", peerID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.peers.announce(peerID, hash, c.now()) {
		return c.emit(ctx, schema.ReadyPeers{Peers: []string{peerID}})
	}
	return nil
}

// Close ends the event stream and closes the entry store. It is safe to call more than once.
func (c *Cache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		// Unblock any emit waiting on a full stream before taking the lock
		close(c.done)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.closed = true
		close(c.events)
		if c.store != nil {
			err = c.store.Close()
		}
	})
	return err
}

// emit delivers ev to the stream, blocking until it is accepted, the context
// is done, or the cache is closed. Callers must hold c.mu.
func (c *Cache) emit(ctx context.Context, ev schema.Event) error {
	select {
	case c.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

// notify emits an event for a change that is already committed. A failed
// emit cannot undo the change, so it is logged instead of returned.
func (c *Cache) notify(ctx context.Context, ev schema.Event) {
	if err := c.emit(ctx, ev); err != nil {
		log.Warn().Err(err).Str("kind", string(ev.Kind())).Msg("Failed to emit event")
	}
}

func validateKey(topic, uuid string) error {
	if strings.TrimSpace(topic) == "" || strings.TrimSpace(uuid) == "" {
		return ErrInvalidKey
	}
	return nil
}
