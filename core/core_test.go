package core

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/internal/iocache"
	"github.com/huangsam/dhtcli/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

func newTestCache(t *testing.T, cfg *contract.Config, store contract.EntryStore) (*Cache, <-chan schema.Event) {
	t.Helper()
	if cfg == nil {
		cfg = &contract.Config{PeerID: "node-a"}
	}
	c, events, err := NewBuilder(cfg, store).WithClock(func() time.Time { return fixedNow }).MakeChannel(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, events
}

// next reads one event or fails the test.
func next(t *testing.T, events <-chan schema.Event) schema.Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "stream closed unexpectedly")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestMakeChannel(t *testing.T) {
	t.Run("announces static peers first", func(t *testing.T) {
		cfg := &contract.Config{PeerID: "node-a", StaticPeers: []string{"node-c", "node-b"}}
		_, events := newTestCache(t, cfg, nil)

		ev := next(t, events)
		assert.Equal(t, schema.ReadyPeers{Peers: []string{"node-b", "node-c"}}, ev)
	})

	t.Run("generates a time-ordered peer id", func(t *testing.T) {
		c, _ := newTestCache(t, &contract.Config{}, nil)

		id, err := uuid.Parse(c.PeerID())
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())
	})

	t.Run("default event buffer", func(t *testing.T) {
		_, events := newTestCache(t, &contract.Config{PeerID: "node-a"}, nil)
		assert.Equal(t, contract.DefaultEventBuffer, cap(events))
	})
}

func TestPeers(t *testing.T) {
	cfg := &contract.Config{PeerID: "node-b", StaticPeers: []string{"node-a"}}
	c, events := newTestCache(t, cfg, nil)
	next(t, events)
	ctx := context.Background()

	peers, err := c.Peers(ctx)
	require.NoError(t, err)
	require.Len(t, peers, 2)
	assert.Equal(t, "node-a", peers[0].PeerID)
	assert.True(t, peers[0].LastSeen.IsZero(), "static peer not heard from yet")
	assert.Equal(t, "node-b", peers[1].PeerID)
	assert.Equal(t, fixedNow, peers[1].LastSeen)

	hash, err := c.GetHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, hash, peers[1].Hash, "local peer carries the current hash")

	t.Run("announce known peer is silent", func(t *testing.T) {
		require.NoError(t, c.Announce(ctx, "node-a", 0xabc))
		peers, err := c.Peers(ctx)
		require.NoError(t, err)
		assert.Equal(t, schema.Hash(0xabc), peers[0].Hash)
		assert.Empty(t, events)
	})

	t.Run("announce new peer emits ready", func(t *testing.T) {
		require.NoError(t, c.Announce(ctx, "node-z", 0x1))
		assert.Equal(t, schema.ReadyPeers{Peers: []string{"node-z"}}, next(t, events))
	})

	t.Run("announce rejects self", func(t *testing.T) {
		assert.Error(t, c.Announce(ctx, "node-b", 0x1))
		assert.Error(t, c.Announce(ctx, "  ", 0x1))
	})
}

func TestSend(t *testing.T) {
	c, events := newTestCache(t, nil, nil)
	next(t, events)
	ctx := context.Background()

	require.NoError(t, c.Send(ctx, json.RawMessage(`{"a":1}`)))
	assert.Equal(t, schema.VolatileData{Value: json.RawMessage(`{"a":1}`)}, next(t, events))

	before, err := c.GetHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, contentHash(map[string]schema.PersistentElement{}), before, "volatile data never changes the hash")

	assert.ErrorIs(t, c.Send(ctx, json.RawMessage(`{"a":`)), ErrInvalidValue)
}

func TestPutThenDel(t *testing.T) {
	store, err := iocache.NewEntryStore("dht_entries", schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)

	c, events := newTestCache(t, nil, store)
	next(t, events)
	ctx := context.Background()

	empty, err := c.GetHash(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "topic1", "uuid1", json.RawMessage(`{"x":1}`)))
	ev := next(t, events).(schema.PersistentData)
	assert.Equal(t, "topic1", ev.Element.Topic)
	assert.Equal(t, "uuid1", ev.Element.UUID)
	assert.False(t, ev.Element.Deleted)
	assert.Equal(t, fixedNow, ev.Element.UpdatedAt)

	withEntry, err := c.GetHash(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, empty, withEntry)

	value, _, err := store.Get(ctx, "topic1", "uuid1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(value))

	require.NoError(t, c.Del(ctx, "topic1", "uuid1"))
	ev = next(t, events).(schema.PersistentData)
	assert.True(t, ev.Element.Deleted)

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records, "no entry should remain in the store")

	after, err := c.GetHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, empty, after, "hash returns to the empty fingerprint")
}

func TestDelMissing(t *testing.T) {
	c, events := newTestCache(t, nil, nil)
	next(t, events)

	err := c.Del(context.Background(), "topic1", "nope")
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.ErrorContains(t, err, "topic1/nope")
	assert.Empty(t, events, "failed delete emits nothing")
}

func TestPutValidation(t *testing.T) {
	c, _ := newTestCache(t, nil, nil)
	ctx := context.Background()

	assert.ErrorIs(t, c.Put(ctx, "", "u", json.RawMessage(`1`)), ErrInvalidKey)
	assert.ErrorIs(t, c.Put(ctx, "t", " ", json.RawMessage(`1`)), ErrInvalidKey)
	assert.ErrorIs(t, c.Put(ctx, "t", "u", json.RawMessage(`nope`)), ErrInvalidValue)
	assert.ErrorIs(t, c.Del(ctx, "", "u"), ErrInvalidKey)
}

func TestContentHash(t *testing.T) {
	a := schema.PersistentElement{Topic: "t", UUID: "1", Value: json.RawMessage(`1`)}
	b := schema.PersistentElement{Topic: "t", UUID: "2", Value: json.RawMessage(`2`)}

	h1 := contentHash(map[string]schema.PersistentElement{a.Key(): a, b.Key(): b})
	h2 := contentHash(map[string]schema.PersistentElement{b.Key(): b, a.Key(): a})
	assert.Equal(t, h1, h2, "hash is independent of insertion order")

	// Field boundaries matter
	x := schema.PersistentElement{Topic: "ab", UUID: "c", Value: json.RawMessage(`1`)}
	y := schema.PersistentElement{Topic: "a", UUID: "bc", Value: json.RawMessage(`1`)}
	assert.NotEqual(t,
		contentHash(map[string]schema.PersistentElement{"x": x}),
		contentHash(map[string]schema.PersistentElement{"y": y}))
}

func TestReloadFromStore(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "entries.db")

	store, err := iocache.NewEntryStore("dht_entries", schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	c, events := newTestCache(t, nil, store)
	next(t, events)
	require.NoError(t, c.Put(ctx, "t", "u", json.RawMessage(`[1]`)))
	want, err := c.GetHash(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	reopened, err := iocache.NewEntryStore("dht_entries", schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	c2, _ := newTestCache(t, nil, reopened)
	got, err := c2.GetHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClose(t *testing.T) {
	c, events := newTestCache(t, nil, nil)
	next(t, events)
	ctx := context.Background()

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "close is idempotent")

	_, ok := <-events
	assert.False(t, ok, "stream is closed")

	_, err := c.GetHash(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.Peers(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.Send(ctx, json.RawMessage(`1`)), ErrClosed)
	assert.ErrorIs(t, c.Put(ctx, "t", "u", json.RawMessage(`1`)), ErrClosed)
	assert.ErrorIs(t, c.Del(ctx, "t", "u"), ErrClosed)
}

func TestEmitBlocksUntilAccepted(t *testing.T) {
	c, _ := newTestCache(t, &contract.Config{PeerID: "node-a", EventBuffer: 1}, nil)
	// The buffer already holds the initial ReadyPeers event

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Send(ctx, json.RawMessage(`1`))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCloseUnblocksEmit(t *testing.T) {
	c, _ := newTestCache(t, &contract.Config{PeerID: "node-a", EventBuffer: 1}, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Send(context.Background(), json.RawMessage(`1`)) }()

	// Give the sender a moment to block on the full stream
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, c.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("send did not unblock after close")
	}
}

func TestCommittedChangeSurvivesEmitFailure(t *testing.T) {
	store, err := iocache.NewEntryStore("dht_entries", schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	c, events := newTestCache(t, &contract.Config{PeerID: "node-a", EventBuffer: 1}, store)
	// The buffer already holds the initial ReadyPeers event

	bg := context.Background()
	empty, err := c.GetHash(bg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(bg, 20*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Put(ctx, "topic1", "uuid1", json.RawMessage(`{"x":1}`)))

	withEntry, err := c.GetHash(bg)
	require.NoError(t, err)
	assert.NotEqual(t, empty, withEntry)
	_, _, err = store.Get(bg, "topic1", "uuid1")
	require.NoError(t, err)

	delCtx, delCancel := context.WithTimeout(bg, 20*time.Millisecond)
	defer delCancel()
	require.NoError(t, c.Del(delCtx, "topic1", "uuid1"))
	after, err := c.GetHash(bg)
	require.NoError(t, err)
	assert.Equal(t, empty, after)

	// Only the initial event made it onto the stream
	assert.Len(t, events, 1)
}
