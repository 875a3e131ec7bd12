// Package schema has models, constants and shared value types for all parts of dhtcli.
package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

// Hash is the 64-bit content fingerprint of a cache node.
type Hash uint64

// String returns the lowercase hex form used by the console.
func (h Hash) String() string {
	return fmt.Sprintf("%x", uint64(h))
}

// Short returns the first 7 hex digits, enough to tell two nodes apart in a prompt.
func (h Hash) Short() string {
	s := h.String()
	if len(s) > 7 {
		return s[:7]
	}
	return s
}

// PeerRecord is a read-only snapshot of a known peer.
type PeerRecord struct {
	PeerID   string    `json:"peer_id"`   // Unique identifier of the peer
	Hash     Hash      `json:"hash"`      // Last content hash announced by the peer
	LastSeen time.Time `json:"last_seen"` // When the peer was last heard from
}

// PersistentElement is a (topic, uuid)-keyed value the cache stores until deleted.
type PersistentElement struct {
	Topic     string          `json:"topic" yaml:"topic"`
	UUID      string          `json:"uuid" yaml:"uuid"`
	Value     json.RawMessage `json:"value,omitempty" yaml:"-"`
	Deleted   bool            `json:"deleted" yaml:"deleted"`
	UpdatedAt time.Time       `json:"updated_at" yaml:"updated_at"`
}

// Key returns the storage key of the element.
func (e PersistentElement) Key() string {
	return e.Topic + "/" + e.UUID
}
