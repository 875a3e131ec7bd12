package core

import (
	"slices"
	"strings"
	"time"

	"github.com/huangsam/dhtcli/schema"
)

// peerTable tracks the local node and every remote peer heard from.
type peerTable struct {
	self  string
	peers map[string]schema.PeerRecord
}

func newPeerTable(self string, static []string) *peerTable {
	t := &peerTable{self: self, peers: make(map[string]schema.PeerRecord, len(static)+1)}
	t.peers[self] = schema.PeerRecord{PeerID: self}
	for _, id := range static {
		if id == self {
			continue
		}
		t.peers[id] = schema.PeerRecord{PeerID: id}
	}
	return t
}

// announce records a hash announcement and reports whether the peer is new.
func (t *peerTable) announce(id string, hash schema.Hash, at time.Time) bool {
	_, known := t.peers[id]
	t.peers[id] = schema.PeerRecord{PeerID: id, Hash: hash, LastSeen: at}
	return !known
}

// snapshot returns all peers sorted by id, with the local node stamped at `at`.
func (t *peerTable) snapshot(selfHash schema.Hash, at time.Time) []schema.PeerRecord {
	out := make([]schema.PeerRecord, 0, len(t.peers))
	for id, p := range t.peers {
		if id == t.self {
			p.Hash = selfHash
			p.LastSeen = at
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b schema.PeerRecord) int {
		return strings.Compare(a.PeerID, b.PeerID)
	})
	return out
}

// remoteIDs returns the sorted ids of every peer except the local node.
func (t *peerTable) remoteIDs() []string {
	ids := make([]string, 0, len(t.peers))
	for id := range t.peers {
		if id != t.self {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
