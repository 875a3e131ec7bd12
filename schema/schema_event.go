package schema

import (
	"encoding/json"
	"fmt"
)

// EventKind names the variant of an Event.
type EventKind string

// All event kinds emitted by the cache engine.
const (
	ReadyPeersKind     EventKind = "ready_peers"
	VolatileDataKind   EventKind = "volatile_data"
	PersistentDataKind EventKind = "persistent_data"
)

// Event is an asynchronous notification emitted by the cache engine.
// The set of implementations is closed: ReadyPeers, VolatileData and PersistentData.
type Event interface {
	Kind() EventKind
	isEvent()
}

// ReadyPeers reports the peers that became reachable.
type ReadyPeers struct {
	Peers []string `json:"peers" yaml:"peers"`
}

// VolatileData carries a published, non-persistent value.
type VolatileData struct {
	Value json.RawMessage `json:"value" yaml:"-"`
}

// PersistentData carries a stored or deleted entry.
type PersistentData struct {
	Element PersistentElement `json:"element" yaml:"element"`
}

// Kind implements Event.
func (ReadyPeers) Kind() EventKind { return ReadyPeersKind }

// Kind implements Event.
func (VolatileData) Kind() EventKind { return VolatileDataKind }

// Kind implements Event.
func (PersistentData) Kind() EventKind { return PersistentDataKind }

func (ReadyPeers) isEvent()     {}
func (VolatileData) isEvent()   {}
func (PersistentData) isEvent() {}

// MarshalEvent returns the JSON payload of ev without its kind.
func MarshalEvent(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

// UnmarshalEvent rebuilds an event from its kind and JSON payload.
func UnmarshalEvent(kind EventKind, payload []byte) (Event, error) {
	switch kind {
	case ReadyPeersKind:
		var ev ReadyPeers
		err := json.Unmarshal(payload, &ev)
		return ev, err
	case VolatileDataKind:
		var ev VolatileData
		err := json.Unmarshal(payload, &ev)
		return ev, err
	case PersistentDataKind:
		var ev PersistentData
		err := json.Unmarshal(payload, &ev)
		return ev, err
	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
}
