package core

import (
	"crypto/sha256"
	"encoding/binary"
	"slices"

	"github.com/huangsam/dhtcli/schema"
)

// contentHash fingerprints a set of entries independently of insertion order.
// Keys are visited in sorted order and each field is NUL-terminated so that
// ("ab", "c") and ("a", "bc") hash differently.
func contentHash(entries map[string]schema.PersistentElement) schema.Hash {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	h := sha256.New()
	for _, k := range keys {
		e := entries[k]
		h.Write([]byte(e.Topic))
		h.Write([]byte{0})
		h.Write([]byte(e.UUID))
		h.Write([]byte{0})
		h.Write(e.Value)
		h.Write([]byte{0})
	}
	return schema.Hash(binary.BigEndian.Uint64(h.Sum(nil)[:8]))
}
