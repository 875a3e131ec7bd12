package eventlog

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/dhtcli/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormatText(t *testing.T) {
	tests := []struct {
		name string
		ev   schema.Event
		want string
	}{
		{"ready peers", schema.ReadyPeers{Peers: []string{"a", "b"}}, "ready_peers peers=[a b]"},
		{"volatile", schema.VolatileData{Value: json.RawMessage(`{"a":1}`)}, `volatile_data value={"a":1}`},
		{
			"persistent",
			schema.PersistentData{Element: schema.PersistentElement{Topic: "t", UUID: "u", Value: json.RawMessage(`2`)}},
			"persistent_data topic=t uuid=u value=2",
		},
		{
			"deleted",
			schema.PersistentData{Element: schema.PersistentElement{Topic: "t", UUID: "u", Deleted: true}},
			"persistent_data topic=t uuid=u deleted=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatText(tt.ev))
		})
	}
}

func TestRendererText(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, schema.TextOut)
	require.NoError(t, err)

	for _, ev := range sampleEvents() {
		require.NoError(t, r.Record(context.Background(), ev))
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ready_peers"))
}

func TestRendererJSON(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, schema.JSONOut)
	require.NoError(t, err)

	require.NoError(t, r.Record(context.Background(), schema.VolatileData{Value: json.RawMessage(`{"a":1}`)}))
	assert.JSONEq(t, `{"kind":"volatile_data","event":{"value":{"a":1}}}`, buf.String())
}

func TestRendererYAML(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, schema.YAMLOut)
	require.NoError(t, err)

	updated := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, r.Record(context.Background(), schema.ReadyPeers{}))
	require.NoError(t, r.Record(context.Background(), schema.PersistentData{Element: schema.PersistentElement{
		Topic: "t", UUID: "u", Value: json.RawMessage(`{"x":[1,2]}`), UpdatedAt: updated,
	}}))

	docs := strings.Split(buf.String(), "---\n")
	require.Len(t, docs, 2)
	assert.Equal(t, "kind: ready_peers\npeers: []\n", docs[0])

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(docs[1]), &got))
	assert.Equal(t, "persistent_data", got["kind"])
	assert.Equal(t, "t", got["topic"])
	assert.Equal(t, false, got["deleted"])
	assert.Equal(t, "2025-01-02T03:04:05Z", got["updated_at"])
	assert.Equal(t, map[string]any{"x": []any{1, 2}}, got["value"])
}

func TestNewRendererRejectsUnknownMode(t *testing.T) {
	_, err := NewRenderer(&bytes.Buffer{}, "xml")
	assert.Error(t, err)
}
