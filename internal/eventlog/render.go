package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/huangsam/dhtcli/schema"
	"gopkg.in/yaml.v3"
)

// Renderer writes each event it records to w in the chosen output format.
type Renderer struct {
	mu    sync.Mutex
	w     io.Writer
	mode  schema.OutputMode
	wrote bool
}

// NewRenderer returns a sink printing events as text, json or yaml.
func NewRenderer(w io.Writer, mode schema.OutputMode) (*Renderer, error) {
	if _, ok := schema.ValidOutputModes[mode]; !ok {
		return nil, fmt.Errorf("unsupported output mode: %s", mode)
	}
	return &Renderer{w: w, mode: mode}, nil
}

// Record implements contract.EventSink.
func (r *Renderer) Record(_ context.Context, ev schema.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	switch r.mode {
	case schema.JSONOut:
		err = r.writeJSON(ev)
	case schema.YAMLOut:
		err = r.writeYAML(ev)
	default:
		_, err = fmt.Fprintln(r.w, FormatText(ev))
	}
	r.wrote = true
	return err
}

// FormatText returns the one-line text form of an event.
func FormatText(ev schema.Event) string {
	switch ev := ev.(type) {
	case schema.ReadyPeers:
		return fmt.Sprintf("%s peers=%v", ev.Kind(), ev.Peers)
	case schema.VolatileData:
		return fmt.Sprintf("%s value=%s", ev.Kind(), ev.Value)
	case schema.PersistentData:
		e := ev.Element
		if e.Deleted {
			return fmt.Sprintf("%s topic=%s uuid=%s deleted=true", ev.Kind(), e.Topic, e.UUID)
		}
		return fmt.Sprintf("%s topic=%s uuid=%s value=%s", ev.Kind(), e.Topic, e.UUID, e.Value)
	default:
		return fmt.Sprintf("%v", ev)
	}
}

// envelope is the json line form of an event.
type envelope struct {
	Kind  schema.EventKind `json:"kind"`
	Event schema.Event     `json:"event"`
}

func (r *Renderer) writeJSON(ev schema.Event) error {
	b, err := json.Marshal(envelope{Kind: ev.Kind(), Event: ev})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", ev.Kind(), err)
	}
	_, err = fmt.Fprintf(r.w, "%s\n", b)
	return err
}

func (r *Renderer) writeYAML(ev schema.Event) error {
	doc, err := yamlView(ev)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", ev.Kind(), err)
	}
	if r.wrote {
		if _, err := io.WriteString(r.w, "---\n"); err != nil {
			return err
		}
	}
	_, err = r.w.Write(b)
	return err
}

// yamlView flattens an event into an ordered YAML mapping with JSON values decoded.
func yamlView(ev schema.Event) (*yaml.Node, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value any) error {
		var v yaml.Node
		if err := v.Encode(value); err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &v)
		return nil
	}
	decode := func(raw json.RawMessage) (any, error) {
		if len(raw) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to decode value: %w", err)
		}
		return v, nil
	}

	if err := add("kind", string(ev.Kind())); err != nil {
		return nil, err
	}
	switch ev := ev.(type) {
	case schema.ReadyPeers:
		peers := ev.Peers
		if peers == nil {
			peers = []string{}
		}
		return doc, add("peers", peers)
	case schema.VolatileData:
		v, err := decode(ev.Value)
		if err != nil {
			return nil, err
		}
		return doc, add("value", v)
	case schema.PersistentData:
		e := ev.Element
		v, err := decode(e.Value)
		if err != nil {
			return nil, err
		}
		for _, kv := range []struct {
			key   string
			value any
		}{
			{"topic", e.Topic},
			{"uuid", e.UUID},
			{"deleted", e.Deleted},
			{"updated_at", e.UpdatedAt.Format(time.RFC3339Nano)},
			{"value", v},
		} {
			if err := add(kv.key, kv.value); err != nil {
				return nil, err
			}
		}
		return doc, nil
	default:
		return doc, nil
	}
}
