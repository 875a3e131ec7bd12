// Package eventlog drains the cache event stream, logging every event and
// forwarding it to an optional sink.
package eventlog

import (
	"context"
	"errors"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"
	"github.com/rs/zerolog"
)

// Consumer owns the receiving end of an event stream.
// It never touches the cache handle.
type Consumer struct {
	logger zerolog.Logger
	sink   contract.EventSink
}

// NewConsumer returns a consumer that logs through logger and forwards to sink.
// The sink may be nil.
func NewConsumer(logger zerolog.Logger, sink contract.EventSink) *Consumer {
	return &Consumer{logger: logger, sink: sink}
}

// Run processes events in arrival order until the stream closes (nil error)
// or ctx is done (ctx.Err()). It returns the number of events processed.
func (c *Consumer) Run(ctx context.Context, events <-chan schema.Event) (int, error) {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				c.logger.Debug().Int("events", n).Msg("Event stream closed")
				return n, nil
			}
			n++
			c.handle(ctx, ev)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, ev schema.Event) {
	switch ev := ev.(type) {
	case schema.ReadyPeers:
		c.logger.Info().Strs("peers", ev.Peers).Msg("Peers ready")
	case schema.VolatileData:
		withValue(c.logger.Debug(), ev.Value).Msg("Got data")
	case schema.PersistentData:
		e := ev.Element
		withValue(c.logger.Debug().
			Str("topic", e.Topic).
			Str("uuid", e.UUID).
			Bool("deleted", e.Deleted), e.Value).
			Msg("Got elem")
	}

	if c.sink == nil {
		return
	}
	if err := c.sink.Record(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn().Err(err).Str("kind", string(ev.Kind())).Msg("Failed to record event")
	}
}

// withValue attaches a JSON value to the log event when there is one.
func withValue(e *zerolog.Event, value []byte) *zerolog.Event {
	if len(value) == 0 {
		return e
	}
	return e.RawJSON("value", value)
}

// Tee fans every event out to each sink in order, returning the first error
// after all sinks have been tried.
type Tee []contract.EventSink

// Record implements contract.EventSink.
func (t Tee) Record(ctx context.Context, ev schema.Event) error {
	var first error
	for _, s := range t {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
