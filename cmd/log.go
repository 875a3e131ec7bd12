package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/dhtcli/core"
	"github.com/huangsam/dhtcli/internal/eventlog"
	"github.com/huangsam/dhtcli/internal/outwriter"
	"github.com/huangsam/dhtcli/schema"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// logCmd prints the event stream of the local node.
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print every event the cache emits.",
	Long: `Start the local cache node and print its event stream until interrupted.

The first line reports the content hash the stream starts from. Each event is
then printed as text, JSON lines or YAML documents depending on --output.

Examples:
  # Follow events as text
  dhtcli log

  # Write events as JSON lines to a file
  dhtcli log --output json --output-file events.jsonl`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runEventLog(rootCtx)
	},
}

// runEventLog prints events until the stream closes or an interrupt arrives.
func runEventLog(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, events, err := core.NewBuilder(cfg, storeManager.GetEntryStore()).MakeChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to start cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	hash, err := cache.GetHash(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache hash: %w", err)
	}

	return outwriter.WriteWithFile(cfg.OutputFile, func(w io.Writer) error {
		// Structured output stays parseable; the banner goes to stderr.
		banner := w
		if cfg.Output != schema.TextOut {
			banner = stderr
		}
		if _, err := fmt.Fprintf(banner, "Logging from hash %s\n", hash); err != nil {
			return err
		}

		renderer, err := eventlog.NewRenderer(w, cfg.Output)
		if err != nil {
			return err
		}
		sinks := eventlog.Tee{renderer}
		if store := storeManager.GetEventLogStore(); store != nil {
			sinks = append(sinks, store)
		}

		_, err = eventlog.NewConsumer(log.Logger, sinks).Run(ctx, events)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}, "Wrote events")
}
