package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/dhtcli/core"
	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/internal/eventlog"
	"github.com/huangsam/dhtcli/internal/logging"
	"github.com/huangsam/dhtcli/internal/outwriter"
	"github.com/huangsam/dhtcli/internal/repl"
	"github.com/huangsam/dhtcli/schema"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// replCmd starts the interactive console.
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive console (default command).",
	Long: `Start the interactive console on the local cache node.

Commands:
  hash                        Print the current cache hash
  peers                       Print the peers statistics
  dump                        Dump the current dht state (not implemented)
  pub <value>                 Publish a volatile JSON message
  put <topic> <uuid> <value>  Publish a persistent JSON entry
  del <topic> <uuid>          Unpublish a persistent entry
  quit                        Quit the repl
  help                        List the available commands

Events emitted by the cache are logged in the background while you type.
Ctrl-C, Ctrl-D or SIGTERM end the session.

Examples:
  # Start with debug logs so data events are shown
  dhtcli repl -vvv

  # Show the content hash in the prompt and record events
  dhtcli repl --prompt hash --eventlog-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runConsole(rootCtx)
	},
}

// runConsole wires the cache, the event consumer and the dispatcher together
// and blocks until the session ends.
func runConsole(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var in repl.LineReader = repl.NewLineReader(os.Stdin)
	var out, errOut io.Writer = os.Stdout, os.Stderr
	if repl.IsTerminal(os.Stdin) && repl.IsTerminal(os.Stdout) {
		console, err := repl.OpenConsole(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		defer func() { _ = console.Close() }()
		in, out, errOut = console, console, console
	}
	logger := logging.Setup(errOut, cfg.LogLevel, cfg.UseColors)

	cache, events, err := core.NewBuilder(cfg, storeManager.GetEntryStore()).MakeChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to start cache: %w", err)
	}
	logger.Info().Str("peer", cache.PeerID()).Msg("Cache ready")

	var sink contract.EventSink
	if store := storeManager.GetEventLogStore(); store != nil {
		sink = store
	}
	wait := startConsumer(ctx, logger, sink, events)

	err = repl.New(cache,
		repl.WithInput(in),
		repl.WithOutput(out, errOut),
		repl.WithPrompt(repl.PromptFor(cfg.Prompt)),
		repl.WithOutWriter(outwriter.NewOutWriter(cfg.Width, cfg.UseColors)),
		repl.WithLogger(logger),
		repl.WithColors(cfg.UseColors),
	).Run(ctx)

	_ = cache.Close()
	wait()
	return err
}

// startConsumer drains events on a goroutine until the stream closes.
// Interrupts do not stop it; closing the cache does. The returned func
// blocks until the consumer has finished.
func startConsumer(ctx context.Context, logger zerolog.Logger, sink contract.EventSink, events <-chan schema.Event) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = eventlog.NewConsumer(logger, sink).Run(context.WithoutCancel(ctx), events)
	}()
	return func() { <-done }
}
