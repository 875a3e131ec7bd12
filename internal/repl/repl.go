// Package repl is the interactive command dispatcher of the console.
// It reads one line at a time, runs the matching command against the cache
// handle it owns, and prints the result.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/internal/outwriter"
	"github.com/rs/zerolog"
)

// REPL drives commands over one cache handle, strictly one at a time.
type REPL struct {
	cache     contract.Cache
	in        LineReader
	out       io.Writer
	errOut    io.Writer
	prompt    PromptFunc
	writer    *outwriter.OutWriter
	logger    zerolog.Logger
	useColors bool
}

// Option configures a REPL.
type Option func(*REPL)

// WithInput sets the line source. The default reads stdin.
func WithInput(in LineReader) Option {
	return func(r *REPL) { r.in = in }
}

// WithOutput sets the streams for command output and errors.
func WithOutput(out, errOut io.Writer) Option {
	return func(r *REPL) {
		r.out = out
		r.errOut = errOut
	}
}

// WithPrompt sets the prompt updater run after each successful command.
func WithPrompt(prompt PromptFunc) Option {
	return func(r *REPL) { r.prompt = prompt }
}

// WithOutWriter sets the renderer for tables and errors.
func WithOutWriter(w *outwriter.OutWriter) Option {
	return func(r *REPL) { r.writer = w }
}

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *REPL) { r.logger = logger }
}

// WithColors colors the prompt.
func WithColors(useColors bool) Option {
	return func(r *REPL) { r.useColors = useColors }
}

// New returns a dispatcher owning cache.
func New(cache contract.Cache, opts ...Option) *REPL {
	r := &REPL{
		cache:  cache,
		in:     NewLineReader(os.Stdin),
		out:    os.Stdout,
		errOut: os.Stderr,
		prompt: StaticPrompt(contract.DefaultPrompt),
		writer: outwriter.NewOutWriter(0, false),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads and dispatches commands until quit, end of input, or ctx is done.
// All three end the session with a nil error. Only a failure to read input
// is returned.
func (r *REPL) Run(ctx context.Context) error {
	pump := startPump(r.in)
	defer pump.stop()

	r.setPrompt(contract.DefaultPrompt)
	for {
		line, err := pump.read(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			r.logger.Debug().Msg("Interrupted")
			return nil
		case errors.Is(err, io.EOF):
			r.logger.Debug().Msg("End of input")
			return nil
		default:
			return &ReplError{Kind: InputFailure, Err: err}
		}

		if r.dispatch(ctx, line) == terminated {
			return nil
		}
	}
}

type routerState int

const (
	running routerState = iota
	terminated
)

// dispatch runs one line through parse, execute and the error router.
func (r *REPL) dispatch(ctx context.Context, line string) routerState {
	inv, ok, err := Parse(line)
	if err != nil {
		r.report(err)
		return running
	}
	if !ok {
		return running
	}

	r.logger.Debug().Str("command", inv.Command.Name).Msg("Dispatching command")
	// An interrupt never cuts a command short.
	outcome, err := r.execute(context.WithoutCancel(ctx), inv)
	if err != nil {
		r.report(err)
		return running
	}

	switch outcome.Kind {
	case Terminate:
		return terminated
	case Output:
		text := outcome.Text
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		_, _ = io.WriteString(r.out, text)
	}

	r.updatePrompt(ctx)
	return running
}

// report prints a command failure; the loop continues.
func (r *REPL) report(err error) {
	r.logger.Debug().Err(err).Msg("Command failed")
	_ = r.writer.WriteError(r.errOut, err)
}

// updatePrompt runs the prompt updater, falling back to the default prompt.
func (r *REPL) updatePrompt(ctx context.Context) {
	text, err := r.prompt(ctx, r.cache)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to update prompt")
		text = contract.DefaultPrompt
	}
	r.setPrompt(text)
}

func (r *REPL) setPrompt(text string) {
	p, ok := r.in.(prompter)
	if !ok {
		return
	}
	if r.useColors {
		text = contract.PromptColor.Sprint(text)
	}
	p.SetPrompt(fmt.Sprintf("%s> ", text))
}
