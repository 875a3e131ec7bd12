package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// LineReader reads one line of operator input. It returns io.EOF when the
// input ends or the operator presses Ctrl-D or Ctrl-C at the prompt.
type LineReader interface {
	ReadLine() (string, error)
}

// prompter is implemented by line readers that display a prompt.
type prompter interface {
	SetPrompt(prompt string)
}

// streamReader reads lines from a plain stream such as a pipe.
type streamReader struct {
	r *bufio.Reader
}

// NewLineReader reads newline-terminated lines from r without a prompt.
func NewLineReader(r io.Reader) LineReader {
	return &streamReader{r: bufio.NewReader(r)}
}

func (s *streamReader) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Console is an x/term line editor over the process terminal in raw mode.
// It is also the single writer for command output and log lines, so
// asynchronous output redraws the prompt instead of corrupting it.
type Console struct {
	term  *term.Terminal
	fd    int
	state *term.State
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// OpenConsole puts in into raw mode and starts a line editor writing to out.
// Close restores the terminal.
func OpenConsole(in, out *os.File) (*Console, error) {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	rw := struct {
		io.Reader
		io.Writer
	}{in, out}
	return &Console{term: term.NewTerminal(rw, ""), fd: fd, state: state}, nil
}

// ReadLine implements LineReader.
func (c *Console) ReadLine() (string, error) {
	return c.term.ReadLine()
}

// SetPrompt replaces the prompt shown before each line.
func (c *Console) SetPrompt(prompt string) {
	c.term.SetPrompt(prompt)
}

// Write prints p above the current prompt line.
func (c *Console) Write(p []byte) (int, error) {
	return c.term.Write(p)
}

// Close restores the terminal state saved by OpenConsole.
func (c *Console) Close() error {
	return term.Restore(c.fd, c.state)
}

type lineResult struct {
	line string
	err  error
}

// linePump reads lines on a helper goroutine, one per request, so the
// dispatcher can wait on input and cancellation at the same time.
type linePump struct {
	requests chan struct{}
	results  chan lineResult
	pending  bool
}

func startPump(r LineReader) *linePump {
	p := &linePump{
		requests: make(chan struct{}, 1),
		results:  make(chan lineResult, 1),
	}
	go func() {
		for range p.requests {
			line, err := r.ReadLine()
			p.results <- lineResult{line: line, err: err}
		}
	}()
	return p
}

// read returns the next line, or ctx.Err() once ctx is done.
// A read already in flight is kept for the next call.
func (p *linePump) read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !p.pending {
		p.requests <- struct{}{}
		p.pending = true
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-p.results:
		p.pending = false
		return res.line, res.err
	}
}

// stop lets the helper goroutine exit once its current read returns.
func (p *linePump) stop() {
	close(p.requests)
}
