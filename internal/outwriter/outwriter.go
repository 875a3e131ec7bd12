// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"
)

// OutWriter provides a unified interface for console output.
// It renders command results and errors for the configured terminal.
type OutWriter struct {
	width     int  // Terminal width override (0 = auto-detect)
	useColors bool // Color error lines
}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter(width int, useColors bool) *OutWriter {
	return &OutWriter{width: width, useColors: useColors}
}

// WritePeers prints the peers table.
func (ow *OutWriter) WritePeers(w io.Writer, peers []schema.PeerRecord) error {
	return writePeerTable(w, peers, GetMaxPeerWidth(ow.width))
}

// WriteError prints err as one line, in red when colors are enabled.
func (ow *OutWriter) WriteError(w io.Writer, err error) error {
	if ow.useColors {
		_, werr := contract.ErrorColor.Fprintln(w, err)
		return werr
	}
	_, werr := fmt.Fprintln(w, err)
	return werr
}
