package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// timestampLayout is the Timestamp column format.
const timestampLayout = time.DateTime

// PeerView is the serializable form of a peer record.
type PeerView struct {
	PeerID   string    `json:"peer_id"`
	Hash     string    `json:"hash"`
	LastSeen time.Time `json:"last_seen"`
}

// PeerViews converts peer records into their serializable form.
func PeerViews(peers []schema.PeerRecord) []PeerView {
	views := make([]PeerView, 0, len(peers))
	for _, p := range peers {
		views = append(views, PeerView{PeerID: p.PeerID, Hash: p.Hash.String(), LastSeen: p.LastSeen})
	}
	return views
}

// WritePeersJSON writes the peers as an indented JSON array.
func WritePeersJSON(w io.Writer, peers []schema.PeerRecord) error {
	return writeJSON(w, PeerViews(peers))
}

// writePeerTable generates and writes the human-readable peers table.
func writePeerTable(w io.Writer, peers []schema.PeerRecord, peerWidth int) error {
	table := tablewriter.NewWriter(w)

	table.Header([]string{"Peer", "Hash", "Timestamp"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, p := range peers {
		data = append(data, []string{
			contract.TruncateMiddle(p.PeerID, peerWidth),
			p.Hash.Short(),
			formatLastSeen(p.LastSeen),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d peers\n", len(peers))
	return err
}

// formatLastSeen renders a peer timestamp, or "-" for a peer never heard from.
func formatLastSeen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timestampLayout)
}
