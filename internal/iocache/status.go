package iocache

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/dhtcli/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintStoreStatus prints entry store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Update: %s\n", status.LastUpdateTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintEventLogStatus prints event log status information.
func PrintEventLogStatus(w io.Writer, status schema.EventLogStatus) {
	_, _ = fmt.Fprintf(w, "Event Log Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Events: %d\n", status.TotalEvents)
	if status.TotalEvents == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "First Event: %s\n", status.FirstEventTime.Format(statusTimeFormat))
	_, _ = fmt.Fprintf(w, "Last Event: %s\n", status.LastEventTime.Format(statusTimeFormat))
	_, _ = fmt.Fprintln(w, "Events by Kind:")
	kinds := make([]schema.EventKind, 0, len(status.KindCounts))
	for kind := range status.KindCounts {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		_, _ = fmt.Fprintf(w, "  %s: %d\n", kind, status.KindCounts[kind])
	}
}
