package schema

import "time"

// StoreStatus represents the status of the persistent entry store.
type StoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastUpdateTime  time.Time `json:"last_update_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// EventLogStatus represents the status of the event log store.
type EventLogStatus struct {
	Backend        string            `json:"backend"`
	Connected      bool              `json:"connected"`
	TotalEvents    int               `json:"total_events"`
	LastEventTime  time.Time         `json:"last_event_time"`
	FirstEventTime time.Time         `json:"first_event_time"`
	KindCounts     map[EventKind]int `json:"kind_counts"`
}
