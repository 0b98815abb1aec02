package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl + snapshot)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// DeliveryEntry records one message carried across the bridge.
// Keep it compact and schema-stable.
type DeliveryEntry struct {
	At            time.Time
	SourceChannel string
	TargetChannel string
	ChatType      string
	ChatID        string
	MessageID     string
	Error         string
	TookMS        int64
}
