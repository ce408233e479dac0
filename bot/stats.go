package bot

import (
	"sync/atomic"
	"time"
)

// Stats tracks per-process command counters for the ops endpoint.
// All counters are atomics; commands update them from concurrent
// goroutines.
type Stats struct {
	started time.Time

	commands       atomic.Uint64
	userErrors     atomic.Uint64
	upstreamErrors atomic.Uint64
}

// StatsSnapshot is a point-in-time view of the bot counters
type StatsSnapshot struct {
	UptimeSeconds  int64  `json:"uptime_seconds"`
	Commands       uint64 `json:"commands"`
	UserErrors     uint64 `json:"user_errors"`
	UpstreamErrors uint64 `json:"upstream_errors"`
}

// NewStats creates a new counter set
func NewStats() *Stats {
	return &Stats{
		started: time.Now().UTC(),
	}
}

// Snapshot captures the current counter values
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		UptimeSeconds:  int64(time.Since(s.started).Seconds()),
		Commands:       s.commands.Load(),
		UserErrors:     s.userErrors.Load(),
		UpstreamErrors: s.upstreamErrors.Load(),
	}
}
