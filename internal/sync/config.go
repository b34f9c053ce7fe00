// Package sync is the heart of the client: it reconciles the local
// record store with the remote zone under unreliable connectivity and
// concurrent edits. The engine runs full and incremental passes, the
// scheduler decides when, the resolver decides who wins.
package sync

import "time"

// Config is the immutable sync configuration supplied at construction.
type Config struct {
	// Zone is the remote partition all records live in.
	Zone string

	// ConflictStrategy selects the resolver policy for overlapping edits.
	ConflictStrategy Strategy

	// BatchSize caps how many records travel in one remote call.
	BatchSize int

	// MaxRetries bounds transient-failure retries per remote call.
	MaxRetries uint64

	// RetryDelayBase is the exponential backoff base for those retries.
	RetryDelayBase time.Duration

	// DebounceDelay is the quiet period after a burst of local changes
	// before the scheduler fires an incremental pass.
	DebounceDelay time.Duration

	// BackgroundSyncInterval drives the periodic background pass.
	BackgroundSyncInterval time.Duration

	// MinSyncInterval is the minimum spacing between two sync attempts.
	MinSyncInterval time.Duration

	// IncrementalThreshold is the pending-change count above which a
	// stale incremental pass escalates to a full sync.
	IncrementalThreshold int

	// StaleAfter is how long since the last successful pass counts as
	// "long ago" for the escalation guard.
	StaleAfter time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig(zone string) Config {
	return Config{
		Zone:                   zone,
		ConflictStrategy:       StrategyNewerWins,
		BatchSize:              50,
		MaxRetries:             3,
		RetryDelayBase:         time.Second,
		DebounceDelay:          3 * time.Second,
		BackgroundSyncInterval: 30 * time.Minute,
		MinSyncInterval:        10 * time.Second,
		IncrementalThreshold:   100,
		StaleAfter:             5 * time.Minute,
	}
}
