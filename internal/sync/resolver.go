package sync

import "github.com/anti-elegant/Delphi-sub000/internal/models"

// Strategy selects which side of a conflicting edit wins.
type Strategy string

const (
	// StrategyNewerWins picks the record with the greater LastModified.
	// Ties favor local to avoid an unnecessary overwrite.
	StrategyNewerWins Strategy = "newer_wins"

	// StrategyServerWins always picks the remote copy.
	StrategyServerWins Strategy = "server_wins"

	// StrategyClientWins always picks the local copy.
	StrategyClientWins Strategy = "client_wins"
)

// ParseStrategy maps a stored strategy name to a Strategy, defaulting
// to NewerWins for anything unrecognized.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case StrategyServerWins:
		return StrategyServerWins
	case StrategyClientWins:
		return StrategyClientWins
	default:
		return StrategyNewerWins
	}
}

// Resolve picks the winner between a local and a remote copy of the
// same record. Pure function: no I/O, no clock, deterministic for any
// input pair.
func Resolve(local, remote *models.Record, strategy Strategy) *models.Record {
	if local == nil {
		return remote
	}
	if remote == nil {
		return local
	}

	switch strategy {
	case StrategyServerWins:
		return remote
	case StrategyClientWins:
		return local
	default:
		if remote.IsNewerThan(local) {
			return remote
		}
		return local
	}
}
