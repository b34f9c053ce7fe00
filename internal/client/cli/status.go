package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/anti-elegant/Delphi-sub000/internal/client/data"
	"github.com/anti-elegant/Delphi-sub000/internal/sync"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	if !c.authService.IsAuthenticated(ctx) {
		c.io.Println("Session: not authenticated")
		c.io.Println()
		c.io.Println("Run 'delphi-sync login' to authenticate.")
		return nil
	}

	session, err := c.authService.Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	expiresAt := time.Unix(session.ExpiresAt, 0)
	remaining := time.Until(expiresAt)

	c.io.Printf("Session: authenticated as %s\n", session.Username)
	c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))
	if remaining <= 0 {
		c.io.Println("Token has expired. Please login again.")
	}

	c.io.Println()
	if !c.engine.Enabled() {
		c.io.Println("Sync: disabled")
	} else {
		state := c.engine.Status().Current()
		switch state.Phase {
		case sync.PhaseError:
			c.io.Printf("Sync: error (%s)\n", state.Reason)
		case sync.PhaseSyncing, sync.PhasePreparing:
			c.io.Printf("Sync: in progress (%.0f%%)\n", state.Progress*100)
		case sync.PhaseSuccess:
			c.io.Printf("Sync: up to date as of %s\n", state.UpdatedAt.Format(time.RFC3339))
		default:
			c.io.Println("Sync: idle")
		}
	}
	c.io.Printf("Pending changes: %d\n", c.changes.PendingCount())

	return nil
}

func (c *Cli) runMetrics(ctx context.Context) error {
	metrics, err := c.dataService.Metrics(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute metrics: %w", err)
	}

	c.io.Println("=== Accuracy Metrics ===")
	c.io.Println()
	c.io.Printf("Resolved predictions: %.0f\n", metrics[data.MetricTotalResolved])
	c.io.Printf("Correct calls:        %.0f\n", metrics[data.MetricCorrectCount])
	c.io.Printf("Accuracy:             %.1f%%\n", metrics[data.MetricAccuracy]*100)
	c.io.Printf("Brier score:          %.3f\n", metrics[data.MetricBrierScore])

	return nil
}
