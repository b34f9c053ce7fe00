package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/anti-elegant/Delphi-sub000/internal/sync"
)

func (c *Cli) runSync(ctx context.Context, full bool) error {
	if !c.engine.Enabled() {
		return fmt.Errorf("sync is disabled; enable it in settings first")
	}
	if !c.authService.IsAuthenticated(ctx) {
		return fmt.Errorf("not authenticated; run 'delphi-sync login' first")
	}

	if full {
		c.io.Println("Running full sync...")
	} else {
		c.io.Println("Syncing...")
	}

	var err error
	if full {
		err = c.engine.FullSync(ctx)
	} else {
		err = c.engine.Sync(ctx)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	state := c.engine.Status().Current()
	if state.Phase == sync.PhaseError {
		return fmt.Errorf("sync failed: %s", state.Reason)
	}

	c.io.Printf("Sync complete at %s.\n", state.UpdatedAt.Format(time.RFC3339))
	c.io.Printf("Pending changes: %d\n", c.changes.PendingCount())

	return nil
}
