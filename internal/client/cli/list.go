package cli

import (
	"context"
	"fmt"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

func (c *Cli) runList(ctx context.Context) error {
	predictions, err := c.dataService.ListPredictions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list predictions: %w", err)
	}

	if len(predictions) == 0 {
		c.io.Println("No predictions yet. Run 'delphi-sync add' to log one.")
		return nil
	}

	c.io.Printf("%-36s  %-10s  %-5s  %-9s  %s\n", "ID", "DUE", "CONF", "OUTCOME", "STATEMENT")
	for _, p := range predictions {
		c.io.Printf("%-36s  %-10s  %4.0f%%  %-9s  %s\n",
			p.ID,
			p.Due.Format(dueLayout),
			p.Confidence*100,
			outcomeLabel(p.Outcome),
			p.Statement,
		)
	}

	return nil
}

func outcomeLabel(o models.Outcome) string {
	if o == "" {
		return string(models.OutcomePending)
	}
	return string(o)
}
