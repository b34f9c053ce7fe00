package cli

import (
	"context"
	"fmt"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

func (c *Cli) runResolve(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: delphi-sync resolve <id> <correct|incorrect>")
	}
	id := args[0]

	var outcome models.Outcome
	switch args[1] {
	case "correct":
		outcome = models.OutcomeCorrect
	case "incorrect":
		outcome = models.OutcomeIncorrect
	default:
		return fmt.Errorf("outcome must be 'correct' or 'incorrect', got %q", args[1])
	}

	if err := c.dataService.ResolvePrediction(ctx, id, outcome); err != nil {
		return err
	}

	c.io.Printf("Prediction %s resolved as %s.\n", id, outcome)

	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delphi-sync delete <id>")
	}
	id := args[0]

	if err := c.dataService.DeletePrediction(ctx, id); err != nil {
		return err
	}

	c.io.Printf("Prediction %s deleted.\n", id)

	return nil
}
