package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

const dueLayout = "2006-01-02"

func (c *Cli) runAdd(ctx context.Context) error {
	c.io.Println("=== New Prediction ===")
	c.io.Println()

	statement, err := c.io.ReadInput("Statement: ")
	if err != nil {
		return fmt.Errorf("failed to read statement: %w", err)
	}
	if statement == "" {
		return fmt.Errorf("statement cannot be empty")
	}

	confInput, err := c.io.ReadInput("Confidence (0-100%): ")
	if err != nil {
		return fmt.Errorf("failed to read confidence: %w", err)
	}
	confidence, err := parseConfidence(confInput)
	if err != nil {
		return err
	}

	dueInput, err := c.io.ReadInput("Due date (YYYY-MM-DD): ")
	if err != nil {
		return fmt.Errorf("failed to read due date: %w", err)
	}
	due, err := time.Parse(dueLayout, dueInput)
	if err != nil {
		return fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", dueInput)
	}

	p, err := c.dataService.AddPrediction(ctx, &models.Prediction{
		Statement:  statement,
		Confidence: confidence,
		Due:        due,
	})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("Prediction logged with ID %s.\n", p.ID)

	return nil
}

// parseConfidence accepts "0.8", "80" and "80%", always returning a
// fraction in [0, 1].
func parseConfidence(input string) (float64, error) {
	s := strings.TrimSuffix(strings.TrimSpace(input), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid confidence %q", input)
	}
	if v > 1 {
		v /= 100
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("confidence must be between 0%% and 100%%, got %s", input)
	}
	return v, nil
}
