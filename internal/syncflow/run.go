package syncflow

import (
	"context"
	"fmt"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Run drives one sync to completion inline, asking confirmer when the pair
// is new. Sync failures are reported in the Outcome; the error is only set
// when the sync could not be started or the prompt itself failed.
func (c *Controller) Run(ctx context.Context, confirmer Confirmer) (Outcome, error) {
	cmd, err := c.Sync()
	if err != nil {
		return c.outcome, err
	}

	out := c.Resolve(cmd(ctx))
	if out.Kind != OutcomeConflictPending {
		return out, nil
	}

	yes, err := confirmer.Confirm(ctx, ConfirmMessage)
	if err != nil {
		c.Confirm(false)
		return c.outcome, fmt.Errorf("confirm sync pair: %w", err)
	}

	retry, err := c.Confirm(yes)
	if err != nil {
		return c.outcome, err
	}
	if retry == nil {
		return c.outcome, nil
	}
	return c.Resolve(retry(ctx)), nil
}
