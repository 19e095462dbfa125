// Package transformer defines the table transform contract and the ordered
// chain that runs transforms one after another on the same table.
package transformer

import (
	"fmt"
	"time"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

// Transformer mutates a table in place. Apply must either finish the whole
// step or return an error; callers do not inspect the table after a failure.
type Transformer interface {
	Name() string
	Apply(t *table.Table) error
}

// StepFunc observes one finished step. err is the step's error, if any.
type StepFunc func(step string, err error, d time.Duration)

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order and stops at the first error.
func (c Chain) Apply(t *table.Table) error { return c.Run(t, nil) }

// Run is Apply with a per-step observer (may be nil). The returned error is
// wrapped with the failing step's name.
func (c Chain) Run(t *table.Table, observe StepFunc) error {
	for _, tr := range c {
		start := time.Now()
		err := tr.Apply(t)
		if observe != nil {
			observe(tr.Name(), err, time.Since(start))
		}
		if err != nil {
			return fmt.Errorf("%s: %w", tr.Name(), err)
		}
	}
	return nil
}

// Names lists the step names in order.
func (c Chain) Names() []string {
	out := make([]string, len(c))
	for i, tr := range c {
		out[i] = tr.Name()
	}
	return out
}
