package store

import (
	"context"
	"time"
)

// duplicateWindow is the tolerance either side of the candidate date. OCR
// timestamps are imprecise, so the same screenshot ingested twice may carry
// dates many hours apart.
const duplicateWindow = 24 * time.Hour

// PaymentFinder is the lookup capability the guard needs. Kept minimal so
// tests can supply a fake without a database.
type PaymentFinder interface {
	FindByAmountAndRef(ctx context.Context, userID uint, amount float64, referenceNo string) ([]Payment, error)
}

// DuplicateGuard decides whether a candidate transaction has already been
// stored. A prior payment matches when it has the same amount and the same
// reference number and its date falls inside the inclusive window
// [candidate-1d, candidate+1d]. This is a heuristic, not a unique key: two
// genuinely distinct same-amount same-reference payments more than a day
// apart both get stored.
type DuplicateGuard struct {
	finder PaymentFinder
}

// NewDuplicateGuard creates a guard over the given lookup.
func NewDuplicateGuard(finder PaymentFinder) *DuplicateGuard {
	return &DuplicateGuard{finder: finder}
}

// Check reports whether a matching payment exists and, if so, its id.
func (g *DuplicateGuard) Check(ctx context.Context, userID uint, amount float64, referenceNo string, date time.Time) (uint, bool, error) {
	existing, err := g.finder.FindByAmountAndRef(ctx, userID, amount, referenceNo)
	if err != nil {
		return 0, false, err
	}

	start := date.Add(-duplicateWindow)
	end := date.Add(duplicateWindow)
	for _, p := range existing {
		if !p.OccurredAt.Before(start) && !p.OccurredAt.After(end) {
			return p.ID, true, nil
		}
	}
	return 0, false, nil
}
