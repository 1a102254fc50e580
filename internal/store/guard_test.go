package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockFinder struct {
	FindFunc func(ctx context.Context, userID uint, amount float64, referenceNo string) ([]Payment, error)
}

func (m *mockFinder) FindByAmountAndRef(ctx context.Context, userID uint, amount float64, referenceNo string) ([]Payment, error) {
	return m.FindFunc(ctx, userID, amount, referenceNo)
}

func TestDuplicateGuardWindow(t *testing.T) {
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		existingAt time.Time
		wantDup    bool
	}{
		{
			name:       "same instant",
			existingAt: base,
			wantDup:    true,
		},
		{
			name:       "twelve hours earlier",
			existingAt: base.Add(-12 * time.Hour),
			wantDup:    true,
		},
		{
			name:       "exactly one day earlier",
			existingAt: base.Add(-24 * time.Hour),
			wantDup:    true,
		},
		{
			name:       "exactly one day later",
			existingAt: base.Add(24 * time.Hour),
			wantDup:    true,
		},
		{
			name:       "one day and a second earlier",
			existingAt: base.Add(-24*time.Hour - time.Second),
			wantDup:    false,
		},
		{
			name:       "one day and a second later",
			existingAt: base.Add(24*time.Hour + time.Second),
			wantDup:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &mockFinder{
				FindFunc: func(ctx context.Context, userID uint, amount float64, referenceNo string) ([]Payment, error) {
					return []Payment{{ID: 42, OccurredAt: tt.existingAt}}, nil
				},
			}
			guard := NewDuplicateGuard(finder)

			id, dup, err := guard.Check(context.Background(), 1, 1200, "REF40983240", base)
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if dup != tt.wantDup {
				t.Errorf("Check() duplicate = %v, want %v", dup, tt.wantDup)
			}
			if tt.wantDup && id != 42 {
				t.Errorf("Check() id = %d, want 42", id)
			}
			if !tt.wantDup && id != 0 {
				t.Errorf("Check() id = %d, want 0", id)
			}
		})
	}
}

func TestDuplicateGuardNoMatch(t *testing.T) {
	finder := &mockFinder{
		FindFunc: func(ctx context.Context, userID uint, amount float64, referenceNo string) ([]Payment, error) {
			return nil, nil
		},
	}
	guard := NewDuplicateGuard(finder)

	id, dup, err := guard.Check(context.Background(), 1, 500, "REF123", time.Now())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if dup {
		t.Error("Check() reported a duplicate with no stored payments")
	}
	if id != 0 {
		t.Errorf("Check() id = %d, want 0", id)
	}
}

func TestDuplicateGuardFirstInWindowWins(t *testing.T) {
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	finder := &mockFinder{
		FindFunc: func(ctx context.Context, userID uint, amount float64, referenceNo string) ([]Payment, error) {
			return []Payment{
				{ID: 7, OccurredAt: base.Add(-48 * time.Hour)},
				{ID: 8, OccurredAt: base.Add(-6 * time.Hour)},
				{ID: 9, OccurredAt: base.Add(6 * time.Hour)},
			}, nil
		},
	}
	guard := NewDuplicateGuard(finder)

	id, dup, err := guard.Check(context.Background(), 1, 1200, "REF40983240", base)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !dup {
		t.Fatal("Check() found no duplicate, want one")
	}
	if id != 8 {
		t.Errorf("Check() id = %d, want 8", id)
	}
}

func TestDuplicateGuardFinderError(t *testing.T) {
	wantErr := errors.New("connection refused")
	finder := &mockFinder{
		FindFunc: func(ctx context.Context, userID uint, amount float64, referenceNo string) ([]Payment, error) {
			return nil, wantErr
		},
	}
	guard := NewDuplicateGuard(finder)

	_, _, err := guard.Check(context.Background(), 1, 500, "REF123", time.Now())
	if !errors.Is(err, wantErr) {
		t.Errorf("Check() error = %v, want %v", err, wantErr)
	}
}

func TestDuplicateGuardPassesLookupArgs(t *testing.T) {
	var gotUser uint
	var gotAmount float64
	var gotRef string
	finder := &mockFinder{
		FindFunc: func(ctx context.Context, userID uint, amount float64, referenceNo string) ([]Payment, error) {
			gotUser, gotAmount, gotRef = userID, amount, referenceNo
			return nil, nil
		},
	}
	guard := NewDuplicateGuard(finder)

	_, _, err := guard.Check(context.Background(), 3, 750.50, "UPI998877", time.Now())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if gotUser != 3 || gotAmount != 750.50 || gotRef != "UPI998877" {
		t.Errorf("Check() forwarded (%d, %v, %q), want (3, 750.5, %q)", gotUser, gotAmount, gotRef, "UPI998877")
	}
}
