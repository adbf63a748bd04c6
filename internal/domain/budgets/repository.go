package budgets

import (
	"context"

	"shared-ledger-go/internal/domain/entries"
	"shared-ledger-go/internal/domain/rates"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// LockMembers holds row locks on the users so allocation writes of one
	// clique run one at a time.
	LockMembers(ctx context.Context, userIDs []string) error
	List(ctx context.Context, userIDs []string) ([]Allocation, error)
	Get(ctx context.Context, allocationID string) (*Allocation, error)
	Create(ctx context.Context, allocation *Allocation) error
	Update(ctx context.Context, allocation *Allocation) error
	Delete(ctx context.Context, allocationID string) (bool, error)
}

type ExpenseLister interface {
	List(ctx context.Context, callerID string, filter entries.ListFilter) ([]entries.Entry, int64, error)
}

type RateLoader interface {
	MonthlyRates(ctx context.Context, months []string) (map[string]rates.MonthlyRates, error)
}
