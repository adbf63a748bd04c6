package analytics

import (
	"context"
	"time"

	"shared-ledger-go/internal/domain/entries"
	"shared-ledger-go/internal/domain/rates"
)

type Repository interface {
	// RecentCategories groups the newest readLimit entries of userID of
	// entryType dated on or after from, most recently used first.
	RecentCategories(ctx context.Context, userID, entryType string, from time.Time, readLimit int) ([]Usage, error)
}

type EntryLister interface {
	List(ctx context.Context, callerID string, filter entries.ListFilter) ([]entries.Entry, int64, error)
}

type RateLoader interface {
	MonthlyRates(ctx context.Context, months []string) (map[string]rates.MonthlyRates, error)
}
