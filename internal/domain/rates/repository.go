package rates

import "context"

type Repository interface {
	// GetMonth returns the stored rates of month; found is false when the
	// month has never been written.
	GetMonth(ctx context.Context, month string) (MonthlyRates, bool, error)
	// MergeDays upserts days into month, replacing days already present.
	MergeDays(ctx context.Context, month string, days MonthlyRates) error
}
