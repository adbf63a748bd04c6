package recurring

import (
	"context"
	"time"

	"shared-ledger-go/internal/domain/entries"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateTemplate(ctx context.Context, template *Template) error
	GetTemplate(ctx context.Context, templateID string) (*Template, error)
	ListTemplates(ctx context.Context, userIDs []string) ([]Template, error)
	DeleteTemplate(ctx context.Context, templateID string) (bool, error)
	// InsertEntries writes entries in chunks of batchSize, skipping ids that
	// already exist. It returns the number of rows actually inserted.
	InsertEntries(ctx context.Context, items []entries.Entry, batchSize int) (int64, error)
	// DeleteEntries removes the template's entries dated on or after from, or
	// all of them when from is nil.
	DeleteEntries(ctx context.Context, templateID string, from *time.Time) (int64, error)
	// UpcomingByTemplate summarizes entries dated strictly after the given day.
	UpcomingByTemplate(ctx context.Context, templateIDs []string, after time.Time) (map[string]Upcoming, error)
}
