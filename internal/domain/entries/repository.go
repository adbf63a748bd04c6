package entries

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, userIDs []string, filter ListFilter) ([]Entry, int64, error)
	GetByID(ctx context.Context, entryID string) (*Entry, error)
	Create(ctx context.Context, entry *Entry) error
	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, entryID string) (bool, error)
}

// MemberResolver returns the user ids whose ledgers userID may read and edit,
// userID first.
type MemberResolver interface {
	Members(ctx context.Context, userID string) ([]string, error)
}
