package user

import "context"

type Repository interface {
	UpsertProfile(ctx context.Context, profile *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]User, error)
	UpdateSettings(ctx context.Context, userID string, displayName *string, displayCurrency *string) error
}
