package connections

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetInvitation(ctx context.Context, invitationID string) (*Invitation, error)
	GetInvitationForUpdate(ctx context.Context, invitationID string) (*Invitation, error)
	CreateInvitation(ctx context.Context, invitation *Invitation) error
	DeleteInvitation(ctx context.Context, invitationID string) (bool, error)
	ListInvitationsByEmail(ctx context.Context, email string) ([]Invitation, error)
	ListInvitationsByInviter(ctx context.Context, userID string) ([]Invitation, error)
	// LockConnections reads connected_user_ids of the given users, locking
	// their rows until the surrounding transaction ends. Users without a row
	// are absent from the result.
	LockConnections(ctx context.Context, userIDs []string) (map[string][]string, error)
	GetConnections(ctx context.Context, userID string) ([]string, error)
	// SaveConnections replaces the connection list, creating the user row
	// when it does not exist yet.
	SaveConnections(ctx context.Context, userID string, connectedUserIDs []string) error
}
