package connections

import "errors"

var (
	ErrUnauthenticated    = errors.New("caller is not authenticated")
	ErrMissingArgument    = errors.New("required argument missing")
	ErrInvalidUserID      = errors.New("invalid user id format")
	ErrInvalidInvitation  = errors.New("invalid invitation id format")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrNotSelf            = errors.New("can only act for yourself")
	ErrNotInvitee         = errors.New("invitation not addressed to this user")
	ErrNotInviter         = errors.New("invitation was sent by another user")
	ErrCannotInviteSelf   = errors.New("cannot invite yourself")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvitationExpired  = errors.New("invitation expired")
)
