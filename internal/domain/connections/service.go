package connections

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,128}$`)

type Config struct {
	InvitationTTL   time.Duration
	MembersCacheTTL time.Duration
}

type Service struct {
	repo  Repository
	cache MembersCache
	cfg   Config
	now   func() time.Time
}

func NewService(repo Repository, cache MembersCache, cfg Config) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if cfg.InvitationTTL <= 0 {
		cfg.InvitationTTL = 7 * 24 * time.Hour
	}
	return &Service{
		repo:  repo,
		cache: cache,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *Service) Invite(ctx context.Context, input InviteInput) (*Invitation, error) {
	if input.Caller.ID == "" {
		return nil, ErrUnauthenticated
	}

	address, err := mail.ParseAddress(strings.TrimSpace(input.Email))
	if err != nil {
		return nil, ErrInvalidEmail
	}
	email := strings.ToLower(address.Address)
	if strings.EqualFold(email, input.Caller.Email) {
		return nil, ErrCannotInviteSelf
	}

	inviterName := strings.TrimSpace(input.InviterName)
	if inviterName == "" {
		inviterName = input.Caller.Email
	}

	now := s.now().UTC()
	invitation := Invitation{
		ID:           uuid.NewString(),
		InvitedEmail: email,
		InvitedBy:    input.Caller.ID,
		InviterName:  inviterName,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.cfg.InvitationTTL),
	}
	if err := s.repo.CreateInvitation(ctx, &invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListReceived returns the unexpired invitations addressed to the caller.
// Expired rows are left in place; they are filtered here and refused on accept.
func (s *Service) ListReceived(ctx context.Context, caller Caller) ([]Invitation, error) {
	if caller.Email == "" {
		return []Invitation{}, nil
	}

	invitations, err := s.repo.ListInvitationsByEmail(ctx, strings.ToLower(caller.Email))
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]Invitation, 0, len(invitations))
	for _, invitation := range invitations {
		if !invitation.Expired(now) {
			result = append(result, invitation)
		}
	}
	return result, nil
}

func (s *Service) ListSent(ctx context.Context, caller Caller) ([]Invitation, error) {
	return s.repo.ListInvitationsByInviter(ctx, caller.ID)
}

func (s *Service) Reject(ctx context.Context, caller Caller, invitationID string) error {
	return s.removeInvitation(ctx, invitationID, func(invitation *Invitation) error {
		if caller.Email == "" || !strings.EqualFold(caller.Email, invitation.InvitedEmail) {
			return ErrNotInvitee
		}
		return nil
	})
}

func (s *Service) Cancel(ctx context.Context, caller Caller, invitationID string) error {
	return s.removeInvitation(ctx, invitationID, func(invitation *Invitation) error {
		if invitation.InvitedBy != caller.ID {
			return ErrNotInviter
		}
		return nil
	})
}

func (s *Service) removeInvitation(ctx context.Context, invitationID string, authorize func(*Invitation) error) error {
	if !idPattern.MatchString(invitationID) {
		return ErrInvalidInvitation
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		invitation, err := tx.GetInvitationForUpdate(ctx, invitationID)
		if err != nil {
			return err
		}
		if err := authorize(invitation); err != nil {
			return err
		}
		deleted, err := tx.DeleteInvitation(ctx, invitationID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrInvitationNotFound
		}
		return nil
	})
}

// Accept merges the recipient into the inviter's clique: every clique member
// gains userID and the recipient gains every clique member. The invitation is
// consumed in the same transaction, so a concurrent second accept finds it gone.
func (s *Service) Accept(ctx context.Context, caller Caller, invitationID, userID string) error {
	if caller.ID == "" {
		return ErrUnauthenticated
	}
	if invitationID == "" || userID == "" {
		return ErrMissingArgument
	}
	if !idPattern.MatchString(invitationID) {
		return ErrInvalidInvitation
	}
	if !idPattern.MatchString(userID) {
		return ErrInvalidUserID
	}
	if userID != caller.ID {
		return ErrNotSelf
	}

	var touched []string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		invitation, err := tx.GetInvitationForUpdate(ctx, invitationID)
		if err != nil {
			return err
		}

		if !caller.EmailVerified || caller.Email == "" || !strings.EqualFold(caller.Email, invitation.InvitedEmail) {
			return ErrNotInvitee
		}
		if invitation.Expired(s.now()) {
			return ErrInvitationExpired
		}

		current, err := tx.LockConnections(ctx, []string{invitation.InvitedBy, userID})
		if err != nil {
			return err
		}

		clique := cliqueOf(invitation.InvitedBy, current[invitation.InvitedBy], userID)

		var unread []string
		for _, memberID := range clique {
			if _, ok := current[memberID]; !ok {
				unread = append(unread, memberID)
			}
		}
		if len(unread) > 0 {
			more, err := tx.LockConnections(ctx, unread)
			if err != nil {
				return err
			}
			for memberID, connected := range more {
				current[memberID] = connected
			}
		}

		for _, memberID := range clique {
			if err := tx.SaveConnections(ctx, memberID, addUnique(current[memberID], userID)); err != nil {
				return err
			}
		}
		if err := tx.SaveConnections(ctx, userID, addUnique(current[userID], clique...)); err != nil {
			return err
		}

		deleted, err := tx.DeleteInvitation(ctx, invitationID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrInvitationNotFound
		}

		touched = append(clique, userID)
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.DeleteMembers(touched...)
	return nil
}

// Leave detaches userID from every peer. The remaining peers keep their
// connections to each other.
func (s *Service) Leave(ctx context.Context, caller Caller, userID string) error {
	if caller.ID == "" {
		return ErrUnauthenticated
	}
	if userID == "" {
		return ErrMissingArgument
	}
	if !idPattern.MatchString(userID) {
		return ErrInvalidUserID
	}
	if userID != caller.ID {
		return ErrNotSelf
	}

	var touched []string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		self, err := tx.LockConnections(ctx, []string{userID})
		if err != nil {
			return err
		}
		connected, ok := self[userID]
		if !ok {
			return ErrUserNotFound
		}

		peers := without(addUnique(nil, connected...), userID)
		peerConnections, err := tx.LockConnections(ctx, peers)
		if err != nil {
			return err
		}

		for _, peerID := range peers {
			existing, ok := peerConnections[peerID]
			if !ok {
				continue
			}
			if err := tx.SaveConnections(ctx, peerID, without(existing, userID)); err != nil {
				return err
			}
		}

		if err := tx.SaveConnections(ctx, userID, []string{}); err != nil {
			return err
		}

		touched = append(peers, userID)
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.DeleteMembers(touched...)
	return nil
}

// Members returns userID followed by its connected users, sorted. A user
// without a row is a clique of one.
func (s *Service) Members(ctx context.Context, userID string) ([]string, error) {
	if members, ok := s.cache.GetMembers(userID); ok {
		return members, nil
	}

	connected, err := s.repo.GetConnections(ctx, userID)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	peers := without(addUnique(nil, connected...), userID)
	sort.Strings(peers)
	members := append([]string{userID}, peers...)

	if s.cfg.MembersCacheTTL > 0 {
		s.cache.SetMembers(userID, members, s.cfg.MembersCacheTTL)
	}
	return members, nil
}

// ConnectedUserIDs returns the members of userID's clique other than userID.
func (s *Service) ConnectedUserIDs(ctx context.Context, userID string) ([]string, error) {
	members, err := s.Members(ctx, userID)
	if err != nil {
		return nil, err
	}
	return members[1:], nil
}

func cliqueOf(inviterID string, inviterConnections []string, recipientID string) []string {
	clique := addUnique([]string{inviterID}, inviterConnections...)
	return without(clique, recipientID)
}

func addUnique(list []string, ids ...string) []string {
	seen := make(map[string]struct{}, len(list)+len(ids))
	result := make([]string, 0, len(list)+len(ids))
	for _, id := range append(append([]string{}, list...), ids...) {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func without(list []string, id string) []string {
	result := make([]string, 0, len(list))
	for _, item := range list {
		if item != id {
			result = append(result, item)
		}
	}
	return result
}
