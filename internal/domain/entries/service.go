package entries

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"shared-ledger-go/internal/catalog"
	"shared-ledger-go/internal/domain/user"
)

type Service struct {
	repo       Repository
	members    MemberResolver
	categories *catalog.Catalog
	now        func() time.Time
}

func NewService(repo Repository, members MemberResolver, categories *catalog.Catalog) *Service {
	return &Service{
		repo:       repo,
		members:    members,
		categories: categories,
		now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, callerID string, filter ListFilter) ([]Entry, int64, error) {
	memberIDs, err := s.members.Members(ctx, callerID)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve members: %w", err)
	}
	if filter.Type != "" && filter.Type != TypeExpense && filter.Type != TypeIncome {
		return nil, 0, ErrInvalidType
	}

	items, total, err := s.repo.List(ctx, memberIDs, filter)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []Entry{}
	}
	return items, total, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Entry, error) {
	draft, err := input.Draft.Normalize(s.categories)
	if err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, ErrInvalidDate
	}

	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = input.CallerID
	}
	if err := s.authorize(ctx, input.CallerID, ownerID); err != nil {
		return nil, err
	}

	entry := Entry{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Date:      Day(input.Date),
		CreatedBy: input.CallerID,
		CreatedAt: s.now().UTC(),
	}
	draft.apply(&entry)

	if err := s.repo.Create(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update rewrites the editable fields of an entry. Editing a generated
// recurring instance marks it modified so later series operations can tell it
// apart from untouched occurrences.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*Entry, error) {
	draft, err := input.Draft.Normalize(s.categories)
	if err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, ErrInvalidDate
	}

	var updated Entry
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		entry, err := tx.GetByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, input.CallerID, entry.UserID); err != nil {
			return err
		}

		draft.apply(entry)
		entry.Date = Day(input.Date)
		if entry.IsRecurringInstance {
			entry.IsModified = true
		}
		now := s.now().UTC()
		callerID := input.CallerID
		entry.UpdatedAt = &now
		entry.UpdatedBy = &callerID

		if err := tx.Update(ctx, entry); err != nil {
			return err
		}
		updated = *entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, callerID, entryID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		entry, err := tx.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, callerID, entry.UserID); err != nil {
			return err
		}
		deleted, err := tx.Delete(ctx, entryID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrEntryNotFound
		}
		return nil
	})
}

func (s *Service) authorize(ctx context.Context, callerID, ownerID string) error {
	memberIDs, err := s.members.Members(ctx, callerID)
	if err != nil {
		return fmt.Errorf("resolve members: %w", err)
	}
	if !slices.Contains(memberIDs, ownerID) {
		return ErrForbidden
	}
	return nil
}

// Normalize validates the draft against categories and returns it with the
// currency upper-cased, the amount rounded to cents and the description trimmed.
func (d Draft) Normalize(categories *catalog.Catalog) (Draft, error) {
	if d.Type != TypeExpense && d.Type != TypeIncome {
		return Draft{}, ErrInvalidType
	}
	amount := d.Amount.Round(2)
	if !amount.IsPositive() {
		return Draft{}, ErrInvalidAmount
	}
	currency, err := user.NormalizeCurrency(d.Currency)
	if err != nil {
		return Draft{}, ErrInvalidCurrency
	}
	category := strings.TrimSpace(d.Category)
	if categories == nil || !categories.Allows(category, d.Type) {
		return Draft{}, ErrInvalidCategory
	}

	return Draft{
		Type:        d.Type,
		Amount:      amount,
		Currency:    currency,
		Category:    category,
		Description: strings.TrimSpace(d.Description),
	}, nil
}

func (d Draft) apply(entry *Entry) {
	entry.Type = d.Type
	entry.OriginalAmount = d.Amount
	entry.Currency = d.Currency
	entry.Category = d.Category
	entry.Description = nil
	if d.Description != "" {
		description := d.Description
		entry.Description = &description
	}
}
