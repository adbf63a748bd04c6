package budgets

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"shared-ledger-go/internal/catalog"
	"shared-ledger-go/internal/domain/entries"
	"shared-ledger-go/internal/domain/rates"
	"shared-ledger-go/internal/domain/user"
)

type Service struct {
	repo       Repository
	members    entries.MemberResolver
	expenses   ExpenseLister
	rates      RateLoader
	categories *catalog.Catalog
	now        func() time.Time
}

func NewService(repo Repository, members entries.MemberResolver, expenses ExpenseLister, rateLoader RateLoader, categories *catalog.Catalog) *Service {
	return &Service{
		repo:       repo,
		members:    members,
		expenses:   expenses,
		rates:      rateLoader,
		categories: categories,
		now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, callerID string) ([]Allocation, error) {
	memberIDs, err := s.members.Members(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}
	allocations, err := s.repo.List(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	if allocations == nil {
		allocations = []Allocation{}
	}
	return allocations, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Allocation, error) {
	categories, amount, currency, err := s.validate(input.Categories, input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}

	memberIDs, err := s.members.Members(ctx, input.CallerID)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}

	allocation := Allocation{
		ID:         uuid.NewString(),
		UserID:     input.CallerID,
		Categories: datatypes.JSONSlice[string](categories),
		Amount:     amount,
		Currency:   currency,
		CreatedAt:  s.now().UTC(),
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := s.ensureAvailable(ctx, tx, memberIDs, categories, ""); err != nil {
			return err
		}
		return tx.Create(ctx, &allocation)
	})
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Allocation, error) {
	categories, amount, currency, err := s.validate(input.Categories, input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}

	memberIDs, err := s.members.Members(ctx, input.CallerID)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}

	var updated Allocation
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		allocation, err := tx.Get(ctx, input.ID)
		if err != nil {
			return err
		}
		if !slices.Contains(memberIDs, allocation.UserID) {
			return ErrForbidden
		}
		if err := s.ensureAvailable(ctx, tx, memberIDs, categories, allocation.ID); err != nil {
			return err
		}

		now := s.now().UTC()
		allocation.Categories = datatypes.JSONSlice[string](categories)
		allocation.Amount = amount
		allocation.Currency = currency
		allocation.UpdatedAt = &now
		if err := tx.Update(ctx, allocation); err != nil {
			return err
		}
		updated = *allocation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, callerID, allocationID string) error {
	memberIDs, err := s.members.Members(ctx, callerID)
	if err != nil {
		return fmt.Errorf("resolve members: %w", err)
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		allocation, err := tx.Get(ctx, allocationID)
		if err != nil {
			return err
		}
		if !slices.Contains(memberIDs, allocation.UserID) {
			return ErrForbidden
		}
		deleted, err := tx.Delete(ctx, allocationID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrAllocationNotFound
		}
		return nil
	})
}

// Progress reports spending against every allocation of the caller's clique
// for month (YYYY-MM).
func (s *Service) Progress(ctx context.Context, callerID, month string) ([]Progress, error) {
	first, err := rates.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	last := first.AddDate(0, 1, -1)

	allocations, err := s.List(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(allocations) == 0 {
		return []Progress{}, nil
	}

	expenses, _, err := s.expenses.List(ctx, callerID, entries.ListFilter{
		From: &first,
		To:   &last,
		Type: entries.TypeExpense,
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	byMonth, err := s.rates.MonthlyRates(ctx, []string{month, rates.MonthKey(first.AddDate(0, -1, 0))})
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}

	result := make([]Progress, 0, len(allocations))
	for _, allocation := range allocations {
		progress := Progress{Allocation: allocation, Spent: decimal.Zero}
		for _, expense := range expenses {
			if !slices.Contains([]string(allocation.Categories), expense.Category) {
				continue
			}
			amount, err := rates.Convert(expense.OriginalAmount, expense.Currency, allocation.Currency, expense.Date, byMonth)
			if err != nil {
				progress.Unconverted++
				continue
			}
			progress.Spent = progress.Spent.Add(amount)
		}
		progress.Remaining = allocation.Amount.Sub(progress.Spent)
		result = append(result, progress)
	}
	return result, nil
}

func (s *Service) ensureAvailable(ctx context.Context, tx Repository, memberIDs, categories []string, excludeID string) error {
	if err := tx.LockMembers(ctx, memberIDs); err != nil {
		return err
	}
	allocations, err := tx.List(ctx, memberIDs)
	if err != nil {
		return err
	}
	used := UsedCategories(allocations, excludeID)
	for _, category := range categories {
		if _, ok := used[category]; ok {
			return fmt.Errorf("%s: %w", category, ErrCategoryInUse)
		}
	}
	return nil
}

func (s *Service) validate(categories []string, amount decimal.Decimal, currency string) ([]string, decimal.Decimal, string, error) {
	normalized := make([]string, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		category = strings.TrimSpace(category)
		if _, ok := seen[category]; ok {
			continue
		}
		if s.categories == nil || !s.categories.Allows(category, entries.TypeExpense) {
			return nil, decimal.Zero, "", fmt.Errorf("%s: %w", category, ErrInvalidCategory)
		}
		seen[category] = struct{}{}
		normalized = append(normalized, category)
	}
	if len(normalized) == 0 {
		return nil, decimal.Zero, "", ErrNoCategories
	}
	sort.Strings(normalized)

	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, decimal.Zero, "", ErrInvalidAmount
	}
	code, err := user.NormalizeCurrency(currency)
	if err != nil {
		return nil, decimal.Zero, "", ErrInvalidCurrency
	}
	return normalized, amount, code, nil
}

// UsedCategories collects the categories of allocations other than excludeID.
func UsedCategories(allocations []Allocation, excludeID string) map[string]struct{} {
	used := make(map[string]struct{})
	for _, allocation := range allocations {
		if excludeID != "" && allocation.ID == excludeID {
			continue
		}
		for _, category := range allocation.Categories {
			used[category] = struct{}{}
		}
	}
	return used
}
