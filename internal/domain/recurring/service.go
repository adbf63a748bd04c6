package recurring

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"shared-ledger-go/internal/catalog"
	"shared-ledger-go/internal/domain/entries"
)

const defaultBatchSize = 200

type Config struct {
	// ServiceStartDate is the earliest day any series may produce entries for.
	ServiceStartDate time.Time
	BatchSize        int
}

type Service struct {
	repo       Repository
	members    entries.MemberResolver
	categories *catalog.Catalog
	cfg        Config
	now        func() time.Time
}

func NewService(repo Repository, members entries.MemberResolver, categories *catalog.Catalog, cfg Config) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Service{
		repo:       repo,
		members:    members,
		categories: categories,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Create stores a template and materializes every occurrence as an entry in
// one transaction. Entry ids derive from the template id and date, so a retry
// never duplicates rows.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Template, int64, error) {
	draft, err := input.Draft.Normalize(s.categories)
	if err != nil {
		return nil, 0, err
	}
	rule, err := NormalizeRule(input.Start, input.Rule)
	if err != nil {
		return nil, 0, err
	}

	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = input.CallerID
	}
	if err := s.authorize(ctx, input.CallerID, ownerID); err != nil {
		return nil, 0, err
	}

	start := entries.Day(input.Start)
	dates := OccurrenceDates(start, rule, s.cfg.ServiceStartDate)
	if len(dates) == 0 {
		return nil, 0, ErrNoOccurrences
	}

	template := Template{
		ID:             uuid.NewString(),
		UserID:         ownerID,
		Type:           draft.Type,
		OriginalAmount: draft.Amount,
		Currency:       draft.Currency,
		Category:       draft.Category,
		Frequency:      rule.Frequency,
		Interval:       rule.Interval,
		EndDate:        rule.EndDate,
		StartDate:      start,
		CreatedBy:      input.CallerID,
		CreatedAt:      s.now().UTC(),
	}
	if draft.Description != "" {
		description := draft.Description
		template.Description = &description
	}
	if len(rule.DaysOfWeek) > 0 {
		template.DaysOfWeek = datatypes.JSONSlice[int](rule.DaysOfWeek)
	}
	if rule.DayOfMonth > 0 {
		dayOfMonth := rule.DayOfMonth
		template.DayOfMonth = &dayOfMonth
	}

	items := materialize(template, dates)

	var inserted int64
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateTemplate(ctx, &template); err != nil {
			return err
		}
		count, err := tx.InsertEntries(ctx, items, s.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("insert entries: %w", err)
		}
		inserted = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &template, inserted, nil
}

// Stop deletes the entries dated today or later and keeps the template and
// past entries.
func (s *Service) Stop(ctx context.Context, callerID, templateID string) (int64, error) {
	today := entries.Day(s.now())

	var deleted int64
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		template, err := tx.GetTemplate(ctx, templateID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, callerID, template.UserID); err != nil {
			return err
		}
		deleted, err = tx.DeleteEntries(ctx, templateID, &today)
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// DeleteSeries removes the template and every entry generated from it,
// modified ones included.
func (s *Service) DeleteSeries(ctx context.Context, callerID, templateID string) (int64, error) {
	var deleted int64
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		template, err := tx.GetTemplate(ctx, templateID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, callerID, template.UserID); err != nil {
			return err
		}
		deleted, err = tx.DeleteEntries(ctx, templateID, nil)
		if err != nil {
			return err
		}
		removed, err := tx.DeleteTemplate(ctx, templateID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrTemplateNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// List returns the templates of the caller's clique with their upcoming
// occurrence counts and a readable description of the rule.
func (s *Service) List(ctx context.Context, callerID string) ([]Summary, error) {
	memberIDs, err := s.members.Members(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}

	templates, err := s.repo.ListTemplates(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return []Summary{}, nil
	}

	ids := make([]string, 0, len(templates))
	for _, template := range templates {
		ids = append(ids, template.ID)
	}
	upcoming, err := s.repo.UpcomingByTemplate(ctx, ids, entries.Day(s.now()))
	if err != nil {
		return nil, err
	}

	result := make([]Summary, 0, len(templates))
	for _, template := range templates {
		result = append(result, Summary{
			Template: template,
			Upcoming: upcoming[template.ID],
			Label:    Describe(template),
		})
	}
	return result, nil
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

func materialize(template Template, dates []time.Time) []entries.Entry {
	items := make([]entries.Entry, 0, len(dates))
	for _, date := range dates {
		templateID := template.ID
		var description *string
		if template.Description != nil {
			value := *template.Description
			description = &value
		}
		items = append(items, entries.Entry{
			ID:                  EntryID(template.ID, date),
			Type:                template.Type,
			UserID:              template.UserID,
			OriginalAmount:      template.OriginalAmount,
			Currency:            template.Currency,
			Category:            template.Category,
			Description:         description,
			Date:                date,
			RecurringTemplateID: &templateID,
			IsRecurringInstance: true,
			CreatedBy:           template.CreatedBy,
			CreatedAt:           template.CreatedAt,
		})
	}
	return items
}
