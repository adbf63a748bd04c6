package recurring

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"shared-ledger-go/internal/domain/entries"
	recurringdomain "shared-ledger-go/internal/domain/recurring"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(recurringdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateTemplate(ctx context.Context, template *recurringdomain.Template) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *PostgresRepository) GetTemplate(ctx context.Context, templateID string) (*recurringdomain.Template, error) {
	var template recurringdomain.Template
	if err := r.db.WithContext(ctx).Where("id = ?", templateID).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recurringdomain.ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

func (r *PostgresRepository) ListTemplates(ctx context.Context, userIDs []string) ([]recurringdomain.Template, error) {
	var templates []recurringdomain.Template
	if len(userIDs) == 0 {
		return templates, nil
	}
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at desc").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *PostgresRepository) DeleteTemplate(ctx context.Context, templateID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&recurringdomain.Template{}, "id = ?", templateID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) InsertEntries(ctx context.Context, items []entries.Entry, batchSize int) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		CreateInBatches(items, batchSize)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) DeleteEntries(ctx context.Context, templateID string, from *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Where("recurring_template_id = ?", templateID)
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	result := query.Delete(&entries.Entry{})
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) UpcomingByTemplate(ctx context.Context, templateIDs []string, after time.Time) (map[string]recurringdomain.Upcoming, error) {
	type upcomingRow struct {
		TemplateID string    `gorm:"column:recurring_template_id"`
		Next       time.Time `gorm:"column:next_date"`
		Remaining  int64     `gorm:"column:remaining"`
	}

	result := make(map[string]recurringdomain.Upcoming, len(templateIDs))
	if len(templateIDs) == 0 {
		return result, nil
	}

	var rows []upcomingRow
	if err := r.db.WithContext(ctx).
		Model(&entries.Entry{}).
		Select("recurring_template_id, MIN(date) AS next_date, COUNT(*) AS remaining").
		Where("recurring_template_id IN ? AND date > ?", templateIDs, after).
		Group("recurring_template_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		next := row.Next.UTC()
		result[row.TemplateID] = recurringdomain.Upcoming{Next: &next, Remaining: row.Remaining}
	}
	return result, nil
}
