package entries

import (
	"context"
	"errors"

	"gorm.io/gorm"
	entriesdomain "shared-ledger-go/internal/domain/entries"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(entriesdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, userIDs []string, filter entriesdomain.ListFilter) ([]entriesdomain.Entry, int64, error) {
	if len(userIDs) == 0 {
		return []entriesdomain.Entry{}, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&entriesdomain.Entry{}).Where("user_id IN ?", userIDs)
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("date desc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []entriesdomain.Entry
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, entryID string) (*entriesdomain.Entry, error) {
	var entry entriesdomain.Entry
	if err := r.db.WithContext(ctx).Where("id = ?", entryID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entriesdomain.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *entriesdomain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) Update(ctx context.Context, entry *entriesdomain.Entry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, entryID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&entriesdomain.Entry{}, "id = ?", entryID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
