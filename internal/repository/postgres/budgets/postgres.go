package budgets

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	budgetsdomain "shared-ledger-go/internal/domain/budgets"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(budgetsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) LockMembers(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	var locked []string
	return r.db.WithContext(ctx).
		Table("users").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", userIDs).
		Order("id asc").
		Pluck("id", &locked).Error
}

func (r *PostgresRepository) List(ctx context.Context, userIDs []string) ([]budgetsdomain.Allocation, error) {
	var allocations []budgetsdomain.Allocation
	if len(userIDs) == 0 {
		return allocations, nil
	}
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at asc").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

func (r *PostgresRepository) Get(ctx context.Context, allocationID string) (*budgetsdomain.Allocation, error) {
	var allocation budgetsdomain.Allocation
	if err := r.db.WithContext(ctx).Where("id = ?", allocationID).First(&allocation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, budgetsdomain.ErrAllocationNotFound
		}
		return nil, err
	}
	return &allocation, nil
}

func (r *PostgresRepository) Create(ctx context.Context, allocation *budgetsdomain.Allocation) error {
	return r.db.WithContext(ctx).Create(allocation).Error
}

func (r *PostgresRepository) Update(ctx context.Context, allocation *budgetsdomain.Allocation) error {
	return r.db.WithContext(ctx).Save(allocation).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, allocationID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&budgetsdomain.Allocation{}, "id = ?", allocationID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
