package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	domain "shared-ledger-go/internal/domain/user"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// UpsertProfile inserts the profile or refreshes the email of an existing row.
// Display name and connections are owned by the user once the row exists.
func (r *PostgresRepository) UpsertProfile(ctx context.Context, profile *domain.User) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if profile.Email != nil {
		updates["email"] = profile.Email
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(profile).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, userIDs []string) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).
		Where("id IN ?", userIDs).
		Order("id asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) UpdateSettings(ctx context.Context, userID string, displayName *string, displayCurrency *string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if displayName != nil {
		updates["display_name"] = *displayName
	}
	if displayCurrency != nil {
		updates["display_currency"] = *displayCurrency
	}

	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
