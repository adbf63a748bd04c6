package connections

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	domain "shared-ledger-go/internal/domain/connections"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type connectionRow struct {
	ID               string                      `gorm:"column:id;primaryKey"`
	ConnectedUserIDs datatypes.JSONSlice[string] `gorm:"column:connected_user_ids;type:jsonb"`
	UpdatedAt        time.Time                   `gorm:"column:updated_at"`
}

func (connectionRow) TableName() string {
	return "users"
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetInvitation(ctx context.Context, invitationID string) (*domain.Invitation, error) {
	return r.getInvitation(r.db.WithContext(ctx), invitationID)
}

func (r *PostgresRepository) GetInvitationForUpdate(ctx context.Context, invitationID string) (*domain.Invitation, error) {
	return r.getInvitation(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), invitationID)
}

func (r *PostgresRepository) getInvitation(db *gorm.DB, invitationID string) (*domain.Invitation, error) {
	var invitation domain.Invitation
	if err := db.Where("id = ?", invitationID).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *PostgresRepository) CreateInvitation(ctx context.Context, invitation *domain.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *PostgresRepository) DeleteInvitation(ctx context.Context, invitationID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Invitation{}, "id = ?", invitationID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListInvitationsByEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	if err := r.db.WithContext(ctx).
		Where("invited_email = ?", email).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *PostgresRepository) ListInvitationsByInviter(ctx context.Context, userID string) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	if err := r.db.WithContext(ctx).
		Where("invited_by = ?", userID).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// LockConnections takes row locks in id order so concurrent merges touching
// overlapping cliques queue instead of interleaving.
func (r *PostgresRepository) LockConnections(ctx context.Context, userIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []connectionRow
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "connected_user_ids").
		Where("id IN ?", userIDs).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ID] = append([]string{}, row.ConnectedUserIDs...)
	}
	return result, nil
}

func (r *PostgresRepository) GetConnections(ctx context.Context, userID string) ([]string, error) {
	var row connectionRow
	if err := r.db.WithContext(ctx).
		Select("id", "connected_user_ids").
		Where("id = ?", userID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return []string(row.ConnectedUserIDs), nil
}

func (r *PostgresRepository) SaveConnections(ctx context.Context, userID string, connectedUserIDs []string) error {
	if connectedUserIDs == nil {
		connectedUserIDs = []string{}
	}
	row := connectionRow{
		ID:               userID,
		ConnectedUserIDs: datatypes.JSONSlice[string](connectedUserIDs),
		UpdatedAt:        time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"connected_user_ids", "updated_at"}),
		}).
		Create(&row).Error
}
