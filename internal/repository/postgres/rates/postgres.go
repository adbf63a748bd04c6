package rates

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	ratesdomain "shared-ledger-go/internal/domain/rates"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetMonth(ctx context.Context, month string) (ratesdomain.MonthlyRates, bool, error) {
	var record ratesdomain.MonthRecord
	if err := r.db.WithContext(ctx).Where("month = ?", month).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return record.Rates.Data(), true, nil
}

// MergeDays relies on jsonb concatenation so days written by other imports
// survive and days present in both are replaced.
func (r *PostgresRepository) MergeDays(ctx context.Context, month string, days ratesdomain.MonthlyRates) error {
	record := ratesdomain.MonthRecord{
		Month:     month,
		Rates:     datatypes.NewJSONType(days),
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "month"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"rates":      gorm.Expr("exchange_rates.rates || EXCLUDED.rates"),
				"updated_at": gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(&record).Error
}
