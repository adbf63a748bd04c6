package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"
	analyticsdomain "shared-ledger-go/internal/domain/analytics"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) RecentCategories(ctx context.Context, userID, entryType string, from time.Time, readLimit int) ([]analyticsdomain.Usage, error) {
	if readLimit <= 0 {
		readLimit = 500
	}

	query := "WITH recent_entries AS (" +
		"SELECT e.category, e.created_at FROM entries e WHERE e.user_id = ? AND e.type = ? AND e.date >= ? " +
		"ORDER BY e.date DESC, e.created_at DESC LIMIT ?" +
		") SELECT re.category AS category, COUNT(*) AS count, MAX(re.created_at) AS last_used " +
		"FROM recent_entries re " +
		"GROUP BY re.category " +
		"ORDER BY last_used DESC, count DESC, re.category ASC"

	var rows []analyticsdomain.Usage
	if err := r.db.WithContext(ctx).Raw(query, userID, entryType, from, readLimit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
