package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

type SummaryFilter struct {
	From     time.Time
	To       time.Time
	Currency string
}

type CategoryTotal struct {
	Category string
	Type     string
	Total    decimal.Decimal
	Count    int64
}

// SummaryResult totals the clique's entries of a period in one currency.
// Unconverted counts entries left out because no rate covered them.
type SummaryResult struct {
	From        time.Time
	To          time.Time
	Currency    string
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Net         decimal.Decimal
	AvgPerDay   decimal.Decimal
	Count       int64
	Unconverted int
	ByCategory  []CategoryTotal
}

// Usage is how often a user recently picked a category.
type Usage struct {
	Category string
	Count    int64
	LastUsed time.Time
}

type RankingConfig struct {
	LookbackDays int
	DBReadLimit  int
	RecentCount  int
	CacheTTL     time.Duration
}

// Ranking orders every category usable for Type: recently used first, then
// the type's own categories, then shared ones, then the rest.
type Ranking struct {
	Type    string
	Recent  []string
	Items   []string
	Default string
}
