package recurring

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"shared-ledger-go/internal/domain/entries"
)

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Rule describes how a template repeats. DaysOfWeek uses 0 for Sunday.
// DayOfMonth 0 means "the day the series starts on".
type Rule struct {
	Frequency  string    `json:"frequency"`
	Interval   int       `json:"interval"`
	EndDate    time.Time `json:"endDate"`
	DaysOfWeek []int     `json:"daysOfWeek,omitempty"`
	DayOfMonth int       `json:"dayOfMonth,omitempty"`
}

type Template struct {
	ID             string                   `gorm:"primaryKey"`
	UserID         string                   `gorm:"index;not null"`
	Type           string                   `gorm:"size:16;not null"`
	OriginalAmount decimal.Decimal          `gorm:"type:numeric(14,2);not null"`
	Currency       string                   `gorm:"size:3;not null"`
	Category       string                   `gorm:"not null"`
	Description    *string                  `gorm:"type:text"`
	Frequency      string                   `gorm:"size:16;not null"`
	Interval       int                      `gorm:"column:repeat_interval;not null"`
	EndDate        time.Time                `gorm:"type:date;not null"`
	DaysOfWeek     datatypes.JSONSlice[int] `gorm:"type:jsonb"`
	DayOfMonth     *int
	StartDate      time.Time `gorm:"type:date;not null"`
	CreatedBy      string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Template) TableName() string {
	return "recurring_templates"
}

func (t Template) Rule() Rule {
	rule := Rule{
		Frequency:  t.Frequency,
		Interval:   t.Interval,
		EndDate:    t.EndDate,
		DaysOfWeek: []int(t.DaysOfWeek),
	}
	if t.DayOfMonth != nil {
		rule.DayOfMonth = *t.DayOfMonth
	}
	return rule
}

// Upcoming counts the generated entries of a template dated after a given day.
type Upcoming struct {
	Next      *time.Time
	Remaining int64
}

type Summary struct {
	Template
	Upcoming
	Label string
}

type CreateInput struct {
	CallerID string
	OwnerID  string
	Start    time.Time
	Rule     Rule
	Draft    entries.Draft
}
