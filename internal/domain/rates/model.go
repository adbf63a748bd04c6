package rates

import (
	"time"

	"gorm.io/datatypes"
)

const (
	BaseCurrency = "USD"
	monthLayout  = "2006-01"
	dayLayout    = "2006-01-02"
)

// DailyRates maps a currency code to units per one USD.
type DailyRates map[string]float64

// MonthlyRates maps YYYY-MM-DD to that day's rates.
type MonthlyRates map[string]DailyRates

type MonthRecord struct {
	Month     string                           `gorm:"primaryKey;size:7"`
	Rates     datatypes.JSONType[MonthlyRates] `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time                        `gorm:"autoUpdateTime"`
}

func (MonthRecord) TableName() string {
	return "exchange_rates"
}

func MonthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// MonthStart returns the first day of t's month at UTC midnight.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func DateKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// ParseMonth checks a YYYY-MM key and returns the first day of that month.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}
