package recurring

import (
	"time"

	"shared-ledger-go/internal/domain/entries"
)

// Limit bounds how far a series may extend, in months after its start.
type Limit struct {
	MaxMonths     int
	DefaultMonths int
}

var Limits = map[string]Limit{
	FrequencyDaily:   {MaxMonths: 12, DefaultMonths: 3},
	FrequencyWeekly:  {MaxMonths: 12, DefaultMonths: 6},
	FrequencyMonthly: {MaxMonths: 60, DefaultMonths: 12},
	FrequencyYearly:  {MaxMonths: 60, DefaultMonths: 24},
}

// NormalizeRule validates rule for a series starting on start and fills the
// defaults: interval 1 and an end date DefaultMonths after start.
func NormalizeRule(start time.Time, rule Rule) (Rule, error) {
	limit, ok := Limits[rule.Frequency]
	if !ok {
		return Rule{}, ErrInvalidFrequency
	}
	if start.IsZero() {
		return Rule{}, ErrInvalidStartDate
	}
	start = entries.Day(start)

	normalized := Rule{
		Frequency:  rule.Frequency,
		Interval:   rule.Interval,
		DayOfMonth: rule.DayOfMonth,
	}
	if normalized.Interval < 0 {
		return Rule{}, ErrInvalidInterval
	}
	if normalized.Interval == 0 {
		normalized.Interval = 1
	}

	for _, day := range rule.DaysOfWeek {
		if day < 0 || day > 6 {
			return Rule{}, ErrInvalidDaysOfWeek
		}
	}
	if len(rule.DaysOfWeek) > 0 {
		normalized.DaysOfWeek = weekdays(rule.DaysOfWeek)
	}

	if normalized.DayOfMonth < 0 || normalized.DayOfMonth > 31 {
		return Rule{}, ErrInvalidDayOfMonth
	}

	if rule.EndDate.IsZero() {
		normalized.EndDate = addMonths(start, limit.DefaultMonths)
	} else {
		normalized.EndDate = entries.Day(rule.EndDate)
	}
	if normalized.EndDate.Before(start) {
		return Rule{}, ErrInvalidEndDate
	}
	if normalized.EndDate.After(addMonths(start, limit.MaxMonths)) {
		return Rule{}, ErrEndDateTooFar
	}

	return normalized, nil
}
