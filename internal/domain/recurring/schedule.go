package recurring

import (
	"sort"
	"time"

	"shared-ledger-go/internal/domain/entries"
)

// OccurrenceDates expands rule from start into UTC-midnight dates up to and
// including rule.EndDate. Nothing before floor is generated.
func OccurrenceDates(start time.Time, rule Rule, floor time.Time) []time.Time {
	effective := entries.Day(start)
	if floor = entries.Day(floor); floor.After(effective) {
		effective = floor
	}
	end := entries.Day(rule.EndDate)
	if effective.After(end) {
		return nil
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}
	days := weekdays(rule.DaysOfWeek)

	switch rule.Frequency {
	case FrequencyDaily:
		return stepDays(effective, end, interval, days)
	case FrequencyWeekly:
		if len(days) > 0 {
			return weeklyOnDays(effective, end, interval, days)
		}
		return stepDays(effective, end, 7*interval, nil)
	case FrequencyMonthly:
		anchor := rule.DayOfMonth
		if anchor < 1 {
			anchor = effective.Day()
		}
		return stepMonths(effective, end, interval, anchor)
	case FrequencyYearly:
		return stepMonths(effective, end, 12*interval, effective.Day())
	default:
		return nil
	}
}

// EntryID is the deterministic id of the entry a template generates on date.
func EntryID(templateID string, date time.Time) string {
	return "rt_" + templateID + "_" + date.UTC().Format("20060102")
}

func stepDays(from, end time.Time, step int, days []int) []time.Time {
	var dates []time.Time
	for cursor := from; !cursor.After(end); cursor = cursor.AddDate(0, 0, step) {
		if len(days) > 0 && !containsDay(days, int(cursor.Weekday())) {
			continue
		}
		dates = append(dates, cursor)
	}
	return dates
}

// weeklyOnDays walks Sunday-aligned windows of interval weeks, emitting every
// selected weekday of each window.
func weeklyOnDays(from, end time.Time, interval int, days []int) []time.Time {
	var dates []time.Time
	weekStart := from.AddDate(0, 0, -int(from.Weekday()))
	for !weekStart.After(end) {
		for _, day := range days {
			occurrence := weekStart.AddDate(0, 0, day)
			if occurrence.Before(from) {
				continue
			}
			if occurrence.After(end) {
				break
			}
			dates = append(dates, occurrence)
		}
		weekStart = weekStart.AddDate(0, 0, 7*interval)
	}
	return dates
}

// stepMonths emits anchorDay of every step-th month starting with from's
// month. Months shorter than anchorDay yield their last day. Each date is
// computed from the first month so a clamped February does not pull later
// months back.
func stepMonths(from, end time.Time, step, anchorDay int) []time.Time {
	var dates []time.Time
	year, month := from.Year(), from.Month()
	for k := 0; ; k++ {
		occurrence := clampedDate(year, month+time.Month(k*step), anchorDay)
		if occurrence.After(end) {
			return dates
		}
		if occurrence.Before(from) {
			continue
		}
		dates = append(dates, occurrence)
	}
}

func clampedDate(year int, month time.Month, day int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// addMonths moves t by months, clamping the day to the end of the target month.
func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	return clampedDate(first.Year(), first.Month(), t.Day())
}

func weekdays(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	result := make([]int, 0, len(values))
	for _, value := range values {
		if value < 0 || value > 6 {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	sort.Ints(result)
	return result
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
