package recurring

import (
	"fmt"
	"strings"
)

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Describe renders a template's rule for people, e.g.
// "Every 2 weeks on monday and wednesday until 3/31/2025".
func Describe(t Template) string {
	rule := t.Rule()
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	var every string
	switch rule.Frequency {
	case FrequencyDaily:
		every = plural(interval, "day")
	case FrequencyWeekly:
		every = plural(interval, "week")
		names := make([]string, 0, len(rule.DaysOfWeek))
		for _, day := range weekdays(rule.DaysOfWeek) {
			names = append(names, weekdayNames[day])
		}
		if len(names) > 0 {
			every += " on " + joinWithAnd(names)
		}
	case FrequencyMonthly:
		every = plural(interval, "month")
		if rule.DayOfMonth > 0 {
			every += " on the " + ordinal(rule.DayOfMonth)
		}
	case FrequencyYearly:
		every = plural(interval, "year")
		if !t.StartDate.IsZero() {
			every += fmt.Sprintf(" on the %s of %s", ordinal(t.StartDate.Day()), strings.ToLower(t.StartDate.Month().String()))
		}
	}

	parts := make([]string, 0, 2)
	if every != "" {
		parts = append(parts, every)
	}
	if !rule.EndDate.IsZero() {
		end := rule.EndDate.UTC()
		parts = append(parts, fmt.Sprintf("until %d/%d/%d", int(end.Month()), end.Day(), end.Year()))
	}

	result := strings.Join(parts, " ")
	if result == "" {
		return ""
	}
	return strings.ToUpper(result[:1]) + result[1:]
}

func plural(interval int, unit string) string {
	if interval == 1 {
		return "every " + unit
	}
	return fmt.Sprintf("every %d %ss", interval, unit)
}

func ordinal(n int) string {
	if v := n % 100; v >= 11 && v <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}

func joinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
