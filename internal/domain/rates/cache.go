package rates

import "time"

const DefaultFutureTTL = time.Hour

// CacheEntry is one month of rates as loaded at FetchedAt.
type CacheEntry struct {
	Rates     MonthlyRates
	FetchedAt time.Time
}

// Valid reports whether the entry for month may still be served at now.
// Past months never change. The current month is refreshed after the UTC
// midnight following the fetch, when a new day of rates lands. Future months
// live for futureTTL.
func (e CacheEntry) Valid(month string, now time.Time, futureTTL time.Duration) bool {
	if e.FetchedAt.IsZero() {
		return false
	}

	current := MonthKey(now)
	switch {
	case month < current:
		return true
	case month == current:
		fetched := e.FetchedAt.UTC()
		nextMidnight := time.Date(fetched.Year(), fetched.Month(), fetched.Day()+1, 0, 0, 0, 0, time.UTC)
		return now.Before(nextMidnight)
	default:
		return now.Sub(e.FetchedAt) < futureTTL
	}
}
