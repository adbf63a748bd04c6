package rates

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"shared-ledger-go/pkg/logger"
)

const maxConcurrentLoads = 4

type Service struct {
	repo      Repository
	log       logger.Logger
	futureTTL time.Duration
	now       func() time.Time

	mu    sync.RWMutex
	cache map[string]CacheEntry
}

func NewService(repo Repository, log logger.Logger, futureTTL time.Duration) *Service {
	if futureTTL <= 0 {
		futureTTL = DefaultFutureTTL
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:      repo,
		log:       log,
		futureTTL: futureTTL,
		now:       time.Now,
		cache:     make(map[string]CacheEntry),
	}
}

// MonthlyRates returns rates for each requested YYYY-MM month. Months missing
// from the cache are loaded concurrently; a month that was never stored is
// cached as empty. When loading fails the last cached copy is served, and a
// month with neither is left out of the result.
func (s *Service) MonthlyRates(ctx context.Context, months []string) (map[string]MonthlyRates, error) {
	for _, month := range months {
		if _, err := ParseMonth(month); err != nil {
			return nil, err
		}
	}

	now := s.now()
	result := make(map[string]MonthlyRates, len(months))
	var missing []string

	s.mu.RLock()
	for _, month := range months {
		if entry, ok := s.cache[month]; ok && entry.Valid(month, now, s.futureTTL) {
			result[month] = entry.Rates
			continue
		}
		missing = append(missing, month)
	}
	s.mu.RUnlock()

	if len(missing) == 0 {
		return result, nil
	}

	var resultMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for _, month := range dedupe(missing) {
		g.Go(func() error {
			monthly, err := s.load(gctx, month)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.log.Warn("rates.load: serving cached month", "month", month, "error", err)
				s.mu.RLock()
				entry, ok := s.cache[month]
				s.mu.RUnlock()
				if !ok {
					return nil
				}
				monthly = entry.Rates
			}

			resultMu.Lock()
			result[month] = monthly
			resultMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) load(ctx context.Context, month string) (MonthlyRates, error) {
	monthly, found, err := s.repo.GetMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	if !found || monthly == nil {
		monthly = MonthlyRates{}
	}

	s.mu.Lock()
	s.cache[month] = CacheEntry{Rates: monthly, FetchedAt: s.now()}
	s.mu.Unlock()
	return monthly, nil
}

// Convert converts amount on date, loading the date's month and the month
// before it for fallback rates.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string, date time.Time) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return amount, nil
	}

	byMonth, err := s.MonthlyRates(ctx, []string{MonthKey(date), MonthKey(MonthStart(date).AddDate(0, -1, 0))})
	if err != nil {
		return decimal.Zero, err
	}
	return Convert(amount, from, to, date, byMonth)
}

// ImportDays merges day rates into their months and drops the affected
// months from the cache. It returns the months written, sorted.
func (s *Service) ImportDays(ctx context.Context, days MonthlyRates) ([]string, error) {
	byMonth := make(map[string]MonthlyRates)
	for day, rates := range days {
		date, err := time.Parse(dayLayout, day)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, ErrInvalidDay)
		}

		normalized := make(DailyRates, len(rates))
		for currency, rate := range rates {
			if rate <= 0 {
				return nil, fmt.Errorf("%s %s: %w", day, currency, ErrInvalidRate)
			}
			normalized[strings.ToUpper(currency)] = rate
		}

		month := MonthKey(date)
		if byMonth[month] == nil {
			byMonth[month] = MonthlyRates{}
		}
		byMonth[month][day] = normalized
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	for _, month := range months {
		if err := s.repo.MergeDays(ctx, month, byMonth[month]); err != nil {
			return nil, fmt.Errorf("merge %s: %w", month, err)
		}
		s.mu.Lock()
		delete(s.cache, month)
		s.mu.Unlock()
	}
	return months, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
