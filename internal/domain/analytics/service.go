package analytics

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"shared-ledger-go/internal/catalog"
	"shared-ledger-go/internal/domain/entries"
	"shared-ledger-go/internal/domain/rates"
	"shared-ledger-go/internal/domain/user"
)

const maxSummaryMonths = 24

var defaultCategory = map[string]string{
	entries.TypeExpense: "Food & Dining",
	entries.TypeIncome:  "Salary",
}

type Service struct {
	repo          Repository
	entries       EntryLister
	rates         RateLoader
	categories    *catalog.Catalog
	rankingConfig RankingConfig
	rankingCache  rankingCache
	now           func() time.Time
}

func NewService(repo Repository, entryLister EntryLister, rateLoader RateLoader, categories *catalog.Catalog, cfg RankingConfig) *Service {
	return &Service{
		repo:          repo,
		entries:       entryLister,
		rates:         rateLoader,
		categories:    categories,
		rankingConfig: normalizeRankingConfig(cfg),
		rankingCache: rankingCache{
			items: make(map[string]rankingCacheItem),
		},
		now: time.Now,
	}
}

// Summary converts every entry of the caller's clique dated within the filter
// into filter.Currency and totals them by type and category.
func (s *Service) Summary(ctx context.Context, callerID string, filter SummaryFilter) (SummaryResult, error) {
	currency, err := user.NormalizeCurrency(filter.Currency)
	if err != nil {
		return SummaryResult{}, ErrInvalidCurrency
	}
	from := entries.Day(filter.From)
	to := entries.Day(filter.To)
	if to.Before(from) {
		return SummaryResult{}, ErrInvalidRange
	}
	months := monthsBetween(rates.MonthStart(from).AddDate(0, -1, 0), to)
	if len(months) > maxSummaryMonths+1 {
		return SummaryResult{}, ErrRangeTooLong
	}

	items, _, err := s.entries.List(ctx, callerID, entries.ListFilter{From: &from, To: &to})
	if err != nil {
		return SummaryResult{}, fmt.Errorf("list entries: %w", err)
	}

	byMonth, err := s.rates.MonthlyRates(ctx, months)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("load rates: %w", err)
	}

	result := SummaryResult{
		From:     from,
		To:       to,
		Currency: currency,
		Income:   decimal.Zero,
		Expense:  decimal.Zero,
	}
	totals := make(map[string]*CategoryTotal)
	for _, entry := range items {
		amount, err := rates.Convert(entry.OriginalAmount, entry.Currency, currency, entry.Date, byMonth)
		if err != nil {
			result.Unconverted++
			continue
		}
		result.Count++
		if entry.Type == entries.TypeIncome {
			result.Income = result.Income.Add(amount)
		} else {
			result.Expense = result.Expense.Add(amount)
		}

		key := entry.Type + "/" + entry.Category
		total, ok := totals[key]
		if !ok {
			total = &CategoryTotal{Category: entry.Category, Type: entry.Type, Total: decimal.Zero}
			totals[key] = total
		}
		total.Total = total.Total.Add(amount)
		total.Count++
	}

	result.Net = result.Income.Sub(result.Expense)
	if days := daysBetweenInclusive(from, to); days > 0 {
		result.AvgPerDay = result.Expense.Div(decimal.NewFromInt(int64(days))).Round(2)
	}

	result.ByCategory = make([]CategoryTotal, 0, len(totals))
	for _, total := range totals {
		result.ByCategory = append(result.ByCategory, *total)
	}
	sort.Slice(result.ByCategory, func(i, j int) bool {
		a, b := result.ByCategory[i], result.ByCategory[j]
		if a.Type != b.Type {
			return a.Type == entries.TypeExpense
		}
		if cmp := a.Total.Cmp(b.Total); cmp != 0 {
			return cmp > 0
		}
		return a.Category < b.Category
	})
	return result, nil
}

// RankedCategories orders the categories for entryType by how recently
// userID used them.
func (s *Service) RankedCategories(ctx context.Context, userID, entryType string) (Ranking, error) {
	if entryType != entries.TypeExpense && entryType != entries.TypeIncome {
		return Ranking{}, ErrInvalidType
	}

	now := s.now()
	cacheKey := rankingCacheKey(userID, entryType)
	if s.rankingConfig.CacheTTL > 0 {
		if ranking, ok := s.rankingCache.Get(cacheKey, now); ok {
			return ranking, nil
		}
	}

	from := entries.Day(now).AddDate(0, 0, -(s.rankingConfig.LookbackDays - 1))
	usage, err := s.repo.RecentCategories(ctx, userID, entryType, from, s.rankingConfig.DBReadLimit)
	if err != nil {
		return Ranking{}, err
	}

	ranking := s.buildRanking(entryType, usage)
	if s.rankingConfig.CacheTTL > 0 {
		s.rankingCache.Set(cacheKey, ranking, now.Add(s.rankingConfig.CacheTTL))
	}
	return ranking, nil
}

func (s *Service) buildRanking(entryType string, usage []Usage) Ranking {
	ranking := Ranking{Type: entryType, Recent: []string{}}
	seen := make(map[string]struct{})
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		ranking.Items = append(ranking.Items, name)
	}

	for _, item := range usage {
		if len(ranking.Recent) == s.rankingConfig.RecentCount {
			break
		}
		if s.categories.Allows(item.Category, entryType) {
			ranking.Recent = append(ranking.Recent, item.Category)
			add(item.Category)
		}
	}

	all := s.categories.ByType("")
	for _, affiliation := range []string{entryType, catalog.AffiliationBoth} {
		for _, category := range all {
			if category.Affiliation == affiliation {
				add(category.Name)
			}
		}
	}
	for _, category := range all {
		add(category.Name)
	}

	ranking.Default = defaultCategory[entryType]
	if len(ranking.Recent) > 0 {
		ranking.Default = ranking.Recent[0]
	}
	return ranking
}

func monthsBetween(from, to time.Time) []string {
	var months []string
	cursor := rates.MonthStart(from)
	last := rates.MonthStart(to)
	for !cursor.After(last) {
		months = append(months, rates.MonthKey(cursor))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months
}

func daysBetweenInclusive(from, to time.Time) int {
	from = entries.Day(from)
	to = entries.Day(to)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

const (
	defaultRankingLookbackDays = 90
	defaultRankingDBReadLimit  = 500
	defaultRankingRecentCount  = 5
	defaultRankingCacheTTL     = time.Minute
)

func normalizeRankingConfig(cfg RankingConfig) RankingConfig {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = defaultRankingLookbackDays
	}
	if cfg.DBReadLimit <= 0 {
		cfg.DBReadLimit = defaultRankingDBReadLimit
	}
	if cfg.RecentCount <= 0 {
		cfg.RecentCount = defaultRankingRecentCount
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = 0
	}
	return cfg
}

func rankingCacheKey(userID, entryType string) string {
	return userID + "/" + entryType
}

type rankingCache struct {
	mu    sync.RWMutex
	items map[string]rankingCacheItem
}

type rankingCacheItem struct {
	ranking   Ranking
	expiresAt time.Time
}

func (c *rankingCache) Get(key string, now time.Time) (Ranking, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return Ranking{}, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[key]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return Ranking{}, false
	}

	return cloneRanking(item.ranking), true
}

func (c *rankingCache) Set(key string, ranking Ranking, expiresAt time.Time) {
	c.mu.Lock()
	c.items[key] = rankingCacheItem{
		ranking:   cloneRanking(ranking),
		expiresAt: expiresAt,
	}
	c.mu.Unlock()
}

func cloneRanking(ranking Ranking) Ranking {
	cloned := ranking
	cloned.Recent = append([]string(nil), ranking.Recent...)
	cloned.Items = append([]string(nil), ranking.Items...)
	return cloned
}
