package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"shared-ledger-go/internal/catalog"
	"shared-ledger-go/internal/domain/entries"
	"shared-ledger-go/internal/domain/rates"
)

type fakeAnalyticsRepo struct {
	usage     []Usage
	calls     int
	lastFrom  time.Time
	lastLimit int
}

func (f *fakeAnalyticsRepo) RecentCategories(ctx context.Context, userID, entryType string, from time.Time, readLimit int) ([]Usage, error) {
	f.calls++
	f.lastFrom = from
	f.lastLimit = readLimit
	rows := make([]Usage, len(f.usage))
	copy(rows, f.usage)
	return rows, nil
}

type fakeEntries struct {
	items []entries.Entry
}

func (f *fakeEntries) List(ctx context.Context, callerID string, filter entries.ListFilter) ([]entries.Entry, int64, error) {
	var result []entries.Entry
	for _, item := range f.items {
		if filter.From != nil && item.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && item.Date.After(*filter.To) {
			continue
		}
		result = append(result, item)
	}
	return result, int64(len(result)), nil
}

type fakeRates struct {
	byMonth   map[string]rates.MonthlyRates
	requested []string
}

func (f *fakeRates) MonthlyRates(ctx context.Context, months []string) (map[string]rates.MonthlyRates, error) {
	f.requested = months
	result := make(map[string]rates.MonthlyRates)
	for _, month := range months {
		if monthly, ok := f.byMonth[month]; ok {
			result[month] = monthly
		}
	}
	return result, nil
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func entry(entryType, category, amount, currency, date string) entries.Entry {
	return entries.Entry{
		Type:           entryType,
		Category:       category,
		OriginalAmount: decimal.RequireFromString(amount),
		Currency:       currency,
		Date:           day(date),
	}
}

func newTestService(repo Repository, lister EntryLister, loader RateLoader) *Service {
	return NewService(repo, lister, loader, catalog.Default(), RankingConfig{CacheTTL: time.Minute})
}

func TestSummaryConvertsIntoCurrency(t *testing.T) {
	lister := &fakeEntries{items: []entries.Entry{
		entry(entries.TypeExpense, "Groceries", "92", "EUR", "2025-03-02"),
		entry(entries.TypeExpense, "Rent", "1000", "USD", "2025-03-01"),
		entry(entries.TypeIncome, "Salary", "3000", "USD", "2025-03-05"),
		entry(entries.TypeExpense, "Groceries", "10", "XYZ", "2025-03-03"),
	}}
	loader := &fakeRates{byMonth: map[string]rates.MonthlyRates{
		"2025-03": {"2025-03-01": {"EUR": 0.92}},
	}}
	svc := newTestService(&fakeAnalyticsRepo{}, lister, loader)

	result, err := svc.Summary(context.Background(), "alice", SummaryFilter{
		From:     day("2025-03-01"),
		To:       day("2025-03-10"),
		Currency: "usd",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Currency != "USD" {
		t.Fatalf("expected USD, got %s", result.Currency)
	}
	if !result.Expense.Equal(decimal.NewFromInt(1100)) {
		t.Fatalf("expected expense 1100, got %s", result.Expense)
	}
	if !result.Net.Equal(decimal.NewFromInt(1900)) {
		t.Fatalf("expected net 1900, got %s", result.Net)
	}
	if !result.AvgPerDay.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("expected avg 110, got %s", result.AvgPerDay)
	}
	if result.Unconverted != 1 || result.Count != 3 {
		t.Fatalf("expected 3 converted and 1 skipped, got %d and %d", result.Count, result.Unconverted)
	}
	if len(result.ByCategory) != 3 || result.ByCategory[0].Category != "Rent" || result.ByCategory[2].Type != entries.TypeIncome {
		t.Fatalf("unexpected category order: %+v", result.ByCategory)
	}
	if len(loader.requested) != 2 || loader.requested[0] != "2025-02" {
		t.Fatalf("expected the previous month to be loaded, got %v", loader.requested)
	}
}

func TestSummaryValidation(t *testing.T) {
	svc := newTestService(&fakeAnalyticsRepo{}, &fakeEntries{}, &fakeRates{})

	_, err := svc.Summary(context.Background(), "alice", SummaryFilter{From: day("2025-03-10"), To: day("2025-03-01"), Currency: "USD"})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	_, err = svc.Summary(context.Background(), "alice", SummaryFilter{From: day("2020-01-01"), To: day("2025-01-01"), Currency: "USD"})
	if !errors.Is(err, ErrRangeTooLong) {
		t.Fatalf("expected ErrRangeTooLong, got %v", err)
	}

	_, err = svc.Summary(context.Background(), "alice", SummaryFilter{From: day("2025-03-01"), To: day("2025-03-01"), Currency: "dollars"})
	if !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestRankedCategoriesOrder(t *testing.T) {
	repo := &fakeAnalyticsRepo{usage: []Usage{
		{Category: "Gift", Count: 1},
		{Category: "Salary", Count: 4},
		{Category: "Rent", Count: 9},
	}}
	svc := newTestService(repo, &fakeEntries{}, &fakeRates{})
	svc.now = func() time.Time { return time.Date(2025, 3, 31, 15, 0, 0, 0, time.UTC) }

	ranking, err := svc.RankedCategories(context.Background(), "alice", entries.TypeIncome)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ranking.Recent) != 2 || ranking.Recent[0] != "Gift" || ranking.Recent[1] != "Salary" {
		t.Fatalf("expected Gift and Salary as recent, got %v", ranking.Recent)
	}
	if ranking.Default != "Gift" {
		t.Fatalf("expected Gift as default, got %s", ranking.Default)
	}
	if ranking.Items[2] != "Business" {
		t.Fatalf("expected Business after recent categories, got %v", ranking.Items[:3])
	}
	if len(ranking.Items) != len(catalog.Default().ByType("")) {
		t.Fatalf("expected every category once, got %d", len(ranking.Items))
	}
	if !repo.lastFrom.Equal(day("2025-01-01")) {
		t.Fatalf("expected a 90 day lookback, got %s", repo.lastFrom)
	}
}

func TestRankedCategoriesDefaultWithoutHistory(t *testing.T) {
	svc := newTestService(&fakeAnalyticsRepo{}, &fakeEntries{}, &fakeRates{})

	ranking, err := svc.RankedCategories(context.Background(), "alice", entries.TypeExpense)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ranking.Default != "Food & Dining" {
		t.Fatalf("expected Food & Dining, got %s", ranking.Default)
	}
	if len(ranking.Recent) != 0 {
		t.Fatalf("expected no recent categories, got %v", ranking.Recent)
	}

	if _, err := svc.RankedCategories(context.Background(), "alice", "transfer"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestRankedCategoriesUsesCacheWithinTTL(t *testing.T) {
	repo := &fakeAnalyticsRepo{usage: []Usage{{Category: "Rent", Count: 1}}}
	svc := newTestService(repo, &fakeEntries{}, &fakeRates{})
	currentTime := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return currentTime }

	first, err := svc.RankedCategories(context.Background(), "alice", entries.TypeExpense)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected 1 repo call, got %d", repo.calls)
	}

	repo.usage = []Usage{{Category: "Pets", Count: 3}}
	second, err := svc.RankedCategories(context.Background(), "alice", entries.TypeExpense)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected cache hit without extra repo call, got %d", repo.calls)
	}
	if second.Recent[0] != first.Recent[0] {
		t.Fatalf("expected cached ranking, got %v", second.Recent)
	}

	currentTime = currentTime.Add(2 * time.Minute)
	third, err := svc.RankedCategories(context.Background(), "alice", entries.TypeExpense)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected cache miss after TTL expiration, got %d repo calls", repo.calls)
	}
	if third.Recent[0] != "Pets" {
		t.Fatalf("expected fresh ranking after cache expiration, got %v", third.Recent)
	}
}

func TestSummaryMonthEndLoadsPreviousMonth(t *testing.T) {
	lister := &fakeEntries{items: []entries.Entry{
		entry(entries.TypeExpense, "Groceries", "90", "EUR", "2025-03-31"),
	}}
	loader := &fakeRates{byMonth: map[string]rates.MonthlyRates{
		"2025-02": {"2025-02-28": {"EUR": 0.9}},
	}}
	svc := newTestService(&fakeAnalyticsRepo{}, lister, loader)

	result, err := svc.Summary(context.Background(), "alice", SummaryFilter{
		From:     day("2025-03-31"),
		To:       day("2025-04-02"),
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{"2025-02", "2025-03", "2025-04"}
	if len(loader.requested) != len(want) {
		t.Fatalf("expected months %v, got %v", want, loader.requested)
	}
	for i := range want {
		if loader.requested[i] != want[i] {
			t.Fatalf("expected months %v, got %v", want, loader.requested)
		}
	}
	if !result.Expense.Equal(decimal.NewFromInt(100)) || result.Unconverted != 0 {
		t.Fatalf("expected 100 converted with February rates, got %s (%d skipped)", result.Expense, result.Unconverted)
	}
}

func TestSummaryRangeLimitAtMonthEnd(t *testing.T) {
	svc := newTestService(&fakeAnalyticsRepo{}, &fakeEntries{}, &fakeRates{})

	_, err := svc.Summary(context.Background(), "alice", SummaryFilter{From: day("2023-03-31"), To: day("2025-03-01"), Currency: "USD"})
	if !errors.Is(err, ErrRangeTooLong) {
		t.Fatalf("expected ErrRangeTooLong, got %v", err)
	}

	_, err = svc.Summary(context.Background(), "alice", SummaryFilter{From: day("2023-04-30"), To: day("2025-03-31"), Currency: "USD"})
	if err != nil {
		t.Fatalf("expected 24 months to be accepted, got %v", err)
	}
}
