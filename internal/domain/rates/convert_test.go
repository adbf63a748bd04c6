package rates

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestConvert(t *testing.T) {
	byMonth := map[string]MonthlyRates{
		"2025-02": {
			"2025-02-10": {"USD": 1, "EUR": 0.9, "JPY": 150},
			"2025-02-20": {"USD": 1, "EUR": 0.8, "JPY": 140},
		},
		"2025-03": {},
		"2025-01": {
			"2025-01-31": {"USD": 1, "EUR": 0.95},
		},
	}
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name string
		from string
		to   string
		date time.Time
		want string
	}{
		{name: "exact day", from: "USD", to: "EUR", date: date(2025, 2, 10), want: "90"},
		{name: "nearest earlier day", from: "USD", to: "EUR", date: date(2025, 2, 25), want: "80"},
		{name: "earlier preferred over later", from: "USD", to: "EUR", date: date(2025, 2, 15), want: "90"},
		{name: "later day when nothing earlier", from: "USD", to: "EUR", date: date(2025, 2, 1), want: "90"},
		{name: "cross currency through usd", from: "EUR", to: "JPY", date: date(2025, 2, 10), want: "16666.67"},
		{name: "empty month falls back to most recent month", from: "USD", to: "EUR", date: date(2025, 3, 5), want: "80"},
		{name: "missing month falls back", from: "EUR", to: "USD", date: date(2025, 4, 1), want: "125"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(hundred, tt.from, tt.to, tt.date, byMonth)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestConvertSameCurrencySkipsRates(t *testing.T) {
	got, err := Convert(decimal.RequireFromString("12.345"), "EUR", "EUR", date(2025, 1, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, "12.345", got.String())
}

func TestConvertErrors(t *testing.T) {
	_, err := Convert(decimal.NewFromInt(1), "USD", "EUR", date(2025, 1, 1), map[string]MonthlyRates{"2025-01": {}})
	assert.ErrorIs(t, err, ErrNoRates)

	byMonth := map[string]MonthlyRates{"2025-01": {"2025-01-01": {"EUR": 0.9}}}
	_, err = Convert(decimal.NewFromInt(1), "EUR", "XYZ", date(2025, 1, 1), byMonth)
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	got, err := Convert(decimal.NewFromInt(9), "EUR", "USD", date(2025, 1, 1), byMonth)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(got))
}
