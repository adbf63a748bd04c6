package rates

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Convert changes amount from one currency into another using the rates of
// date. When that day is missing it uses the nearest earlier day of the same
// month, then the nearest later one, then the nearest day of the other
// months, most recent month first. The result is rounded to cents.
func Convert(amount decimal.Decimal, from, to string, date time.Time, byMonth map[string]MonthlyRates) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	rates := ratesFor(date, byMonth)
	if rates == nil {
		return decimal.Zero, ErrNoRates
	}

	fromRate, ok := rateOf(rates, from)
	if !ok {
		return decimal.Zero, ErrUnsupportedCurrency
	}
	toRate, ok := rateOf(rates, to)
	if !ok {
		return decimal.Zero, ErrUnsupportedCurrency
	}

	inBase := amount.Div(fromRate)
	return inBase.Mul(toRate).Round(2), nil
}

func ratesFor(date time.Time, byMonth map[string]MonthlyRates) DailyRates {
	target := DateKey(date)
	if rates := nearest(byMonth[MonthKey(date)], target); rates != nil {
		return rates
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	for _, month := range months {
		if rates := nearest(byMonth[month], target); rates != nil {
			return rates
		}
	}
	return nil
}

func nearest(monthly MonthlyRates, target string) DailyRates {
	if len(monthly) == 0 {
		return nil
	}
	if rates, ok := monthly[target]; ok {
		return rates
	}

	days := make([]string, 0, len(monthly))
	for day := range monthly {
		days = append(days, day)
	}
	sort.Strings(days)

	var past, future string
	for _, day := range days {
		if day < target {
			past = day
		} else if day > target && future == "" {
			future = day
		}
	}
	if past != "" {
		return monthly[past]
	}
	if future != "" {
		return monthly[future]
	}
	return nil
}

func rateOf(rates DailyRates, currency string) (decimal.Decimal, bool) {
	rate, ok := rates[currency]
	if !ok && currency == BaseCurrency {
		return decimal.NewFromInt(1), true
	}
	if !ok || rate <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(rate), true
}
