package rates

import "errors"

var (
	ErrNoRates             = errors.New("no exchange rates available")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidMonth        = errors.New("month must be formatted as YYYY-MM")
	ErrInvalidDay          = errors.New("day must be formatted as YYYY-MM-DD")
	ErrInvalidRate         = errors.New("rate must be a positive number")
)
