package analytics

import "errors"

var (
	ErrInvalidRange    = errors.New("from must not be after to")
	ErrRangeTooLong    = errors.New("range is longer than the allowed window")
	ErrInvalidType     = errors.New("type must be expense or income")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
)
