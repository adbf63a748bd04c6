package entries

import "errors"

var (
	ErrEntryNotFound   = errors.New("entry not found")
	ErrForbidden       = errors.New("entry belongs to another ledger")
	ErrInvalidType     = errors.New("entry type must be expense or income")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
	ErrInvalidCategory = errors.New("category is not allowed for this entry type")
	ErrInvalidDate     = errors.New("date is required")
)
