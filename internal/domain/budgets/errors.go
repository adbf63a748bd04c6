package budgets

import "errors"

var (
	ErrAllocationNotFound = errors.New("budget allocation not found")
	ErrForbidden          = errors.New("budget allocation belongs to another ledger")
	ErrNoCategories       = errors.New("at least one category is required")
	ErrInvalidCategory    = errors.New("category is not an expense category")
	ErrCategoryInUse      = errors.New("category already belongs to another allocation")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidCurrency    = errors.New("currency must be a 3-letter code")
)
