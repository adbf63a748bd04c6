package recurring

import "errors"

var (
	ErrTemplateNotFound  = errors.New("recurring template not found")
	ErrForbidden         = errors.New("recurring template belongs to another ledger")
	ErrInvalidFrequency  = errors.New("frequency must be daily, weekly, monthly or yearly")
	ErrInvalidInterval   = errors.New("interval must be positive")
	ErrInvalidDaysOfWeek = errors.New("days of week must be between 0 and 6")
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")
	ErrInvalidStartDate  = errors.New("start date is required")
	ErrInvalidEndDate    = errors.New("end date is before start date")
	ErrEndDateTooFar     = errors.New("end date is beyond the allowed horizon")
	ErrNoOccurrences     = errors.New("rule produces no occurrences")
)
