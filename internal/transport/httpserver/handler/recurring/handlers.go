package recurring

import (
	recurringdomain "shared-ledger-go/internal/domain/recurring"
	"shared-ledger-go/pkg/logger"
)

type Handlers struct {
	Recurring *recurringdomain.Service
	log       logger.Logger
}

func New(recurring *recurringdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Recurring: recurring,
		log:       log,
	}
}
