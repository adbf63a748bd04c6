package budgets

import (
	budgetsdomain "shared-ledger-go/internal/domain/budgets"
	"shared-ledger-go/pkg/logger"
)

type Handlers struct {
	Budgets *budgetsdomain.Service
	log     logger.Logger
}

func New(budgets *budgetsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Budgets: budgets,
		log:     log,
	}
}
