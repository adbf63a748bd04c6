package analytics

import (
	analyticsdomain "shared-ledger-go/internal/domain/analytics"
	userdomain "shared-ledger-go/internal/domain/user"
	"shared-ledger-go/pkg/logger"
)

type Handlers struct {
	Analytics *analyticsdomain.Service
	Users     *userdomain.Service
	log       logger.Logger
}

func New(analytics *analyticsdomain.Service, users *userdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Analytics: analytics,
		Users:     users,
		log:       log,
	}
}
