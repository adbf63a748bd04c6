package rates

import (
	ratesdomain "shared-ledger-go/internal/domain/rates"
	"shared-ledger-go/pkg/logger"
)

type Handlers struct {
	Rates *ratesdomain.Service
	log   logger.Logger
}

func New(rates *ratesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Rates: rates,
		log:   log,
	}
}
