package entries

import (
	entriesdomain "shared-ledger-go/internal/domain/entries"
	"shared-ledger-go/pkg/logger"
)

type Handlers struct {
	Entries *entriesdomain.Service
	log     logger.Logger
}

func New(entries *entriesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Entries: entries,
		log:     log,
	}
}
