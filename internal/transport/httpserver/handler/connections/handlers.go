package connections

import (
	connectionsdomain "shared-ledger-go/internal/domain/connections"
	userdomain "shared-ledger-go/internal/domain/user"
	"shared-ledger-go/pkg/logger"
)

type Handlers struct {
	Connections *connectionsdomain.Service
	Users       *userdomain.Service
	log         logger.Logger
}

func New(connections *connectionsdomain.Service, users *userdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Connections: connections,
		Users:       users,
		log:         log,
	}
}
