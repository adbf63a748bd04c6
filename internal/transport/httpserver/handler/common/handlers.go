package common

import (
	"shared-ledger-go/internal/catalog"
	userdomain "shared-ledger-go/internal/domain/user"
	"shared-ledger-go/pkg/logger"
)

type Handlers struct {
	Users      *userdomain.Service
	Categories *catalog.Catalog
	log        logger.Logger
}

func New(users *userdomain.Service, categories *catalog.Catalog, log logger.Logger) *Handlers {
	return &Handlers{
		Users:      users,
		Categories: categories,
		log:        log,
	}
}
