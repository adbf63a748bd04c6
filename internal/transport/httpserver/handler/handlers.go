package handler

import (
	analyticshandler "shared-ledger-go/internal/transport/httpserver/handler/analytics"
	budgetshandler "shared-ledger-go/internal/transport/httpserver/handler/budgets"
	commonhandler "shared-ledger-go/internal/transport/httpserver/handler/common"
	connectionshandler "shared-ledger-go/internal/transport/httpserver/handler/connections"
	entrieshandler "shared-ledger-go/internal/transport/httpserver/handler/entries"
	rateshandler "shared-ledger-go/internal/transport/httpserver/handler/rates"
	recurringhandler "shared-ledger-go/internal/transport/httpserver/handler/recurring"
)

type Handlers struct {
	Common      *commonhandler.Handlers
	Connections *connectionshandler.Handlers
	Entries     *entrieshandler.Handlers
	Recurring   *recurringhandler.Handlers
	Budgets     *budgetshandler.Handlers
	Rates       *rateshandler.Handlers
	Analytics   *analyticshandler.Handlers
}
