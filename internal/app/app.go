package app

import (
	"context"
	"net/http"

	"gorm.io/gorm"
	"shared-ledger-go/internal/catalog"
	"shared-ledger-go/internal/config"
	"shared-ledger-go/internal/db"
	analyticsdomain "shared-ledger-go/internal/domain/analytics"
	budgetsdomain "shared-ledger-go/internal/domain/budgets"
	connectionsdomain "shared-ledger-go/internal/domain/connections"
	entriesdomain "shared-ledger-go/internal/domain/entries"
	ratesdomain "shared-ledger-go/internal/domain/rates"
	recurringdomain "shared-ledger-go/internal/domain/recurring"
	userdomain "shared-ledger-go/internal/domain/user"
	"shared-ledger-go/internal/repository/inmemory"
	analyticsrepo "shared-ledger-go/internal/repository/postgres/analytics"
	budgetsrepo "shared-ledger-go/internal/repository/postgres/budgets"
	connectionsrepo "shared-ledger-go/internal/repository/postgres/connections"
	entriesrepo "shared-ledger-go/internal/repository/postgres/entries"
	ratesrepo "shared-ledger-go/internal/repository/postgres/rates"
	recurringrepo "shared-ledger-go/internal/repository/postgres/recurring"
	userrepo "shared-ledger-go/internal/repository/postgres/user"
	"shared-ledger-go/internal/transport/httpserver"
	"shared-ledger-go/internal/transport/httpserver/handler"
	analyticshandler "shared-ledger-go/internal/transport/httpserver/handler/analytics"
	budgetshandler "shared-ledger-go/internal/transport/httpserver/handler/budgets"
	commonhandler "shared-ledger-go/internal/transport/httpserver/handler/common"
	connectionshandler "shared-ledger-go/internal/transport/httpserver/handler/connections"
	entrieshandler "shared-ledger-go/internal/transport/httpserver/handler/entries"
	rateshandler "shared-ledger-go/internal/transport/httpserver/handler/rates"
	recurringhandler "shared-ledger-go/internal/transport/httpserver/handler/recurring"
	"shared-ledger-go/migrations"
	"shared-ledger-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	rates      *ratesdomain.Service
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing router")
	router, rates := build(cfg, dbConn, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
		rates:      rates,
	}, nil
}

// NewRouter wires repositories, services and handlers over dbConn.
func NewRouter(cfg config.Config, dbConn *gorm.DB, log logger.Logger) http.Handler {
	router, _ := build(cfg, dbConn, log)
	return router
}

func build(cfg config.Config, dbConn *gorm.DB, log logger.Logger) (http.Handler, *ratesdomain.Service) {
	categories := catalog.Default()
	membersCache := inmemory.NewMembersCache()

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	connections := connectionsdomain.NewService(connectionsrepo.NewPostgres(dbConn), membersCache, connectionsdomain.Config{
		InvitationTTL:   cfg.Ledger.InvitationTTL,
		MembersCacheTTL: cfg.Ledger.MembersCacheTTL,
	})
	rates := ratesdomain.NewService(ratesrepo.NewPostgres(dbConn), log, cfg.Ledger.RatesFutureTTL)
	entries := entriesdomain.NewService(entriesrepo.NewPostgres(dbConn), connections, categories)
	recurring := recurringdomain.NewService(recurringrepo.NewPostgres(dbConn), connections, categories, recurringdomain.Config{
		ServiceStartDate: cfg.Ledger.ServiceStartDate,
		BatchSize:        cfg.Ledger.RecurringBatchSize,
	})
	budgets := budgetsdomain.NewService(budgetsrepo.NewPostgres(dbConn), connections, entries, rates, categories)
	analytics := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn), entries, rates, categories, analyticsdomain.RankingConfig{
		LookbackDays: cfg.Ledger.RankingLookback,
		CacheTTL:     cfg.Ledger.RankingCacheTTL,
	})

	handlers := &handler.Handlers{
		Common:      commonhandler.New(users, categories, log),
		Connections: connectionshandler.New(connections, users, log),
		Entries:     entrieshandler.New(entries, log),
		Recurring:   recurringhandler.New(recurring, log),
		Budgets:     budgetshandler.New(budgets, log),
		Rates:       rateshandler.New(rates, log),
		Analytics:   analyticshandler.New(analytics, users, log),
	}
	return httpserver.NewRouter(cfg, handlers, users, log), rates
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// Migrate applies pending schema migrations and returns how many ran.
func (a *App) Migrate(ctx context.Context) (int, error) {
	return db.Migrate(a.db.WithContext(ctx), migrations.Files, a.log)
}

// ImportRates merges day rates into storage and returns the months written.
func (a *App) ImportRates(ctx context.Context, days ratesdomain.MonthlyRates) ([]string, error) {
	return a.rates.ImportDays(ctx, days)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
