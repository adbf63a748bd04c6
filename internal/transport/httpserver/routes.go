package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"shared-ledger-go/internal/config"
	"shared-ledger-go/internal/transport/httpserver/handler"
	authmw "shared-ledger-go/internal/transport/httpserver/middleware"
	"shared-ledger-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(authmw.RequestIDHeader)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.HTTP.RequestTimeout))
	r.Use(authmw.NewCORS(cfg.HTTP.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)
			r.Patch("/users/me", handlers.Common.UpdateMe)
			r.Get("/categories", handlers.Common.ListCategories)
			r.Get("/categories/ranked", handlers.Analytics.RankedCategories)

			r.Post("/acceptConnectionInvitation", handlers.Connections.AcceptInvitation)
			r.Post("/leaveConnections", handlers.Connections.LeaveConnections)

			r.Get("/connections", handlers.Connections.ListConnected)
			r.Post("/connections/invitations", handlers.Connections.CreateInvitation)
			r.Get("/connections/invitations", handlers.Connections.ListReceivedInvitations)
			r.Get("/connections/invitations/sent", handlers.Connections.ListSentInvitations)
			r.Post("/connections/invitations/{id}/reject", handlers.Connections.RejectInvitation)
			r.Delete("/connections/invitations/{id}", handlers.Connections.CancelInvitation)

			r.Get("/entries", handlers.Entries.ListEntries)
			r.Post("/entries", handlers.Entries.CreateEntry)
			r.Put("/entries/{id}", handlers.Entries.UpdateEntry)
			r.Delete("/entries/{id}", handlers.Entries.DeleteEntry)

			r.Get("/recurring", handlers.Recurring.ListTemplates)
			r.Post("/recurring", handlers.Recurring.CreateTemplate)
			r.Post("/recurring/{id}/stop", handlers.Recurring.StopTemplate)
			r.Delete("/recurring/{id}", handlers.Recurring.DeleteTemplate)

			r.Get("/budgets", handlers.Budgets.ListAllocations)
			r.Post("/budgets", handlers.Budgets.CreateAllocation)
			r.Get("/budgets/progress", handlers.Budgets.Progress)
			r.Put("/budgets/{id}", handlers.Budgets.UpdateAllocation)
			r.Delete("/budgets/{id}", handlers.Budgets.DeleteAllocation)

			r.Get("/rates", handlers.Rates.MonthlyRates)
			r.Get("/rates/convert", handlers.Rates.Convert)

			r.Get("/analytics/summary", handlers.Analytics.Summary)
		})
	})

	return r
}
