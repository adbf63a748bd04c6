package analytics

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	analyticsdomain "shared-ledger-go/internal/domain/analytics"
	userdomain "shared-ledger-go/internal/domain/user"
	"shared-ledger-go/internal/transport/httpserver/middleware"
	"shared-ledger-go/pkg/logger"
)

type categoryTotalResponse struct {
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

type summaryResponse struct {
	From        string                  `json:"from"`
	To          string                  `json:"to"`
	Currency    string                  `json:"currency"`
	Income      decimal.Decimal         `json:"income"`
	Expense     decimal.Decimal         `json:"expense"`
	Net         decimal.Decimal         `json:"net"`
	AvgPerDay   decimal.Decimal         `json:"avgPerDay"`
	Count       int64                   `json:"count"`
	Unconverted int                     `json:"unconverted"`
	ByCategory  []categoryTotalResponse `json:"byCategory"`
}

type rankingResponse struct {
	Type    string   `json:"type"`
	Recent  []string `json:"recent"`
	Items   []string `json:"items"`
	Default string   `json:"default"`
}

func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	query := r.URL.Query()
	from, err := parseDateRequired(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from is required")
		return
	}
	to, err := parseDateRequired(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "to is required")
		return
	}

	currency := strings.TrimSpace(query.Get("currency"))
	if currency == "" {
		currency = userdomain.DefaultDisplayCurrency
		profile, err := h.Users.GetProfile(r.Context(), user.ID)
		switch {
		case err == nil:
			currency = profile.DisplayCurrency
		case !errors.Is(err, userdomain.ErrUserNotFound):
			log.InternalError("analytics.summary: get profile failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
	}

	result, err := h.Analytics.Summary(r.Context(), user.ID, analyticsdomain.SummaryFilter{
		From:     from,
		To:       to,
		Currency: currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, analyticsdomain.ErrInvalidRange),
			errors.Is(err, analyticsdomain.ErrRangeTooLong),
			errors.Is(err, analyticsdomain.ErrInvalidCurrency):
			log.BusinessError("analytics.summary: invalid filter", err)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			log.InternalError("analytics.summary: build summary failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	byCategory := make([]categoryTotalResponse, 0, len(result.ByCategory))
	for _, row := range result.ByCategory {
		byCategory = append(byCategory, categoryTotalResponse{
			Category: row.Category,
			Type:     row.Type,
			Total:    row.Total,
			Count:    row.Count,
		})
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		From:        formatDate(result.From),
		To:          formatDate(result.To),
		Currency:    result.Currency,
		Income:      result.Income,
		Expense:     result.Expense,
		Net:         result.Net,
		AvgPerDay:   result.AvgPerDay,
		Count:       result.Count,
		Unconverted: result.Unconverted,
		ByCategory:  byCategory,
	})
}

func (h *Handlers) RankedCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}

	entryType := strings.TrimSpace(r.URL.Query().Get("type"))
	ranking, err := h.Analytics.RankedCategories(r.Context(), user.ID, entryType)
	if err != nil {
		if errors.Is(err, analyticsdomain.ErrInvalidType) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		logger.FromContext(r.Context(), h.log).InternalError("analytics.ranked_categories: rank failed", err, "type", entryType)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, rankingResponse{
		Type:    ranking.Type,
		Recent:  ranking.Recent,
		Items:   ranking.Items,
		Default: ranking.Default,
	})
}
