package rates

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	ratesdomain "shared-ledger-go/internal/domain/rates"
	"shared-ledger-go/pkg/logger"
)

const maxMonthsPerRequest = 24

type monthlyRatesResponse struct {
	Months map[string]ratesdomain.MonthlyRates `json:"months"`
}

type convertResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Date      string          `json:"date"`
	Converted decimal.Decimal `json:"converted"`
}

func (h *Handlers) MonthlyRates(w http.ResponseWriter, r *http.Request) {
	months := parseCSV(r.URL.Query().Get("months"))
	if len(months) == 0 {
		months = []string{ratesdomain.MonthKey(time.Now())}
	}
	if len(months) > maxMonthsPerRequest {
		writeError(w, http.StatusBadRequest, "invalid_request", "too many months")
		return
	}

	byMonth, err := h.Rates.MonthlyRates(r.Context(), months)
	if err != nil {
		if errors.Is(err, ratesdomain.ErrInvalidMonth) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		logger.FromContext(r.Context(), h.log).InternalError("rates.monthly: load rates failed", err, "months", months)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, monthlyRatesResponse{Months: byMonth})
}

func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	amount, err := decimal.NewFromString(strings.TrimSpace(query.Get("amount")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid amount")
		return
	}
	from := strings.ToUpper(strings.TrimSpace(query.Get("from")))
	to := strings.ToUpper(strings.TrimSpace(query.Get("to")))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "from and to are required")
		return
	}
	date, err := parseDateRequired(query.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	converted, err := h.Rates.Convert(r.Context(), amount, from, to, date)
	if err != nil {
		switch {
		case errors.Is(err, ratesdomain.ErrUnsupportedCurrency):
			writeError(w, http.StatusBadRequest, "unsupported_currency", err.Error())
		case errors.Is(err, ratesdomain.ErrNoRates):
			writeError(w, http.StatusNotFound, "rates_not_found", err.Error())
		default:
			logger.FromContext(r.Context(), h.log).InternalError("rates.convert: convert failed", err, "from", from, "to", to)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Date:      ratesdomain.DateKey(date),
		Converted: converted,
	})
}
