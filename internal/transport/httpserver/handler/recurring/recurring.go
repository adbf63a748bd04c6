package recurring

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	entriesdomain "shared-ledger-go/internal/domain/entries"
	recurringdomain "shared-ledger-go/internal/domain/recurring"
	"shared-ledger-go/internal/transport/httpserver/middleware"
	"shared-ledger-go/pkg/logger"
)

type createTemplateRequest struct {
	UserID      string          `json:"userId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	StartDate   string          `json:"startDate"`
	Frequency   string          `json:"frequency"`
	Interval    int             `json:"interval"`
	EndDate     string          `json:"endDate"`
	DaysOfWeek  []int           `json:"daysOfWeek"`
	DayOfMonth  int             `json:"dayOfMonth"`
}

type templateResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Type           string          `json:"type"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	Currency       string          `json:"currency"`
	Category       string          `json:"category"`
	Description    *string         `json:"description,omitempty"`
	Frequency      string          `json:"frequency"`
	Interval       int             `json:"interval"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	DaysOfWeek     []int           `json:"daysOfWeek,omitempty"`
	DayOfMonth     *int            `json:"dayOfMonth,omitempty"`
	CreatedBy      string          `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type createTemplateResponse struct {
	Template       templateResponse `json:"template"`
	EntriesCreated int64            `json:"entriesCreated"`
}

type summaryResponse struct {
	templateResponse
	Label          string  `json:"label"`
	NextOccurrence *string `json:"nextOccurrence,omitempty"`
	Remaining      int64   `json:"remaining"`
}

type summaryListResponse struct {
	Items []summaryResponse `json:"items"`
}

type deletedResponse struct {
	EntriesDeleted int64 `json:"entriesDeleted"`
}

func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}

	summaries, err := h.Recurring.List(r.Context(), user.ID)
	if err != nil {
		logger.FromContext(r.Context(), h.log).InternalError("recurring.list: list templates failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]summaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, summaryResponse{
			templateResponse: toTemplateResponse(summary.Template),
			Label:            summary.Label,
			NextOccurrence:   formatDatePtr(summary.Next),
			Remaining:        summary.Remaining,
		})
	}
	writeJSON(w, http.StatusOK, summaryListResponse{Items: items})
}

func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	start, err := parseDateRequired(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start date")
		return
	}
	endDate, err := parseDateParam(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid end date")
		return
	}

	rule := recurringdomain.Rule{
		Frequency:  strings.TrimSpace(req.Frequency),
		Interval:   req.Interval,
		DaysOfWeek: req.DaysOfWeek,
		DayOfMonth: req.DayOfMonth,
	}
	if endDate != nil {
		rule.EndDate = *endDate
	}

	template, inserted, err := h.Recurring.Create(r.Context(), recurringdomain.CreateInput{
		CallerID: user.ID,
		OwnerID:  strings.TrimSpace(req.UserID),
		Start:    start,
		Rule:     rule,
		Draft: entriesdomain.Draft{
			Type:        req.Type,
			Amount:      req.Amount,
			Currency:    req.Currency,
			Category:    req.Category,
			Description: req.Description,
		},
	})
	if err != nil {
		h.writeRecurringError(w, log, "recurring.create", err)
		return
	}

	log.Info("recurring.create: series created", "template_id", template.ID, "entries", inserted)
	writeJSON(w, http.StatusCreated, createTemplateResponse{
		Template:       toTemplateResponse(*template),
		EntriesCreated: inserted,
	})
}

func (h *Handlers) StopTemplate(w http.ResponseWriter, r *http.Request) {
	h.removeEntries(w, r, "recurring.stop", h.Recurring.Stop)
}

func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	h.removeEntries(w, r, "recurring.delete", h.Recurring.DeleteSeries)
}

func (h *Handlers) removeEntries(w http.ResponseWriter, r *http.Request, op string, remove func(ctx context.Context, callerID, templateID string) (int64, error)) {
	templateID := strings.TrimSpace(chi.URLParam(r, "id"))
	if templateID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	deleted, err := remove(r.Context(), user.ID, templateID)
	if err != nil {
		h.writeRecurringError(w, log, op, err, "template_id", templateID)
		return
	}

	writeJSON(w, http.StatusOK, deletedResponse{EntriesDeleted: deleted})
}

func (h *Handlers) writeRecurringError(w http.ResponseWriter, log logger.Logger, op string, err error, kv ...any) {
	switch {
	case errors.Is(err, recurringdomain.ErrInvalidFrequency),
		errors.Is(err, recurringdomain.ErrInvalidInterval),
		errors.Is(err, recurringdomain.ErrInvalidDaysOfWeek),
		errors.Is(err, recurringdomain.ErrInvalidDayOfMonth),
		errors.Is(err, recurringdomain.ErrInvalidStartDate),
		errors.Is(err, recurringdomain.ErrInvalidEndDate),
		errors.Is(err, recurringdomain.ErrEndDateTooFar),
		errors.Is(err, recurringdomain.ErrNoOccurrences),
		errors.Is(err, entriesdomain.ErrInvalidType),
		errors.Is(err, entriesdomain.ErrInvalidAmount),
		errors.Is(err, entriesdomain.ErrInvalidCurrency),
		errors.Is(err, entriesdomain.ErrInvalidCategory):
		log.BusinessError(op+": invalid template", err, kv...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, recurringdomain.ErrTemplateNotFound):
		log.BusinessError(op+": template not found", err, kv...)
		writeError(w, http.StatusNotFound, "template_not_found", "recurring template not found")
	case errors.Is(err, recurringdomain.ErrForbidden), errors.Is(err, entriesdomain.ErrForbidden):
		log.BusinessError(op+": forbidden", err, kv...)
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		log.InternalError(op+": failed", err, kv...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toTemplateResponse(template recurringdomain.Template) templateResponse {
	return templateResponse{
		ID:             template.ID,
		UserID:         template.UserID,
		Type:           template.Type,
		OriginalAmount: template.OriginalAmount,
		Currency:       template.Currency,
		Category:       template.Category,
		Description:    template.Description,
		Frequency:      template.Frequency,
		Interval:       template.Interval,
		StartDate:      formatDate(template.StartDate),
		EndDate:        formatDate(template.EndDate),
		DaysOfWeek:     []int(template.DaysOfWeek),
		DayOfMonth:     template.DayOfMonth,
		CreatedBy:      template.CreatedBy,
		CreatedAt:      template.CreatedAt,
	}
}
