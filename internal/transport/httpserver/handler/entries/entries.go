package entries

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	entriesdomain "shared-ledger-go/internal/domain/entries"
	"shared-ledger-go/internal/transport/httpserver/middleware"
	"shared-ledger-go/pkg/logger"
)

type entryRequest struct {
	UserID      string          `json:"userId"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

type entryResponse struct {
	ID                  string          `json:"id"`
	Type                string          `json:"type"`
	UserID              string          `json:"userId"`
	OriginalAmount      decimal.Decimal `json:"originalAmount"`
	Currency            string          `json:"currency"`
	Category            string          `json:"category"`
	Description         *string         `json:"description,omitempty"`
	Date                string          `json:"date"`
	RecurringTemplateID *string         `json:"recurringTemplateId,omitempty"`
	IsRecurringInstance bool            `json:"isRecurringInstance"`
	IsModified          bool            `json:"isModified"`
	CreatedBy           string          `json:"createdBy"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           *time.Time      `json:"updatedAt,omitempty"`
	UpdatedBy           *string         `json:"updatedBy,omitempty"`
}

type entryListResponse struct {
	Items []entryResponse `json:"items"`
	Total int64           `json:"total"`
}

func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 100)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	filter := entriesdomain.ListFilter{
		From:       from,
		To:         to,
		Type:       strings.TrimSpace(query.Get("type")),
		Categories: parseCSV(query.Get("categories")),
		Limit:      limit,
		Offset:     offset,
	}

	items, total, err := h.Entries.List(r.Context(), user.ID, filter)
	if err != nil {
		if errors.Is(err, entriesdomain.ErrInvalidType) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		log.InternalError("entries.list: list entries failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]entryResponse, 0, len(items))
	for _, entry := range items {
		response = append(response, toEntryResponse(entry))
	}
	writeJSON(w, http.StatusOK, entryListResponse{Items: response, Total: total})
}

func (h *Handlers) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
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

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	created, err := h.Entries.Create(r.Context(), entriesdomain.CreateInput{
		CallerID: user.ID,
		OwnerID:  strings.TrimSpace(req.UserID),
		Date:     date,
		Draft:    req.draft(),
	})
	if err != nil {
		h.writeEntryError(w, log, "entries.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(*created))
}

func (h *Handlers) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	entryID := strings.TrimSpace(chi.URLParam(r, "id"))
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	updated, err := h.Entries.Update(r.Context(), entriesdomain.UpdateInput{
		CallerID: user.ID,
		ID:       entryID,
		Date:     date,
		Draft:    req.draft(),
	})
	if err != nil {
		h.writeEntryError(w, log, "entries.update", err, "entry_id", entryID)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(*updated))
}

func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := strings.TrimSpace(chi.URLParam(r, "id"))
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	if err := h.Entries.Delete(r.Context(), user.ID, entryID); err != nil {
		h.writeEntryError(w, log, "entries.delete", err, "entry_id", entryID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeEntryError(w http.ResponseWriter, log logger.Logger, op string, err error, kv ...any) {
	switch {
	case errors.Is(err, entriesdomain.ErrInvalidType),
		errors.Is(err, entriesdomain.ErrInvalidAmount),
		errors.Is(err, entriesdomain.ErrInvalidCurrency),
		errors.Is(err, entriesdomain.ErrInvalidCategory),
		errors.Is(err, entriesdomain.ErrInvalidDate):
		log.BusinessError(op+": invalid entry", err, kv...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, entriesdomain.ErrEntryNotFound):
		log.BusinessError(op+": entry not found", err, kv...)
		writeError(w, http.StatusNotFound, "entry_not_found", "entry not found")
	case errors.Is(err, entriesdomain.ErrForbidden):
		log.BusinessError(op+": forbidden", err, kv...)
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		log.InternalError(op+": failed", err, kv...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (req entryRequest) draft() entriesdomain.Draft {
	return entriesdomain.Draft{
		Type:        req.Type,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
	}
}

func toEntryResponse(entry entriesdomain.Entry) entryResponse {
	return entryResponse{
		ID:                  entry.ID,
		Type:                entry.Type,
		UserID:              entry.UserID,
		OriginalAmount:      entry.OriginalAmount,
		Currency:            entry.Currency,
		Category:            entry.Category,
		Description:         entry.Description,
		Date:                formatDate(entry.Date),
		RecurringTemplateID: entry.RecurringTemplateID,
		IsRecurringInstance: entry.IsRecurringInstance,
		IsModified:          entry.IsModified,
		CreatedBy:           entry.CreatedBy,
		CreatedAt:           entry.CreatedAt,
		UpdatedAt:           entry.UpdatedAt,
		UpdatedBy:           entry.UpdatedBy,
	}
}
