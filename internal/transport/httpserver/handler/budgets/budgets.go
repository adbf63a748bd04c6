package budgets

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	budgetsdomain "shared-ledger-go/internal/domain/budgets"
	ratesdomain "shared-ledger-go/internal/domain/rates"
	"shared-ledger-go/internal/transport/httpserver/middleware"
	"shared-ledger-go/pkg/logger"
)

type allocationRequest struct {
	Categories []string        `json:"categories"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

type allocationResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Categories []string        `json:"categories"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
}

type allocationListResponse struct {
	Items []allocationResponse `json:"items"`
}

type progressResponse struct {
	Allocation  allocationResponse `json:"allocation"`
	Spent       decimal.Decimal    `json:"spent"`
	Remaining   decimal.Decimal    `json:"remaining"`
	Unconverted int                `json:"unconverted"`
}

type progressListResponse struct {
	Month string             `json:"month"`
	Items []progressResponse `json:"items"`
}

func (h *Handlers) ListAllocations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}

	allocations, err := h.Budgets.List(r.Context(), user.ID)
	if err != nil {
		logger.FromContext(r.Context(), h.log).InternalError("budgets.list: list allocations failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]allocationResponse, 0, len(allocations))
	for _, allocation := range allocations {
		items = append(items, toAllocationResponse(allocation))
	}
	writeJSON(w, http.StatusOK, allocationListResponse{Items: items})
}

func (h *Handlers) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
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

	created, err := h.Budgets.Create(r.Context(), budgetsdomain.CreateInput{
		CallerID:   user.ID,
		Categories: req.Categories,
		Amount:     req.Amount,
		Currency:   req.Currency,
	})
	if err != nil {
		h.writeBudgetError(w, log, "budgets.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAllocationResponse(*created))
}

func (h *Handlers) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	allocationID := strings.TrimSpace(chi.URLParam(r, "id"))
	if allocationID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	updated, err := h.Budgets.Update(r.Context(), budgetsdomain.UpdateInput{
		CallerID:   user.ID,
		ID:         allocationID,
		Categories: req.Categories,
		Amount:     req.Amount,
		Currency:   req.Currency,
	})
	if err != nil {
		h.writeBudgetError(w, log, "budgets.update", err, "allocation_id", allocationID)
		return
	}

	writeJSON(w, http.StatusOK, toAllocationResponse(*updated))
}

func (h *Handlers) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	allocationID := strings.TrimSpace(chi.URLParam(r, "id"))
	if allocationID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	if err := h.Budgets.Delete(r.Context(), user.ID, allocationID); err != nil {
		h.writeBudgetError(w, log, "budgets.delete", err, "allocation_id", allocationID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Progress(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = ratesdomain.MonthKey(time.Now())
	}

	progress, err := h.Budgets.Progress(r.Context(), user.ID, month)
	if err != nil {
		h.writeBudgetError(w, log, "budgets.progress", err, "month", month)
		return
	}

	items := make([]progressResponse, 0, len(progress))
	for _, item := range progress {
		items = append(items, progressResponse{
			Allocation:  toAllocationResponse(item.Allocation),
			Spent:       item.Spent,
			Remaining:   item.Remaining,
			Unconverted: item.Unconverted,
		})
	}
	writeJSON(w, http.StatusOK, progressListResponse{Month: month, Items: items})
}

func (h *Handlers) writeBudgetError(w http.ResponseWriter, log logger.Logger, op string, err error, kv ...any) {
	switch {
	case errors.Is(err, budgetsdomain.ErrNoCategories),
		errors.Is(err, budgetsdomain.ErrInvalidCategory),
		errors.Is(err, budgetsdomain.ErrInvalidAmount),
		errors.Is(err, budgetsdomain.ErrInvalidCurrency),
		errors.Is(err, ratesdomain.ErrInvalidMonth):
		log.BusinessError(op+": invalid allocation", err, kv...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, budgetsdomain.ErrCategoryInUse):
		log.BusinessError(op+": category in use", err, kv...)
		writeError(w, http.StatusConflict, "category_in_use", err.Error())
	case errors.Is(err, budgetsdomain.ErrAllocationNotFound):
		log.BusinessError(op+": allocation not found", err, kv...)
		writeError(w, http.StatusNotFound, "allocation_not_found", "budget allocation not found")
	case errors.Is(err, budgetsdomain.ErrForbidden):
		log.BusinessError(op+": forbidden", err, kv...)
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		log.InternalError(op+": failed", err, kv...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toAllocationResponse(allocation budgetsdomain.Allocation) allocationResponse {
	categories := []string(allocation.Categories)
	if categories == nil {
		categories = []string{}
	}
	return allocationResponse{
		ID:         allocation.ID,
		UserID:     allocation.UserID,
		Categories: categories,
		Amount:     allocation.Amount,
		Currency:   allocation.Currency,
		CreatedAt:  allocation.CreatedAt,
		UpdatedAt:  allocation.UpdatedAt,
	}
}
