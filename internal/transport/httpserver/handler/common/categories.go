package common

import (
	"net/http"
	"strings"

	"shared-ledger-go/internal/catalog"
)

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	entryType := strings.TrimSpace(r.URL.Query().Get("type"))
	switch entryType {
	case "", catalog.AffiliationExpense, catalog.AffiliationIncome:
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "type must be expense or income")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": h.Categories.ByType(entryType),
	})
}
