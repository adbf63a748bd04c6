package rates

import (
	"net/http"
	"time"

	commonhandler "shared-ledger-go/internal/transport/httpserver/handler/common"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func parseDateRequired(value string) (time.Time, error) {
	return commonhandler.ParseDateRequired(value)
}

func parseCSV(value string) []string {
	return commonhandler.ParseCSV(value)
}
