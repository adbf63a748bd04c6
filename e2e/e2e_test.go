//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	"shared-ledger-go/internal/app"
	"shared-ledger-go/internal/config"
	"shared-ledger-go/internal/db"
	"shared-ledger-go/migrations"
	"shared-ledger-go/pkg/logger"
)

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	authServer := newAuthServer(t)
	log := logger.Discard()

	cfg := config.Config{
		HTTP: config.HTTPConfig{RequestTimeout: 10 * time.Second},
		DB:   config.DBConfig{DSN: dsn},
		Ledger: config.LedgerConfig{
			InvitationTTL:      time.Hour,
			RecurringBatchSize: 2,
		},
		Supabase: config.SupabaseConfig{
			URL:            authServer.URL,
			PublishableKey: "test-key",
			AuthTimeout:    2 * time.Second,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if _, err := db.Migrate(dbConn, migrations.Files, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	server := httptest.NewServer(app.NewRouter(cfg, dbConn, log))

	return &testEnv{server: server, authServer: authServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func (e *testEnv) url(path string) string {
	return e.server.URL + "/api" + path
}

// newAuthServer treats the bearer token as the user id and reports
// <token>@example.com as a confirmed email.
func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		payload := map[string]interface{}{
			"id":                 token,
			"email":              token + "@example.com",
			"email_confirmed_at": "2025-01-01T00:00:00Z",
			"user_metadata": map[string]interface{}{
				"name": "User " + token,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE entries, recurring_templates, budget_allocations, exchange_rates, connection_invitations, users CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func expectStatus(t *testing.T, resp *http.Response, body []byte, status int) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected %d, got %d: %s", status, resp.StatusCode, string(body))
	}
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type invitationResponse struct {
	ID           string `json:"id"`
	InvitedEmail string `json:"invitedEmail"`
	InvitedBy    string `json:"invitedBy"`
}

type connectedListResponse struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

type entryListResponse struct {
	Items []struct {
		ID     string `json:"id"`
		UserID string `json:"userId"`
		Date   string `json:"date"`
	} `json:"items"`
	Total int64 `json:"total"`
}

func invite(t *testing.T, env *testEnv, client *http.Client, from, to string) invitationResponse {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodPost, env.url("/connections/invitations"), from, map[string]string{
		"email": to + "@example.com",
	})
	expectStatus(t, resp, body, http.StatusCreated)

	var invitation invitationResponse
	if err := json.Unmarshal(body, &invitation); err != nil {
		t.Fatalf("decode invitation: %v", err)
	}
	return invitation
}

func connectedIDs(t *testing.T, env *testEnv, client *http.Client, user string) []string {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodGet, env.url("/connections"), user, nil)
	expectStatus(t, resp, body, http.StatusOK)

	var list connectedListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode connections: %v", err)
	}
	ids := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestE2EHealthIsPublic(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, body := requestJSON(t, client, http.MethodGet, env.url("/health"), "", nil)
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = requestJSON(t, client, http.MethodGet, env.url("/entries"), "", nil)
	expectStatus(t, resp, body, http.StatusUnauthorized)
}

func TestE2EAcceptMergesCliqueAndLeaveDetaches(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	alice, bob, carol := "alice", "bob", "carol"

	for _, user := range []string{alice, bob, carol} {
		resp, body := requestJSON(t, client, http.MethodGet, env.url("/auth/me"), user, nil)
		expectStatus(t, resp, body, http.StatusOK)
	}

	first := invite(t, env, client, alice, bob)

	resp, body := requestJSON(t, client, http.MethodPost, env.url("/acceptConnectionInvitation"), carol, map[string]string{
		"invitationId": first.ID,
		"userId":       carol,
	})
	expectStatus(t, resp, body, http.StatusForbidden)
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if envelope.Error.Code != "permission-denied" {
		t.Fatalf("expected permission-denied, got %q", envelope.Error.Code)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.url("/acceptConnectionInvitation"), bob, map[string]string{
		"invitationId": first.ID,
		"userId":       bob,
	})
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = requestJSON(t, client, http.MethodPost, env.url("/acceptConnectionInvitation"), bob, map[string]string{
		"invitationId": first.ID,
		"userId":       bob,
	})
	expectStatus(t, resp, body, http.StatusNotFound)

	second := invite(t, env, client, bob, carol)
	resp, body = requestJSON(t, client, http.MethodPost, env.url("/acceptConnectionInvitation"), carol, map[string]string{
		"invitationId": second.ID,
		"userId":       carol,
	})
	expectStatus(t, resp, body, http.StatusOK)

	if got := connectedIDs(t, env, client, alice); len(got) != 2 {
		t.Fatalf("expected alice connected to 2 users, got %v", got)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.url("/leaveConnections"), bob, map[string]string{
		"userId": bob,
	})
	expectStatus(t, resp, body, http.StatusOK)

	if got := connectedIDs(t, env, client, bob); len(got) != 0 {
		t.Fatalf("expected bob detached, got %v", got)
	}
	got := connectedIDs(t, env, client, alice)
	if len(got) != 1 || got[0] != carol {
		t.Fatalf("expected alice connected to carol only, got %v", got)
	}
}

func TestE2ERecurringSeriesSharedWithConnections(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	alice, bob := "alice", "bob"

	for _, user := range []string{alice, bob} {
		resp, body := requestJSON(t, client, http.MethodGet, env.url("/auth/me"), user, nil)
		expectStatus(t, resp, body, http.StatusOK)
	}
	invitation := invite(t, env, client, alice, bob)
	resp, body := requestJSON(t, client, http.MethodPost, env.url("/acceptConnectionInvitation"), bob, map[string]string{
		"invitationId": invitation.ID,
		"userId":       bob,
	})
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = requestJSON(t, client, http.MethodPost, env.url("/recurring"), alice, map[string]interface{}{
		"type":      "expense",
		"amount":    "1200",
		"currency":  "usd",
		"category":  "Rent",
		"startDate": "2025-01-31",
		"frequency": "monthly",
		"endDate":   "2025-04-30",
	})
	expectStatus(t, resp, body, http.StatusCreated)

	var created struct {
		Template struct {
			ID string `json:"id"`
		} `json:"template"`
		EntriesCreated int64 `json:"entriesCreated"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if created.EntriesCreated != 4 {
		t.Fatalf("expected 4 entries, got %d", created.EntriesCreated)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.url("/entries?from=2025-01-01&to=2025-12-31"), bob, nil)
	expectStatus(t, resp, body, http.StatusOK)
	var list entryListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if list.Total != 4 {
		t.Fatalf("expected bob to see 4 entries, got %d", list.Total)
	}
	wantDates := []string{"2025-04-30", "2025-03-31", "2025-02-28", "2025-01-31"}
	for i, item := range list.Items {
		if item.Date != wantDates[i] {
			t.Fatalf("entry %d: expected %s, got %s", i, wantDates[i], item.Date)
		}
		if item.UserID != alice {
			t.Fatalf("entry %d: expected owner alice, got %s", i, item.UserID)
		}
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.url("/recurring/"+created.Template.ID), bob, nil)
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = requestJSON(t, client, http.MethodGet, env.url("/entries"), alice, nil)
	expectStatus(t, resp, body, http.StatusOK)
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if list.Total != 0 {
		t.Fatalf("expected no entries after delete, got %d", list.Total)
	}
}

func TestE2EBudgetCategoriesAreExclusive(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	alice := "alice"

	resp, body := requestJSON(t, client, http.MethodPost, env.url("/budgets"), alice, map[string]interface{}{
		"categories": []string{"Groceries", "Food & Dining"},
		"amount":     "500",
		"currency":   "USD",
	})
	expectStatus(t, resp, body, http.StatusCreated)

	resp, body = requestJSON(t, client, http.MethodPost, env.url("/budgets"), alice, map[string]interface{}{
		"categories": []string{"Food & Dining"},
		"amount":     "100",
		"currency":   "USD",
	})
	expectStatus(t, resp, body, http.StatusConflict)
}
