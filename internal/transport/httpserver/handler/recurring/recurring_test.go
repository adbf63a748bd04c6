package recurring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shared-ledger-go/internal/catalog"
	entriesdomain "shared-ledger-go/internal/domain/entries"
	recurringdomain "shared-ledger-go/internal/domain/recurring"
	"shared-ledger-go/internal/transport/httpserver/middleware"
	"shared-ledger-go/pkg/logger"
)

type fakeRecurringRepo struct {
	templates map[string]recurringdomain.Template
	entries   map[string]entriesdomain.Entry
}

func newFakeRecurringRepo() *fakeRecurringRepo {
	return &fakeRecurringRepo{
		templates: make(map[string]recurringdomain.Template),
		entries:   make(map[string]entriesdomain.Entry),
	}
}

func (r *fakeRecurringRepo) Transaction(ctx context.Context, fn func(recurringdomain.Repository) error) error {
	return fn(r)
}

func (r *fakeRecurringRepo) CreateTemplate(ctx context.Context, template *recurringdomain.Template) error {
	r.templates[template.ID] = *template
	return nil
}

func (r *fakeRecurringRepo) GetTemplate(ctx context.Context, templateID string) (*recurringdomain.Template, error) {
	template, ok := r.templates[templateID]
	if !ok {
		return nil, recurringdomain.ErrTemplateNotFound
	}
	return &template, nil
}

func (r *fakeRecurringRepo) ListTemplates(ctx context.Context, userIDs []string) ([]recurringdomain.Template, error) {
	var result []recurringdomain.Template
	for _, template := range r.templates {
		if slices.Contains(userIDs, template.UserID) {
			result = append(result, template)
		}
	}
	return result, nil
}

func (r *fakeRecurringRepo) DeleteTemplate(ctx context.Context, templateID string) (bool, error) {
	if _, ok := r.templates[templateID]; !ok {
		return false, nil
	}
	delete(r.templates, templateID)
	return true, nil
}

func (r *fakeRecurringRepo) InsertEntries(ctx context.Context, items []entriesdomain.Entry, batchSize int) (int64, error) {
	var inserted int64
	for _, item := range items {
		if _, ok := r.entries[item.ID]; ok {
			continue
		}
		r.entries[item.ID] = item
		inserted++
	}
	return inserted, nil
}

func (r *fakeRecurringRepo) DeleteEntries(ctx context.Context, templateID string, from *time.Time) (int64, error) {
	var deleted int64
	for id, item := range r.entries {
		if item.RecurringTemplateID == nil || *item.RecurringTemplateID != templateID {
			continue
		}
		if from != nil && item.Date.Before(*from) {
			continue
		}
		delete(r.entries, id)
		deleted++
	}
	return deleted, nil
}

func (r *fakeRecurringRepo) UpcomingByTemplate(ctx context.Context, templateIDs []string, after time.Time) (map[string]recurringdomain.Upcoming, error) {
	return map[string]recurringdomain.Upcoming{}, nil
}

type soloMembers struct{}

func (soloMembers) Members(ctx context.Context, userID string) ([]string, error) {
	return []string{userID}, nil
}

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestHandlers(repo *fakeRecurringRepo) *Handlers {
	service := recurringdomain.NewService(repo, soloMembers{}, catalog.Default(), recurringdomain.Config{
		ServiceStartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BatchSize:        2,
	})
	return New(service, logger.Discard())
}

func newRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.WithUser(req.Context(), middleware.User{ID: userID}))
}

func withID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestCreateListDeleteTemplate(t *testing.T) {
	repo := newFakeRecurringRepo()
	h := newTestHandlers(repo)

	body := `{"type":"expense","amount":"1200","currency":"USD","category":"Rent","startDate":"2025-01-31","frequency":"monthly","endDate":"2025-04-30"}`
	rec := httptest.NewRecorder()
	h.CreateTemplate(rec, newRequest(http.MethodPost, "/api/recurring", body, "alice"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created createTemplateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(4), created.EntriesCreated)
	assert.Equal(t, "2025-01-31", created.Template.StartDate)
	assert.Equal(t, "2025-04-30", created.Template.EndDate)
	assert.Contains(t, repo.entries, recurringdomain.EntryID(created.Template.ID, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))

	rec = httptest.NewRecorder()
	h.ListTemplates(rec, newRequest(http.MethodGet, "/api/recurring", "", "alice"))
	require.Equal(t, http.StatusOK, rec.Code)
	var list summaryListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.NotEmpty(t, list.Items[0].Label)

	rec = httptest.NewRecorder()
	h.DeleteTemplate(rec, withID(newRequest(http.MethodDelete, "/api/recurring/"+created.Template.ID, "", "bob"), created.Template.ID))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", errorCode(t, rec))

	rec = httptest.NewRecorder()
	h.DeleteTemplate(rec, withID(newRequest(http.MethodDelete, "/api/recurring/"+created.Template.ID, "", "alice"), created.Template.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"entriesDeleted":4}`, rec.Body.String())
	assert.Empty(t, repo.templates)
}

func TestCreateTemplateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{
			name:   "rule before service start",
			body:   `{"type":"expense","amount":"10","currency":"USD","category":"Rent","startDate":"2024-01-01","frequency":"monthly","endDate":"2024-06-01"}`,
			status: http.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "end before start",
			body:   `{"type":"expense","amount":"10","currency":"USD","category":"Rent","startDate":"2025-03-01","frequency":"daily","endDate":"2025-02-01"}`,
			status: http.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "unknown frequency",
			body:   `{"type":"expense","amount":"10","currency":"USD","category":"Rent","startDate":"2025-03-01","frequency":"hourly"}`,
			status: http.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "missing start",
			body:   `{"type":"expense","amount":"10","currency":"USD","category":"Rent","frequency":"daily"}`,
			status: http.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "unknown field",
			body:   `{"type":"expense","every":"day"}`,
			status: http.StatusBadRequest,
			code:   "invalid_json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRecurringRepo()
			h := newTestHandlers(repo)
			rec := httptest.NewRecorder()

			h.CreateTemplate(rec, newRequest(http.MethodPost, "/api/recurring", tt.body, "alice"))

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
			assert.Empty(t, repo.templates)
			assert.Empty(t, repo.entries)
		})
	}
}

func TestStopUnknownTemplate(t *testing.T) {
	h := newTestHandlers(newFakeRecurringRepo())
	rec := httptest.NewRecorder()

	h.StopTemplate(rec, withID(newRequest(http.MethodPost, "/api/recurring/missing/stop", "", "alice"), "missing"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "template_not_found", errorCode(t, rec))
}
