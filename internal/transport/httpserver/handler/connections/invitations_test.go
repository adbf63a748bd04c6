package connections

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	connectionsdomain "shared-ledger-go/internal/domain/connections"
	userdomain "shared-ledger-go/internal/domain/user"
	"shared-ledger-go/internal/transport/httpserver/middleware"
	"shared-ledger-go/pkg/logger"
)

type failingProfiles struct{}

func (failingProfiles) UpsertProfile(ctx context.Context, profile *userdomain.User) error {
	return nil
}

func (failingProfiles) GetByID(ctx context.Context, userID string) (*userdomain.User, error) {
	return nil, errors.New("connection reset")
}

func (failingProfiles) ListByIDs(ctx context.Context, userIDs []string) ([]userdomain.User, error) {
	return nil, nil
}

func (failingProfiles) UpdateSettings(ctx context.Context, userID string, displayName *string, displayCurrency *string) error {
	return nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateInvitationLogsMissingProfile(t *testing.T) {
	var logs bytes.Buffer
	service := connectionsdomain.NewService(nil, nil, connectionsdomain.Config{})
	h := New(service, userdomain.NewService(failingProfiles{}), logger.New(&logs, slog.LevelDebug, "text"))

	req := httptest.NewRequest(http.MethodPost, "/api/connections/invitations", strings.NewReader(`{"email":"Ann@Example.com"}`))
	req = req.WithContext(middleware.WithUser(req.Context(), middleware.User{ID: "u1", Email: "ann@example.com"}))
	rec := httptest.NewRecorder()
	h.CreateInvitation(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cannot_invite_self", decodeError(t, rec).Error.Code)
	assert.Contains(t, logs.String(), "inviter profile unavailable")
	assert.Contains(t, logs.String(), "connection reset")
}

func TestInvitationEndpointsUseRESTCodes(t *testing.T) {
	user := middleware.User{ID: "u1", Email: "u1@example.com", EmailVerified: true}

	tests := []struct {
		name    string
		handler func(h *Handlers) http.HandlerFunc
		method  string
		body    string
		id      string
		status  int
		code    string
	}{
		{
			name:    "invite bad email",
			handler: func(h *Handlers) http.HandlerFunc { return h.CreateInvitation },
			method:  http.MethodPost,
			body:    `{"email":"not-an-email"}`,
			status:  http.StatusBadRequest,
			code:    "invalid_request",
		},
		{
			name:    "invite bad json",
			handler: func(h *Handlers) http.HandlerFunc { return h.CreateInvitation },
			method:  http.MethodPost,
			body:    `{"email":`,
			status:  http.StatusBadRequest,
			code:    "invalid_json",
		},
		{
			name:    "reject malformed id",
			handler: func(h *Handlers) http.HandlerFunc { return h.RejectInvitation },
			method:  http.MethodPost,
			id:      "bad id",
			status:  http.StatusBadRequest,
			code:    "invalid_request",
		},
		{
			name:    "cancel malformed id",
			handler: func(h *Handlers) http.HandlerFunc { return h.CancelInvitation },
			method:  http.MethodDelete,
			id:      "bad/id",
			status:  http.StatusBadRequest,
			code:    "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := connectionsdomain.NewService(nil, nil, connectionsdomain.Config{})
			h := New(service, userdomain.NewService(failingProfiles{}), logger.Discard())

			req := httptest.NewRequest(tt.method, "/api/connections/invitations", strings.NewReader(tt.body))
			req = req.WithContext(middleware.WithUser(req.Context(), user))
			if tt.id != "" {
				req = withURLParam(req, "id", tt.id)
			}
			rec := httptest.NewRecorder()
			tt.handler(h)(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Error.Code)
		})
	}
}

func TestWriteInvitationErrorTable(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{connectionsdomain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{connectionsdomain.ErrInvalidEmail, http.StatusBadRequest, "invalid_request"},
		{connectionsdomain.ErrCannotInviteSelf, http.StatusBadRequest, "cannot_invite_self"},
		{connectionsdomain.ErrNotInviter, http.StatusForbidden, "forbidden"},
		{connectionsdomain.ErrNotInvitee, http.StatusForbidden, "forbidden"},
		{connectionsdomain.ErrInvitationNotFound, http.StatusNotFound, "invitation_not_found"},
		{connectionsdomain.ErrInvitationExpired, http.StatusPreconditionFailed, "invitation_expired"},
		{errors.New("deadlock detected"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeInvitationError(rec, logger.Discard(), "connections.test", tt.err)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotContains(t, body.Error.Message, "deadlock")
		})
	}
}
