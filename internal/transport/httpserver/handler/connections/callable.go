package connections

import (
	"errors"
	"net/http"

	connectionsdomain "shared-ledger-go/internal/domain/connections"
	"shared-ledger-go/internal/transport/httpserver/middleware"
	"shared-ledger-go/pkg/logger"
)

const (
	codeUnauthenticated    = "unauthenticated"
	codeInvalidArgument    = "invalid-argument"
	codePermissionDenied   = "permission-denied"
	codeNotFound           = "not-found"
	codeFailedPrecondition = "failed-precondition"
	codeInternal           = "internal"
)

type acceptInvitationRequest struct {
	InvitationID string `json:"invitationId"`
	UserID       string `json:"userId"`
}

type leaveConnectionsRequest struct {
	UserID string `json:"userId"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func (h *Handlers) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}

	var req acceptInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, "invalid json body")
		return
	}

	log := logger.FromContext(r.Context(), h.log)
	err := h.Connections.Accept(r.Context(), caller, req.InvitationID, req.UserID)
	if err != nil {
		h.writeCallableError(w, log, "connections.accept", err, "invitation_id", req.InvitationID)
		return
	}

	log.Info("connections.accept: invitation accepted", "invitation_id", req.InvitationID)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handlers) LeaveConnections(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}

	var req leaveConnectionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, "invalid json body")
		return
	}

	log := logger.FromContext(r.Context(), h.log)
	if err := h.Connections.Leave(r.Context(), caller, req.UserID); err != nil {
		h.writeCallableError(w, log, "connections.leave", err)
		return
	}

	log.Info("connections.leave: left connections")
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handlers) writeCallableError(w http.ResponseWriter, log logger.Logger, op string, err error, kv ...any) {
	status, code := callableStatus(err)
	if status == http.StatusInternalServerError {
		log.InternalError(op+": failed", err, kv...)
		writeError(w, status, code, "internal error")
		return
	}
	log.BusinessError(op+": rejected", err, kv...)
	writeError(w, status, code, err.Error())
}

func callableStatus(err error) (int, string) {
	switch {
	case errors.Is(err, connectionsdomain.ErrUnauthenticated):
		return http.StatusUnauthorized, codeUnauthenticated
	case errors.Is(err, connectionsdomain.ErrMissingArgument),
		errors.Is(err, connectionsdomain.ErrInvalidUserID),
		errors.Is(err, connectionsdomain.ErrInvalidInvitation),
		errors.Is(err, connectionsdomain.ErrInvalidEmail),
		errors.Is(err, connectionsdomain.ErrCannotInviteSelf):
		return http.StatusBadRequest, codeInvalidArgument
	case errors.Is(err, connectionsdomain.ErrNotSelf),
		errors.Is(err, connectionsdomain.ErrNotInvitee),
		errors.Is(err, connectionsdomain.ErrNotInviter):
		return http.StatusForbidden, codePermissionDenied
	case errors.Is(err, connectionsdomain.ErrInvitationNotFound),
		errors.Is(err, connectionsdomain.ErrUserNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, connectionsdomain.ErrInvitationExpired):
		return http.StatusPreconditionFailed, codeFailedPrecondition
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func callerFromRequest(r *http.Request) (connectionsdomain.Caller, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok || user.ID == "" {
		return connectionsdomain.Caller{}, false
	}
	return connectionsdomain.Caller{
		ID:            user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
	}, true
}
