package connections

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	connectionsdomain "shared-ledger-go/internal/domain/connections"
	"shared-ledger-go/pkg/logger"
)

type createInvitationRequest struct {
	Email string `json:"email"`
}

type invitationResponse struct {
	ID           string    `json:"id"`
	InvitedEmail string    `json:"invitedEmail"`
	InvitedBy    string    `json:"invitedBy"`
	InviterName  string    `json:"inviterName"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type invitationListResponse struct {
	Items []invitationResponse `json:"items"`
}

type connectedUserResponse struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	Email           string `json:"email,omitempty"`
	DisplayCurrency string `json:"displayCurrency"`
}

type connectedListResponse struct {
	Items []connectedUserResponse `json:"items"`
}

func (h *Handlers) ListConnected(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	peerIDs, err := h.Connections.ConnectedUserIDs(r.Context(), caller.ID)
	if err != nil {
		log.InternalError("connections.list: resolve members failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	profiles, err := h.Users.ListProfiles(r.Context(), peerIDs)
	if err != nil {
		log.InternalError("connections.list: load profiles failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]connectedUserResponse, 0, len(profiles))
	for _, profile := range profiles {
		item := connectedUserResponse{
			ID:              profile.ID,
			DisplayName:     profile.Name(),
			DisplayCurrency: profile.DisplayCurrency,
		}
		if profile.Email != nil {
			item.Email = *profile.Email
		}
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, connectedListResponse{Items: items})
}

func (h *Handlers) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}

	var req createInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	inviterName := ""
	profile, err := h.Users.GetProfile(r.Context(), caller.ID)
	if err != nil {
		log.Warn("connections.invite: inviter profile unavailable, using email", "error", err)
	} else {
		inviterName = profile.Name()
	}

	invitation, err := h.Connections.Invite(r.Context(), connectionsdomain.InviteInput{
		Caller:      caller,
		InviterName: inviterName,
		Email:       req.Email,
	})
	if err != nil {
		writeInvitationError(w, log, "connections.invite", err)
		return
	}

	writeJSON(w, http.StatusCreated, toInvitationResponse(*invitation))
}

func (h *Handlers) ListReceivedInvitations(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}

	invitations, err := h.Connections.ListReceived(r.Context(), caller)
	if err != nil {
		logger.FromContext(r.Context(), h.log).InternalError("connections.invitations: list received failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toInvitationList(invitations))
}

func (h *Handlers) ListSentInvitations(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}

	invitations, err := h.Connections.ListSent(r.Context(), caller)
	if err != nil {
		logger.FromContext(r.Context(), h.log).InternalError("connections.invitations: list sent failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toInvitationList(invitations))
}

func (h *Handlers) RejectInvitation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}
	invitationID := strings.TrimSpace(chi.URLParam(r, "id"))
	log := logger.FromContext(r.Context(), h.log)

	if err := h.Connections.Reject(r.Context(), caller, invitationID); err != nil {
		writeInvitationError(w, log, "connections.reject", err, "invitation_id", invitationID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}
	invitationID := strings.TrimSpace(chi.URLParam(r, "id"))
	log := logger.FromContext(r.Context(), h.log)

	if err := h.Connections.Cancel(r.Context(), caller, invitationID); err != nil {
		writeInvitationError(w, log, "connections.cancel", err, "invitation_id", invitationID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeInvitationError(w http.ResponseWriter, log logger.Logger, op string, err error, kv ...any) {
	switch {
	case errors.Is(err, connectionsdomain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
	case errors.Is(err, connectionsdomain.ErrMissingArgument),
		errors.Is(err, connectionsdomain.ErrInvalidInvitation),
		errors.Is(err, connectionsdomain.ErrInvalidEmail):
		log.BusinessError(op+": rejected", err, kv...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, connectionsdomain.ErrCannotInviteSelf):
		log.BusinessError(op+": rejected", err, kv...)
		writeError(w, http.StatusBadRequest, "cannot_invite_self", err.Error())
	case errors.Is(err, connectionsdomain.ErrNotInvitee),
		errors.Is(err, connectionsdomain.ErrNotInviter):
		log.BusinessError(op+": rejected", err, kv...)
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, connectionsdomain.ErrInvitationNotFound):
		writeError(w, http.StatusNotFound, "invitation_not_found", "invitation not found")
	case errors.Is(err, connectionsdomain.ErrInvitationExpired):
		writeError(w, http.StatusPreconditionFailed, "invitation_expired", "invitation expired")
	default:
		log.InternalError(op+": failed", err, kv...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toInvitationList(invitations []connectionsdomain.Invitation) invitationListResponse {
	items := make([]invitationResponse, 0, len(invitations))
	for _, invitation := range invitations {
		items = append(items, toInvitationResponse(invitation))
	}
	return invitationListResponse{Items: items}
}

func toInvitationResponse(invitation connectionsdomain.Invitation) invitationResponse {
	return invitationResponse{
		ID:           invitation.ID,
		InvitedEmail: invitation.InvitedEmail,
		InvitedBy:    invitation.InvitedBy,
		InviterName:  invitation.InviterName,
		CreatedAt:    invitation.CreatedAt,
		ExpiresAt:    invitation.ExpiresAt,
	}
}
