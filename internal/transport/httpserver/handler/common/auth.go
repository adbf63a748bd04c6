package common

import (
	"errors"
	"net/http"

	userdomain "shared-ledger-go/internal/domain/user"
	"shared-ledger-go/internal/transport/httpserver/middleware"
	"shared-ledger-go/pkg/logger"
)

type profileResponse struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	EmailVerified    bool     `json:"emailVerified"`
	DisplayName      string   `json:"displayName"`
	DisplayCurrency  string   `json:"displayCurrency"`
	ConnectedUserIDs []string `json:"connectedUserIds"`
}

type updateProfileRequest struct {
	DisplayName     *string `json:"displayName"`
	DisplayCurrency *string `json:"displayCurrency"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	profile, err := h.Users.GetProfile(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			writeJSON(w, http.StatusOK, profileResponse{
				ID:               user.ID,
				Email:            user.Email,
				EmailVerified:    user.EmailVerified,
				DisplayName:      user.Name,
				DisplayCurrency:  userdomain.DefaultDisplayCurrency,
				ConnectedUserIDs: []string{},
			})
			return
		}
		log.InternalError("auth.me: get profile failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(*profile, user.EmailVerified))
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
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

	profile, err := h.Users.UpdateSettings(r.Context(), userdomain.UpdateSettingsInput{
		UserID:          user.ID,
		DisplayName:     req.DisplayName,
		DisplayCurrency: req.DisplayCurrency,
	})
	if err != nil {
		switch {
		case errors.Is(err, userdomain.ErrInvalidCurrency), errors.Is(err, userdomain.ErrInvalidDisplayName):
			log.BusinessError("users.update: invalid settings", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, userdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		default:
			log.InternalError("users.update: update settings failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(*profile, user.EmailVerified))
}

func toProfileResponse(profile userdomain.User, emailVerified bool) profileResponse {
	response := profileResponse{
		ID:               profile.ID,
		EmailVerified:    emailVerified,
		DisplayName:      profile.Name(),
		DisplayCurrency:  profile.DisplayCurrency,
		ConnectedUserIDs: []string(profile.ConnectedUserIDs),
	}
	if profile.Email != nil {
		response.Email = *profile.Email
	}
	if response.ConnectedUserIDs == nil {
		response.ConnectedUserIDs = []string{}
	}
	return response
}
