package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meetapp-io/meetapp/internal/database"
	"github.com/meetapp-io/meetapp/internal/notification"
)

type requestResetRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Endpoint string `json:"endpoint" validate:"required,url"`
}

type confirmResetRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// RequestPasswordReset stores a fresh reset token and queues the reset
// email. The response is the same generic message whether or not the
// email is registered, so the endpoint cannot be used to enumerate
// accounts.
func (a *Api) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req requestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := a.users.GetByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, database.ErrUserNotFound) {
		respondInternalError(w, err)
		return
	}

	if user != nil {
		token := uuid.NewString()
		expires := time.Now().Add(time.Duration(a.Config.Auth.ResetTTLMins) * time.Minute)
		user.ResetPasswordToken = &token
		user.ResetPasswordExpires = &expires

		if err := a.users.Update(r.Context(), user); err != nil {
			respondInternalError(w, err)
			return
		}

		payload := notification.PasswordResetPayload{
			User: notification.UserPayload{
				Name:               user.Name,
				Email:              user.Email,
				ResetPasswordToken: token,
			},
			Endpoint: req.Endpoint,
		}
		if err := a.queue.Enqueue(r.Context(), notification.PasswordResetMailKey, payload); err != nil {
			respondInternalError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Password reset instructions were sent to %s.", req.Email),
	})
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (a *Api) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	token := chi.URLParam(r, "token")

	user, err := a.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			respondError(w, http.StatusBadRequest, "Could not reset your password, please request again")
			return
		}
		respondInternalError(w, err)
		return
	}

	if !user.HasValidResetToken(token, time.Now()) {
		respondError(w, http.StatusBadRequest, "The password reset token is invalid or has expired, please request again")
		return
	}

	if err := user.SetPassword(req.Password); err != nil {
		respondInternalError(w, err)
		return
	}
	user.ClearResetToken()

	if err := a.users.Update(r.Context(), user); err != nil {
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Password changed successfully."})
}
