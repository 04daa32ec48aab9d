package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/meetapp-io/meetapp/internal/database"
)

type createSessionRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type sessionUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionResponse struct {
	User  sessionUser `json:"user"`
	Token string      `json:"token"`
}

// CreateSession authenticates a user and issues a signed, time-limited
// bearer token.
func (a *Api) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := a.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		respondInternalError(w, err)
		return
	}

	if !user.CheckPassword(req.Password) {
		respondError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	ttl := time.Duration(a.Config.Auth.TokenTTLHrs) * time.Hour
	token, err := a.tokens.GenerateToken(user, ttl)
	if err != nil {
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		User: sessionUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
		Token: token,
	})
}
