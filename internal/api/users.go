package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meetapp-io/meetapp/internal/database"
	"github.com/meetapp-io/meetapp/internal/models"
)

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

type updatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required,min=6"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// CreateUser registers a new account.
func (a *Api) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := models.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		respondInternalError(w, err)
		return
	}

	if err := a.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, "User email already exists")
			return
		}
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// UpdateUser changes the caller's name and/or email.
func (a *Api) UpdateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := a.users.GetByID(r.Context(), principal.UserID)
	if err != nil {
		respondInternalError(w, err)
		return
	}

	if req.Email != "" && req.Email != user.Email {
		taken, err := a.users.EmailTaken(r.Context(), req.Email)
		if err != nil {
			respondInternalError(w, err)
			return
		}
		if taken {
			respondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		user.Email = req.Email
	}
	if req.Name != "" {
		user.Name = req.Name
	}

	if err := a.users.Update(r.Context(), user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdatePassword changes the caller's password after checking the old
// one.
func (a *Api) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := a.users.GetByID(r.Context(), principal.UserID)
	if err != nil {
		respondInternalError(w, err)
		return
	}

	if !user.CheckPassword(req.OldPassword) {
		respondError(w, http.StatusUnauthorized, "Password does not match")
		return
	}

	if err := user.SetPassword(req.Password); err != nil {
		respondInternalError(w, err)
		return
	}
	if err := a.users.Update(r.Context(), user); err != nil {
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
