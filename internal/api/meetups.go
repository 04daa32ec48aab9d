package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meetapp-io/meetapp/internal/database"
	"github.com/meetapp-io/meetapp/internal/models"
)

type meetupRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	BannerID    int64     `json:"banner_id" validate:"required"`
}

// ListMeetups returns the meetups owned by the caller.
func (a *Api) ListMeetups(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	meetups, err := a.meetups.ListByOwner(r.Context(), principal.UserID)
	if err != nil {
		respondInternalError(w, err)
		return
	}
	if meetups == nil {
		meetups = []*models.Meetup{}
	}
	respondJSON(w, http.StatusOK, meetups)
}

// CreateMeetup creates a meetup owned by the caller. Dates must be
// strictly in the future and the banner must already exist.
func (a *Api) CreateMeetup(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req meetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if !req.Date.After(time.Now()) {
		respondError(w, http.StatusBadRequest, "Past dates are not permitted")
		return
	}

	if _, err := a.files.GetByID(r.Context(), req.BannerID); err != nil {
		if errors.Is(err, database.ErrFileNotFound) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("File does not exists with id #%d", req.BannerID))
			return
		}
		respondInternalError(w, err)
		return
	}

	meetup := &models.Meetup{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		BannerID:    req.BannerID,
		UserID:      principal.UserID,
	}
	if err := a.meetups.Create(r.Context(), meetup); err != nil {
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, meetup)
}

// UpdateMeetup replaces the fields of a future meetup owned by the
// caller.
func (a *Api) UpdateMeetup(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid meetup id")
		return
	}

	var req meetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if !req.Date.After(time.Now()) {
		respondError(w, http.StatusBadRequest, "Past dates are not permitted")
		return
	}

	meetup, err := a.meetups.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrMeetupNotFound) {
			respondError(w, http.StatusNotFound, "Meetup not found")
			return
		}
		respondInternalError(w, err)
		return
	}

	if meetup.UserID != principal.UserID {
		respondError(w, http.StatusUnauthorized, "You can only update yours meetups")
		return
	}
	if meetup.Past(time.Now()) {
		respondError(w, http.StatusBadRequest, "You cannot update past meetups")
		return
	}

	if _, err := a.files.GetByID(r.Context(), req.BannerID); err != nil {
		if errors.Is(err, database.ErrFileNotFound) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("File does not exists with id #%d", req.BannerID))
			return
		}
		respondInternalError(w, err)
		return
	}

	meetup.Title = req.Title
	meetup.Description = req.Description
	meetup.Location = req.Location
	meetup.Date = req.Date
	meetup.BannerID = req.BannerID

	if err := a.meetups.Update(r.Context(), meetup); err != nil {
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, meetup)
}

// DeleteMeetup cancels a future meetup owned by the caller.
func (a *Api) DeleteMeetup(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid meetup id")
		return
	}

	meetup, err := a.meetups.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrMeetupNotFound) {
			respondError(w, http.StatusNotFound, "Meetup not found")
			return
		}
		respondInternalError(w, err)
		return
	}

	if meetup.UserID != principal.UserID {
		respondError(w, http.StatusUnauthorized, "You can only cancel yours meetups")
		return
	}
	if meetup.Past(time.Now()) {
		respondError(w, http.StatusBadRequest, "You cannot cancel past meetups")
		return
	}

	if err := a.meetups.Delete(r.Context(), id); err != nil {
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
