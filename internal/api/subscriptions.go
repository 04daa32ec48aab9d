package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meetapp-io/meetapp/internal/database"
	"github.com/meetapp-io/meetapp/internal/models"
	"github.com/meetapp-io/meetapp/internal/notification"
)

// Subscribe adds the caller to a meetup and queues the owner
// notification.
func (a *Api) Subscribe(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	meetupID, err := strconv.ParseInt(chi.URLParam(r, "meetupID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid meetup id")
		return
	}

	meetup, err := a.meetups.GetWithOwner(r.Context(), meetupID)
	if err != nil {
		if errors.Is(err, database.ErrMeetupNotFound) {
			respondError(w, http.StatusNotFound, "Meetup not found")
			return
		}
		respondInternalError(w, err)
		return
	}

	if meetup.UserID == principal.UserID {
		respondError(w, http.StatusUnauthorized, "You cannot subscribe in yours meetups")
		return
	}
	if meetup.Past(time.Now()) {
		respondError(w, http.StatusBadRequest, "You cannot subscribe in past meetups")
		return
	}

	// Double-booking guard: one subscription per date/time slot. The
	// check-then-insert pair is not serialized; the per-meetup UNIQUE
	// constraint below still catches the same-meetup race.
	clash, err := a.subscriptions.HasSubscriptionAt(r.Context(), principal.UserID, meetup.Date)
	if err != nil {
		respondInternalError(w, err)
		return
	}
	if clash {
		respondError(w, http.StatusBadRequest, "You cannot subscribe two times")
		return
	}

	subscription := &models.Subscription{
		UserID:   principal.UserID,
		MeetupID: meetup.ID,
	}
	if err := a.subscriptions.Create(r.Context(), subscription); err != nil {
		if errors.Is(err, database.ErrAlreadySubscribed) {
			respondError(w, http.StatusBadRequest, "You cannot subscribe two times")
			return
		}
		respondInternalError(w, err)
		return
	}

	subscriber, err := a.users.GetByID(r.Context(), principal.UserID)
	if err != nil {
		respondInternalError(w, err)
		return
	}

	payload := notification.SubscriptionPayload{
		Subscription: notification.SubscriptionData{
			User: notification.UserPayload{
				Name:  subscriber.Name,
				Email: subscriber.Email,
			},
			Meetup: notification.MeetupPayload{
				Title:    meetup.Title,
				Location: meetup.Location,
				Date:     meetup.Date,
				User: notification.UserPayload{
					Name:  meetup.User.Name,
					Email: meetup.User.Email,
				},
			},
		},
	}
	if err := a.queue.Enqueue(r.Context(), notification.SubscriptionMailKey, payload); err != nil {
		// The subscription exists; losing the courtesy email is better
		// than reporting a failure for a successful subscribe.
		log.Printf("Error enqueuing %s for meetup %d: %v", notification.SubscriptionMailKey, meetup.ID, err)
	}

	respondJSON(w, http.StatusOK, subscription)
}

// Unsubscribe removes the caller's subscription and queues the owner
// notification.
func (a *Api) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	meetupID, err := strconv.ParseInt(chi.URLParam(r, "meetupID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid meetup id")
		return
	}

	subscription, err := a.subscriptions.GetByUserAndMeetup(r.Context(), principal.UserID, meetupID)
	if err != nil {
		if errors.Is(err, database.ErrSubscriptionNotFound) {
			respondJSON(w, http.StatusOK, MessageResponse{Message: "You are not subscribed"})
			return
		}
		respondInternalError(w, err)
		return
	}

	if subscription.Meetup.Past(time.Now()) {
		respondError(w, http.StatusBadRequest, "You cannot unsubscribe in past meetups")
		return
	}

	if err := a.subscriptions.Delete(r.Context(), subscription.ID); err != nil {
		respondInternalError(w, err)
		return
	}

	meetup, err := a.meetups.GetWithOwner(r.Context(), meetupID)
	if err != nil {
		respondInternalError(w, err)
		return
	}
	subscriber, err := a.users.GetByID(r.Context(), principal.UserID)
	if err != nil {
		respondInternalError(w, err)
		return
	}

	payload := notification.UnsubscriptionPayload{
		Meetup: notification.MeetupPayload{
			Title:    meetup.Title,
			Location: meetup.Location,
			Date:     meetup.Date,
			User: notification.UserPayload{
				Name:  meetup.User.Name,
				Email: meetup.User.Email,
			},
		},
		User: notification.UserPayload{
			Name:  subscriber.Name,
			Email: subscriber.Email,
		},
	}
	if err := a.queue.Enqueue(r.Context(), notification.UnsubscriptionMailKey, payload); err != nil {
		log.Printf("Error enqueuing %s for meetup %d: %v", notification.UnsubscriptionMailKey, meetupID, err)
	}

	respondJSON(w, http.StatusOK, struct{}{})
}
