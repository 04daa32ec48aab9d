package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/meetapp-io/meetapp/internal/models"
)

const organizingPageSize = 20

// ListOrganizing returns the caller's subscriptions to future meetups,
// ordered by meetup date ascending, 20 per page.
func (a *Api) ListOrganizing(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			page = p
		}
	}

	subscriptions, err := a.subscriptions.ListUpcoming(r.Context(), principal.UserID, time.Now(), page, organizingPageSize)
	if err != nil {
		respondInternalError(w, err)
		return
	}
	if subscriptions == nil {
		subscriptions = []*models.Subscription{}
	}
	respondJSON(w, http.StatusOK, subscriptions)
}
