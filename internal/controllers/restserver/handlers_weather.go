package restserver

import (
	"errors"
	"net/http"

	"github.com/chrissnell/myweather/internal/lookup"
	"github.com/chrissnell/myweather/internal/openweathermap"
)

// sendLookupError maps a lookup failure to a response.
func (h *Handlers) sendLookupError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *lookup.InvalidQueryError
	var upstream *openweathermap.UpstreamError

	switch {
	case errors.As(err, &invalid):
		h.sendError(w, r, http.StatusBadRequest, invalid.Message, nil)
	case errors.As(err, &upstream):
		h.sendError(w, r, http.StatusBadGateway, upstream.Message, upstream.Err)
	case errors.Is(err, lookup.ErrNoCurrentReport):
		h.sendError(w, r, http.StatusNotFound, "No location has been looked up yet", nil)
	default:
		h.controller.logger.Errorf("lookup failed: %v", err)
		h.sendError(w, r, http.StatusInternalServerError, "Lookup failed", err)
	}
}

// GetWeather looks up a zip code or coordinates
func (h *Handlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	params := r.URL.Query()

	query, err := lookup.ParseQuery(params.Get("zip"), params.Get("lat"), params.Get("lon"))
	if err != nil {
		h.sendLookupError(w, r, err)
		return
	}

	report, err := h.controller.services.Lookups.Lookup(r.Context(), sess, query)
	if err != nil {
		h.sendLookupError(w, r, err)
		return
	}

	h.sendJSON(w, r, report)
}

// GetCurrentWeather returns the report the session is currently showing
func (h *Handlers) GetCurrentWeather(w http.ResponseWriter, r *http.Request) {
	report, err := h.controller.services.Lookups.Current(sessionFromContext(r.Context()))
	if err != nil {
		h.sendLookupError(w, r, err)
		return
	}
	h.sendJSON(w, r, report)
}

// ToggleCurrentUnits switches the unit system and re-fetches the current
// location in it
func (h *Handlers) ToggleCurrentUnits(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	lookups := h.controller.services.Lookups

	if _, err := lookups.Current(sess); err != nil {
		h.sendLookupError(w, r, err)
		return
	}

	previous := sess.Units()
	if _, err := h.controller.services.Sessions.ToggleUnits(r.Context(), sess.ID); err != nil {
		h.sendError(w, r, http.StatusInternalServerError, "Unable to save unit preference", err)
		return
	}

	report, err := lookups.Refresh(r.Context(), sess)
	if err != nil {
		// The current report is still in the old units, so the preference
		// goes back with it.
		if rerr := h.controller.services.Sessions.SetUnits(r.Context(), sess.ID, previous); rerr != nil {
			h.controller.logger.Errorf("unable to restore %s units after failed refresh: %v", previous, rerr)
		}
		h.sendLookupError(w, r, err)
		return
	}
	h.sendJSON(w, r, report)
}
