package restserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chrissnell/myweather/internal/preferences"
	"github.com/chrissnell/myweather/pkg/units"
)

// GetUnits returns the session's unit system
func (h *Handlers) GetUnits(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, r, map[string]interface{}{
		"units": sessionFromContext(r.Context()).Units(),
	})
}

// SetUnits saves a unit system
func (h *Handlers) SetUnits(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Units string `json:"units"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.sendError(w, r, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	unit, err := units.ParseSystem(request.Units)
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, "units must be imperial or metric", err)
		return
	}

	sess := sessionFromContext(r.Context())
	if err := h.controller.services.Sessions.SetUnits(r.Context(), sess.ID, unit); err != nil {
		h.sendError(w, r, http.StatusInternalServerError, "Unable to save unit preference", err)
		return
	}

	h.sendJSON(w, r, map[string]interface{}{
		"units": unit,
	})
}

// ToggleUnits switches the unit system without re-fetching anything
func (h *Handlers) ToggleUnits(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	unit, err := h.controller.services.Sessions.ToggleUnits(r.Context(), sess.ID)
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, "Unable to save unit preference", err)
		return
	}

	h.sendJSON(w, r, map[string]interface{}{
		"units": unit,
	})
}

type alertsResponse struct {
	preferences.AlertSettings
	Times []string `json:"times"`
}

// GetAlerts returns the daily alert settings and the selectable times
func (h *Handlers) GetAlerts(w http.ResponseWriter, r *http.Request) {
	settings := h.controller.services.Preferences.Alerts(r.Context())
	h.sendJSON(w, r, alertsResponse{AlertSettings: settings, Times: preferences.AlertTimes})
}

// SetAlerts saves the daily alert settings
func (h *Handlers) SetAlerts(w http.ResponseWriter, r *http.Request) {
	var request preferences.AlertSettings
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.sendError(w, r, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	saved, err := h.controller.services.Preferences.SetAlerts(r.Context(), request)
	if errors.Is(err, preferences.ErrInvalidAlertTime) {
		h.sendError(w, r, http.StatusBadRequest, "Unsupported alert time", err)
		return
	}
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, "Unable to save alert settings", err)
		return
	}

	h.sendJSON(w, r, alertsResponse{AlertSettings: saved, Times: preferences.AlertTimes})
}
