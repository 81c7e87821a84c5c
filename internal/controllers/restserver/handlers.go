package restserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chrissnell/myweather/internal/log"
	"github.com/chrissnell/myweather/internal/session"
	"github.com/chrissnell/myweather/pkg/responseformat"
)

const sessionMaxAge = 86400 * 7

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// sendJSON sends a response in the format the client asked for
func (h *Handlers) sendJSON(w http.ResponseWriter, r *http.Request, data interface{}) {
	h.sendJSONWithStatus(w, r, http.StatusOK, data)
}

// sendJSONWithStatus sends a response with a specific status code
func (h *Handlers) sendJSONWithStatus(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	if err := h.formatter.WriteResponseWithStatus(w, r, statusCode, data, nil); err != nil {
		h.controller.logger.Errorf("error writing response for %s: %v", r.URL.Path, err)
	}
}

// sendError sends an error response
func (h *Handlers) sendError(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error) {
	errorResponse := map[string]interface{}{
		"error":     message,
		"status":    statusCode,
		"timestamp": time.Now().Unix(),
	}

	if err != nil {
		errorResponse["details"] = err.Error()
	}

	h.sendJSONWithStatus(w, r, statusCode, errorResponse)
}

// Login starts a session and sets the session cookie
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.sendError(w, r, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	sess, err := h.controller.services.Sessions.Login(r.Context(), request.Email, request.Password)
	if errors.Is(err, session.ErrMissingCredentials) {
		h.sendError(w, r, http.StatusBadRequest, "Please enter your email and password.", nil)
		return
	}
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, "Login failed", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // Only set Secure flag if using HTTPS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   sessionMaxAge,
	})

	h.sendJSON(w, r, map[string]interface{}{
		"success":    true,
		"session_id": sess.ID.String(),
		"email":      sess.Email,
		"units":      sess.Units(),
	})
}

// Logout ends the session, if any, and clears the session cookie
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, err := h.controller.services.Sessions.Lookup(sessionToken(r)); err == nil {
		h.controller.services.Sessions.Logout(sess.ID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1, // Expire immediately
	})

	h.sendJSON(w, r, map[string]interface{}{
		"success": true,
	})
}

// Health reports storage health. It answers 503 while the store is failing.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"sessions":  h.controller.services.Sessions.Count(),
		"timestamp": time.Now().Unix(),
	}

	status := http.StatusOK
	if hm := h.controller.services.StorageHealth; hm != nil {
		response["storage"] = hm.GetHealth()
		if !hm.IsHealthy() {
			response["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	h.sendJSONWithStatus(w, r, status, response)
}

// GetHTTPLogs returns the most recent served requests, newest last
func (h *Handlers) GetHTTPLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			h.sendError(w, r, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	entries := log.GetHTTPLogBuffer().GetEntries(limit)
	h.sendJSON(w, r, map[string]interface{}{
		"logs":  entries,
		"count": len(entries),
	})
}
