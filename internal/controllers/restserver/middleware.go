package restserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/chrissnell/myweather/internal/log"
	"github.com/chrissnell/myweather/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// statusRecorder captures the status and size of a response for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// loggingMiddleware logs all requests except for noisy endpoints
func (c *Controller) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		duration := time.Since(start)

		// Reading the HTTP log should not add to it
		if r.URL.Path == "/api/logs/http" {
			return
		}
		log.LogHTTPRequest(r.Method, r.URL.Path, rec.status, duration, rec.size, r.RemoteAddr, r.UserAgent())
		c.logger.Infof("%s %s %d %s %v", r.Method, r.RequestURI, rec.status, r.RemoteAddr, duration)
	})
}

// corsMiddleware adds CORS headers
func (c *Controller) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sessionToken returns the session ID sent as a bearer token or cookie.
func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// sessionMiddleware rejects requests without a live session and adds the
// session to the request context.
func (c *Controller) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			c.handlers.sendError(w, r, http.StatusUnauthorized, "Login required", nil)
			return
		}

		sess, err := c.services.Sessions.Lookup(token)
		if err != nil {
			c.logger.Debugf("rejecting %s: %v", r.URL.Path, err)
			c.handlers.sendError(w, r, http.StatusUnauthorized, "Login required", err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}
