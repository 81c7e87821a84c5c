package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/myweather/internal/favorites"
	"github.com/chrissnell/myweather/internal/log"
	"github.com/chrissnell/myweather/internal/lookup"
	"github.com/chrissnell/myweather/internal/preferences"
	"github.com/chrissnell/myweather/internal/session"
	"github.com/chrissnell/myweather/internal/storage"
	"github.com/chrissnell/myweather/pkg/config"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SessionCookie carries the session ID for browser clients.
const SessionCookie = "mw_session"

// Services are the application services the REST API exposes.
type Services struct {
	Sessions      *session.Manager
	Lookups       *lookup.Service
	Favorites     *favorites.Service
	Preferences   *preferences.Service
	StorageHealth *storage.HealthManager
}

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	services   Services
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.RESTServerData, services Services, logger *zap.SugaredLogger) (*Controller, error) {
	if services.Sessions == nil || services.Lookups == nil || services.Favorites == nil || services.Preferences == nil {
		return nil, fmt.Errorf("REST server requires session, lookup, favorites and preferences services")
	}

	if rc.ListenAddr == "" {
		logger.Infof("rest listen-addr not provided; defaulting to %s", config.DefaultRESTListenAddr)
		rc.ListenAddr = config.DefaultRESTListenAddr
	}
	if rc.Port == 0 {
		logger.Infof("rest port not provided; defaulting to %d", config.DefaultRESTPort)
		rc.Port = config.DefaultRESTPort
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		services:   services,
		logger:     logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = ctrl.Router()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		c.logger.Infof("REST server starting on %s", c.Server.Addr)

		var err error
		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			err = c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key)
		} else {
			err = c.Server.ListenAndServe()
		}
		if err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// Router builds the HTTP router with all endpoints.
func (c *Controller) Router() *mux.Router {
	router := mux.NewRouter()

	router.Use(c.loggingMiddleware)
	router.Use(c.corsMiddleware)

	router.HandleFunc("/login", c.handlers.Login).Methods("POST")
	router.HandleFunc("/logout", c.handlers.Logout).Methods("POST")
	router.HandleFunc("/healthz", c.handlers.Health).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(c.sessionMiddleware)

	api.HandleFunc("/weather", c.handlers.GetWeather).Methods("GET")
	api.HandleFunc("/weather/current", c.handlers.GetCurrentWeather).Methods("GET")
	api.HandleFunc("/weather/current/units/toggle", c.handlers.ToggleCurrentUnits).Methods("POST")

	api.HandleFunc("/favorites", c.handlers.GetFavorites).Methods("GET")
	api.HandleFunc("/favorites", c.handlers.AddFavorite).Methods("POST")
	api.HandleFunc("/favorites/current/toggle", c.handlers.ToggleCurrentFavorite).Methods("POST")
	api.HandleFunc("/favorites/{id:.+}", c.handlers.DeleteFavorite).Methods("DELETE")

	api.HandleFunc("/settings/units", c.handlers.GetUnits).Methods("GET")
	api.HandleFunc("/settings/units", c.handlers.SetUnits).Methods("PUT")
	api.HandleFunc("/settings/units/toggle", c.handlers.ToggleUnits).Methods("POST")
	api.HandleFunc("/settings/alerts", c.handlers.GetAlerts).Methods("GET")
	api.HandleFunc("/settings/alerts", c.handlers.SetAlerts).Methods("PUT")

	api.HandleFunc("/logs/http", c.handlers.GetHTTPLogs).Methods("GET")

	return router
}
