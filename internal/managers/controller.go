package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/chrissnell/myweather/internal/controllers/notifier"
	"github.com/chrissnell/myweather/internal/controllers/restserver"
	"github.com/chrissnell/myweather/pkg/config"
	"go.uber.org/zap"
)

// ControllerManager interface for the controller manager
type ControllerManager interface {
	StartControllers() error
}

// Controller is an interface that provides standard methods for various controller backends
type Controller interface {
	StartController() error
}

// ControllerServices holds what the controllers are built from.
type ControllerServices struct {
	REST     restserver.Services
	Notifier notifier.Dependencies
}

// NewControllerManager creates a new controller manager
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, controllers []config.ControllerData, services ControllerServices, logger *zap.SugaredLogger) (ControllerManager, error) {
	cm := &controllerManager{
		ctx:         ctx,
		wg:          wg,
		services:    services,
		logger:      logger,
		controllers: make([]Controller, 0, len(controllers)),
	}

	// Create controllers based on configuration
	for _, con := range controllers {
		controller, err := cm.createController(con)
		if err != nil {
			return nil, fmt.Errorf("error creating %s controller: %v", con.Type, err)
		}
		cm.controllers = append(cm.controllers, controller)
	}

	return cm, nil
}

type controllerManager struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	services    ControllerServices
	logger      *zap.SugaredLogger
	controllers []Controller
}

func (c *controllerManager) StartControllers() error {
	c.logger.Info("Starting controller manager...")

	for _, controller := range c.controllers {
		err := controller.StartController()
		if err != nil {
			return fmt.Errorf("error starting controller: %v", err)
		}
	}

	c.logger.Infof("Started %d controllers successfully", len(c.controllers))
	return nil
}

// createController creates a controller based on the controller configuration
func (cm *controllerManager) createController(cc config.ControllerData) (Controller, error) {
	switch cc.Type {
	case "rest":
		var rc config.RESTServerData
		if cc.RESTServer != nil {
			rc = *cc.RESTServer
		}
		return restserver.NewController(cm.ctx, cm.wg, rc, cm.services.REST, cm.logger)
	case "notifier":
		var nc config.NotifierData
		if cc.Notifier != nil {
			nc = *cc.Notifier
		}
		return notifier.NewController(cm.ctx, cm.wg, nc, cm.services.Notifier, cm.logger)
	default:
		return nil, fmt.Errorf("unknown controller type: %s", cc.Type)
	}
}
