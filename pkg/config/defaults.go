package config

import (
	"errors"
	"fmt"
	"os"
)

const (
	DefaultAPIEndpoint       = "https://api.openweathermap.org"
	DefaultCountry           = "us"
	DefaultTimeoutSeconds    = 5
	DefaultRequestsPerSecond = 1.0
	DefaultBurst             = 5
	DefaultStorageBackend    = "sqlite"
	DefaultSQLitePath        = "myweather.db"
	DefaultIdentity          = "zip-or-name"
	DefaultRESTPort          = 8080
	DefaultRESTListenAddr    = "127.0.0.1"
	DefaultCheckInterval     = 60

	// APIKeyEnv overrides openweathermap.api-key when set.
	APIKeyEnv = "OPENWEATHERMAP_API_KEY"
)

// ApplyDefaults fills unset fields with their default values
func ApplyDefaults(cfg *ConfigData) {
	owm := &cfg.OpenWeatherMap
	if owm.APIEndpoint == "" {
		owm.APIEndpoint = DefaultAPIEndpoint
	}
	if owm.Country == "" {
		owm.Country = DefaultCountry
	}
	if owm.TimeoutSeconds <= 0 {
		owm.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if owm.RequestsPerSecond <= 0 {
		owm.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if owm.Burst <= 0 {
		owm.Burst = DefaultBurst
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.Backend == "sqlite" && cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = DefaultSQLitePath
	}

	if cfg.Favorites.Identity == "" {
		cfg.Favorites.Identity = DefaultIdentity
	}

	for i := range cfg.Controllers {
		c := &cfg.Controllers[i]
		switch c.Type {
		case "rest":
			if c.RESTServer == nil {
				c.RESTServer = &RESTServerData{}
			}
			if c.RESTServer.Port == 0 {
				c.RESTServer.Port = DefaultRESTPort
			}
			if c.RESTServer.ListenAddr == "" {
				c.RESTServer.ListenAddr = DefaultRESTListenAddr
			}
		case "notifier":
			if c.Notifier == nil {
				c.Notifier = &NotifierData{}
			}
			if c.Notifier.CheckIntervalSeconds <= 0 {
				c.Notifier.CheckIntervalSeconds = DefaultCheckInterval
			}
		}
	}
}

// ApplyEnvironment overrides configuration from environment variables
func ApplyEnvironment(cfg *ConfigData) {
	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.OpenWeatherMap.APIKey = key
	}
}

// Validate checks that the configuration is usable
func Validate(cfg *ConfigData) error {
	var errs []error

	if cfg.OpenWeatherMap.APIKey == "" {
		errs = append(errs, fmt.Errorf("openweathermap api key is required (set it in the config or %s)", APIKeyEnv))
	}

	switch cfg.Storage.Backend {
	case "sqlite", "memory":
	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage backend postgres requires a postgres-dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend))
	}

	switch cfg.Favorites.Identity {
	case "zip-or-name", "name", "zip":
	default:
		errs = append(errs, fmt.Errorf("unsupported favorites identity: %s", cfg.Favorites.Identity))
	}

	for _, c := range cfg.Controllers {
		switch c.Type {
		case "rest", "notifier":
		default:
			errs = append(errs, fmt.Errorf("unsupported controller type: %s", c.Type))
		}
	}

	return errors.Join(errs...)
}
