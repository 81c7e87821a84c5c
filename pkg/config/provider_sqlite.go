package config

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	"github.com/chrissnell/myweather/pkg/migrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// InitSchema creates the configuration tables if they do not exist
func (s *SQLiteProvider) InitSchema() error {
	m := migrate.NewMigrator(s.db, migrate.NewFSSource(migrations, "migrations"), nil).WithTable("config_migrations")
	if err := m.MigrateUp(context.Background()); err != nil {
		return fmt.Errorf("failed to create config schema: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	config := &ConfigData{}

	owm := settings["openweathermap"]
	config.OpenWeatherMap = OpenWeatherMapData{
		APIKey:      owm["api_key"],
		APIEndpoint: owm["api_endpoint"],
		Country:     owm["country"],
	}
	if config.OpenWeatherMap.TimeoutSeconds, err = atoiOrZero(owm["timeout_seconds"]); err != nil {
		return nil, fmt.Errorf("invalid openweathermap timeout_seconds: %w", err)
	}
	if config.OpenWeatherMap.Burst, err = atoiOrZero(owm["burst"]); err != nil {
		return nil, fmt.Errorf("invalid openweathermap burst: %w", err)
	}
	if v := owm["requests_per_second"]; v != "" {
		if config.OpenWeatherMap.RequestsPerSecond, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid openweathermap requests_per_second: %w", err)
		}
	}

	storage := settings["storage"]
	config.Storage = StorageData{
		Backend:     storage["backend"],
		SQLitePath:  storage["sqlite_path"],
		PostgresDSN: storage["postgres_dsn"],
	}

	config.Favorites = FavoritesData{Identity: settings["favorites"]["identity"]}

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	return config, nil
}

func (s *SQLiteProvider) loadSettings() (map[string]map[string]string, error) {
	rows, err := s.db.Query(`SELECT section, name, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]map[string]string)
	for rows.Next() {
		var section, name string
		var value sql.NullString
		if err := rows.Scan(&section, &name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan settings row: %w", err)
		}
		if settings[section] == nil {
			settings[section] = make(map[string]string)
		}
		if value.Valid {
			settings[section][name] = value.String
		}
	}
	return settings, rows.Err()
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	rows, err := s.db.Query(`
		SELECT type, cert, key, port, listen_addr, check_interval_seconds, timezone
		FROM controllers
		ORDER BY type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var controller ControllerData
		var cert, key, listenAddr, timezone sql.NullString
		var port, checkInterval sql.NullInt64

		err := rows.Scan(&controller.Type, &cert, &key, &port, &listenAddr, &checkInterval, &timezone)
		if err != nil {
			return nil, fmt.Errorf("failed to scan controller row: %w", err)
		}

		switch controller.Type {
		case "rest":
			controller.RESTServer = &RESTServerData{
				Cert:       cert.String,
				Key:        key.String,
				Port:       int(port.Int64),
				ListenAddr: listenAddr.String,
			}
		case "notifier":
			controller.Notifier = &NotifierData{
				CheckIntervalSeconds: int(checkInterval.Int64),
				Timezone:             timezone.String,
			}
		}

		controllers = append(controllers, controller)
	}

	return controllers, rows.Err()
}

// SaveConfig replaces the stored configuration with cfg
func (s *SQLiteProvider) SaveConfig(cfg *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM settings`); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM controllers`); err != nil {
		return fmt.Errorf("failed to clear controllers: %w", err)
	}

	owm := cfg.OpenWeatherMap
	settings := []struct{ section, name, value string }{
		{"openweathermap", "api_key", owm.APIKey},
		{"openweathermap", "api_endpoint", owm.APIEndpoint},
		{"openweathermap", "country", owm.Country},
		{"openweathermap", "timeout_seconds", strconv.Itoa(owm.TimeoutSeconds)},
		{"openweathermap", "requests_per_second", strconv.FormatFloat(owm.RequestsPerSecond, 'f', -1, 64)},
		{"openweathermap", "burst", strconv.Itoa(owm.Burst)},
		{"storage", "backend", cfg.Storage.Backend},
		{"storage", "sqlite_path", cfg.Storage.SQLitePath},
		{"storage", "postgres_dsn", cfg.Storage.PostgresDSN},
		{"favorites", "identity", cfg.Favorites.Identity},
	}
	for _, st := range settings {
		_, err := tx.Exec(`INSERT INTO settings (section, name, value) VALUES (?, ?, ?)`, st.section, st.name, st.value)
		if err != nil {
			return fmt.Errorf("failed to insert setting %s.%s: %w", st.section, st.name, err)
		}
	}

	for _, c := range cfg.Controllers {
		var cert, key, listenAddr, timezone string
		var port, checkInterval int
		if c.RESTServer != nil {
			cert, key, port, listenAddr = c.RESTServer.Cert, c.RESTServer.Key, c.RESTServer.Port, c.RESTServer.ListenAddr
		}
		if c.Notifier != nil {
			checkInterval, timezone = c.Notifier.CheckIntervalSeconds, c.Notifier.Timezone
		}
		_, err := tx.Exec(`
			INSERT INTO controllers (type, cert, key, port, listen_addr, check_interval_seconds, timezone)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.Type, cert, key, port, listenAddr, checkInterval, timezone)
		if err != nil {
			return fmt.Errorf("failed to insert controller %s: %w", c.Type, err)
		}
	}

	return tx.Commit()
}

// IsReadOnly returns false as SQLite supports writes
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
