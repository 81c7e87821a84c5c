package config

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
)

const testYAML = `
openweathermap:
  api-key: abc123
  country: ca
  requests-per-second: 2.5
storage:
  backend: sqlite
  sqlite-path: /var/lib/myweather/data.db
favorites:
  identity: name
controllers:
  - type: rest
    rest:
      listen-addr: 0.0.0.0
      port: 9090
  - type: notifier
    notifier:
      timezone: America/Denver
`

func TestParseYAML(t *testing.T) {
	cfg, err := ParseYAML([]byte(testYAML))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	if cfg.OpenWeatherMap.APIKey != "abc123" {
		t.Errorf("api key = %q", cfg.OpenWeatherMap.APIKey)
	}
	if cfg.OpenWeatherMap.Country != "ca" {
		t.Errorf("country = %q", cfg.OpenWeatherMap.Country)
	}
	if cfg.OpenWeatherMap.RequestsPerSecond != 2.5 {
		t.Errorf("rps = %v", cfg.OpenWeatherMap.RequestsPerSecond)
	}
	if cfg.Storage.SQLitePath != "/var/lib/myweather/data.db" {
		t.Errorf("sqlite path = %q", cfg.Storage.SQLitePath)
	}
	if cfg.Favorites.Identity != "name" {
		t.Errorf("identity = %q", cfg.Favorites.Identity)
	}
	if len(cfg.Controllers) != 2 {
		t.Fatalf("got %d controllers, want 2", len(cfg.Controllers))
	}
	if cfg.Controllers[0].RESTServer == nil || cfg.Controllers[0].RESTServer.Port != 9090 {
		t.Errorf("rest controller = %+v", cfg.Controllers[0].RESTServer)
	}
	if cfg.Controllers[1].Notifier == nil || cfg.Controllers[1].Notifier.Timezone != "America/Denver" {
		t.Errorf("notifier controller = %+v", cfg.Controllers[1].Notifier)
	}
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	p := NewYAMLProvider(path)
	defer p.Close()

	controllers, err := p.GetControllers()
	if err != nil {
		t.Fatalf("GetControllers: %v", err)
	}
	if len(controllers) != 2 {
		t.Errorf("got %d controllers, want 2", len(controllers))
	}
	if !p.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}

	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig(); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &ConfigData{
		Controllers: []ControllerData{{Type: "rest"}, {Type: "notifier"}},
	}
	ApplyDefaults(cfg)

	if cfg.OpenWeatherMap.APIEndpoint != DefaultAPIEndpoint {
		t.Errorf("endpoint = %q", cfg.OpenWeatherMap.APIEndpoint)
	}
	if cfg.OpenWeatherMap.Country != "us" {
		t.Errorf("country = %q", cfg.OpenWeatherMap.Country)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLitePath != DefaultSQLitePath {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Favorites.Identity != "zip-or-name" {
		t.Errorf("identity = %q", cfg.Favorites.Identity)
	}
	if cfg.Controllers[0].RESTServer.Port != DefaultRESTPort {
		t.Errorf("rest port = %d", cfg.Controllers[0].RESTServer.Port)
	}
	if cfg.Controllers[1].Notifier.CheckIntervalSeconds != DefaultCheckInterval {
		t.Errorf("check interval = %d", cfg.Controllers[1].Notifier.CheckIntervalSeconds)
	}
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(APIKeyEnv, "from-env")
	cfg := &ConfigData{OpenWeatherMap: OpenWeatherMapData{APIKey: "from-file"}}
	ApplyEnvironment(cfg)
	if cfg.OpenWeatherMap.APIKey != "from-env" {
		t.Errorf("api key = %q, want from-env", cfg.OpenWeatherMap.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConfigData)
		wantErr string
	}{
		{"valid", func(*ConfigData) {}, ""},
		{"missing key", func(c *ConfigData) { c.OpenWeatherMap.APIKey = "" }, "api key is required"},
		{"postgres without dsn", func(c *ConfigData) { c.Storage.Backend = "postgres" }, "postgres-dsn"},
		{"bad backend", func(c *ConfigData) { c.Storage.Backend = "redis" }, "unsupported storage backend"},
		{"bad identity", func(c *ConfigData) { c.Favorites.Identity = "city" }, "unsupported favorites identity"},
		{"bad controller", func(c *ConfigData) { c.Controllers = []ControllerData{{Type: "aprs"}} }, "unsupported controller type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ConfigData{OpenWeatherMap: OpenWeatherMapData{APIKey: "k"}}
			ApplyDefaults(cfg)
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()

	if err := p.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	want, err := ParseYAML([]byte(testYAML))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if got.OpenWeatherMap != want.OpenWeatherMap {
		t.Errorf("openweathermap = %+v, want %+v", got.OpenWeatherMap, want.OpenWeatherMap)
	}
	if got.Storage != want.Storage {
		t.Errorf("storage = %+v, want %+v", got.Storage, want.Storage)
	}
	if got.Favorites != want.Favorites {
		t.Errorf("favorites = %+v, want %+v", got.Favorites, want.Favorites)
	}
	// Controllers come back ordered by type.
	sort.Slice(want.Controllers, func(i, j int) bool { return want.Controllers[i].Type < want.Controllers[j].Type })
	if !reflect.DeepEqual(got.Controllers, want.Controllers) {
		t.Errorf("controllers = %+v, want %+v", got.Controllers, want.Controllers)
	}
	if p.IsReadOnly() {
		t.Error("SQLite provider should be writable")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(APIKeyEnv, "from-env")
	cfg, err := Load(path, "yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenWeatherMap.APIKey != "from-env" {
		t.Errorf("api key = %q, want the environment override", cfg.OpenWeatherMap.APIKey)
	}
	if cfg.Controllers[1].Notifier.CheckIntervalSeconds != DefaultCheckInterval {
		t.Errorf("defaults not applied: %+v", cfg.Controllers[1].Notifier)
	}

	if _, err := Load(path, "toml"); err == nil || !strings.Contains(err.Error(), "unsupported configuration backend") {
		t.Errorf("Load with unknown backend = %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("storage:\n  backend: redis\n"), 0o600)
	t.Setenv(APIKeyEnv, "")
	if _, err := Load(bad, "yaml"); err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Load of invalid config = %v", err)
	}
}
