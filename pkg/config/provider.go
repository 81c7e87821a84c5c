package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetControllers() ([]ControllerData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	OpenWeatherMap OpenWeatherMapData `json:"openweathermap"`
	Storage        StorageData        `json:"storage"`
	Favorites      FavoritesData      `json:"favorites"`
	Controllers    []ControllerData   `json:"controllers,omitempty"`
}

// OpenWeatherMapData configures the current-conditions data source
type OpenWeatherMapData struct {
	APIKey            string  `json:"api_key"`
	APIEndpoint       string  `json:"api_endpoint,omitempty"`
	Country           string  `json:"country,omitempty"`
	TimeoutSeconds    int     `json:"timeout_seconds,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"`
	Burst             int     `json:"burst,omitempty"`
}

// StorageData selects the key-value backend holding favorites and preferences
type StorageData struct {
	Backend     string `json:"backend"`
	SQLitePath  string `json:"sqlite_path,omitempty"`
	PostgresDSN string `json:"postgres_dsn,omitempty"`
}

// FavoritesData holds favorites list policy
type FavoritesData struct {
	// Identity is one of "zip-or-name", "name" or "zip"
	Identity string `json:"identity,omitempty"`
}

// ControllerData holds the configuration for various controller backends
type ControllerData struct {
	Type       string          `json:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
	Notifier   *NotifierData   `json:"notifier,omitempty"`
}

type RESTServerData struct {
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
	Port       int    `json:"port,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty"`
}

type NotifierData struct {
	CheckIntervalSeconds int    `json:"check_interval_seconds,omitempty"`
	Timezone             string `json:"timezone,omitempty"`
}
