package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	if y.config != nil {
		return y.config, nil
	}

	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseYAML(cfgFile)
	if err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

// ParseYAML converts a YAML document into ConfigData
func ParseYAML(data []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		OpenWeatherMap OpenWeatherMapYAML `yaml:"openweathermap"`
		Storage        StorageYAML        `yaml:"storage,omitempty"`
		Favorites      FavoritesYAML      `yaml:"favorites,omitempty"`
		Controllers    []ControllerYAML   `yaml:"controllers,omitempty"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, err
	}

	config := &ConfigData{
		OpenWeatherMap: OpenWeatherMapData{
			APIKey:            yamlConfig.OpenWeatherMap.APIKey,
			APIEndpoint:       yamlConfig.OpenWeatherMap.APIEndpoint,
			Country:           yamlConfig.OpenWeatherMap.Country,
			TimeoutSeconds:    yamlConfig.OpenWeatherMap.TimeoutSeconds,
			RequestsPerSecond: yamlConfig.OpenWeatherMap.RequestsPerSecond,
			Burst:             yamlConfig.OpenWeatherMap.Burst,
		},
		Storage: StorageData{
			Backend:     yamlConfig.Storage.Backend,
			SQLitePath:  yamlConfig.Storage.SQLitePath,
			PostgresDSN: yamlConfig.Storage.PostgresDSN,
		},
		Favorites: FavoritesData{
			Identity: yamlConfig.Favorites.Identity,
		},
		Controllers: make([]ControllerData, len(yamlConfig.Controllers)),
	}

	for i, controller := range yamlConfig.Controllers {
		config.Controllers[i] = ControllerData{Type: controller.Type}

		if controller.RESTServer != nil {
			config.Controllers[i].RESTServer = &RESTServerData{
				Cert:       controller.RESTServer.Cert,
				Key:        controller.RESTServer.Key,
				Port:       controller.RESTServer.Port,
				ListenAddr: controller.RESTServer.ListenAddr,
			}
		}
		if controller.Notifier != nil {
			config.Controllers[i].Notifier = &NotifierData{
				CheckIntervalSeconds: controller.Notifier.CheckIntervalSeconds,
				Timezone:             controller.Notifier.Timezone,
			}
		}
	}

	return config, nil
}

// GetControllers returns controller configurations
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	config, err := y.LoadConfig()
	if err != nil {
		return nil, err
	}
	return config.Controllers, nil
}

// IsReadOnly returns true as YAML files are treated as read-only
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with YAML tags

type OpenWeatherMapYAML struct {
	APIKey            string  `yaml:"api-key"`
	APIEndpoint       string  `yaml:"api-endpoint,omitempty"`
	Country           string  `yaml:"country,omitempty"`
	TimeoutSeconds    int     `yaml:"timeout-seconds,omitempty"`
	RequestsPerSecond float64 `yaml:"requests-per-second,omitempty"`
	Burst             int     `yaml:"burst,omitempty"`
}

type StorageYAML struct {
	Backend     string `yaml:"backend,omitempty"`
	SQLitePath  string `yaml:"sqlite-path,omitempty"`
	PostgresDSN string `yaml:"postgres-dsn,omitempty"`
}

type FavoritesYAML struct {
	Identity string `yaml:"identity,omitempty"`
}

type ControllerYAML struct {
	Type       string          `yaml:"type,omitempty"`
	RESTServer *RESTServerYAML `yaml:"rest,omitempty"`
	Notifier   *NotifierYAML   `yaml:"notifier,omitempty"`
}

type RESTServerYAML struct {
	Cert       string `yaml:"cert,omitempty"`
	Key        string `yaml:"key,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	ListenAddr string `yaml:"listen-addr,omitempty"`
}

type NotifierYAML struct {
	CheckIntervalSeconds int    `yaml:"check-interval-seconds,omitempty"`
	Timezone             string `yaml:"timezone,omitempty"`
}
