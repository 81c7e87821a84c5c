package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chrissnell/myweather/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if _, err := os.Stat(*yamlFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: YAML file does not exist: %s\n", *yamlFile)
		os.Exit(1)
	}

	if _, err := os.Stat(*sqliteFile); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: SQLite file already exists: %s\n", *sqliteFile)
		fmt.Fprintf(os.Stderr, "Use -force to overwrite or choose a different filename\n")
		os.Exit(1)
	}

	fmt.Printf("Converting YAML configuration to SQLite...\n")
	fmt.Printf("  Source: %s\n", *yamlFile)
	fmt.Printf("  Target: %s\n", *sqliteFile)

	yamlProvider := config.NewYAMLProvider(*yamlFile)
	cfg, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	// Validate what will actually be served, but store the file as written
	check := *cfg
	check.Controllers = make([]config.ControllerData, len(cfg.Controllers))
	for i, c := range cfg.Controllers {
		check.Controllers[i] = config.ControllerData{Type: c.Type}
	}
	config.ApplyEnvironment(&check)
	config.ApplyDefaults(&check)
	if err := config.Validate(&check); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printConfigSummary(cfg)

	if *dryRun {
		fmt.Printf("\nDry run complete. No changes made.\n")
		return
	}

	if *force {
		if err := os.Remove(*sqliteFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error removing existing database: %v\n", err)
			os.Exit(1)
		}
	}

	if err := writeSQLite(*sqliteFile, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nConversion complete. Start myweather with:\n")
	fmt.Printf("  myweather -config %s -config-backend sqlite\n", *sqliteFile)
}

func writeSQLite(path string, cfg *config.ConfigData) error {
	provider, err := config.NewSQLiteProvider(path)
	if err != nil {
		return err
	}
	defer provider.Close()

	if err := provider.InitSchema(); err != nil {
		return err
	}
	if err := provider.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Read it back so a broken round trip fails here rather than at startup
	if _, err := provider.LoadConfig(); err != nil {
		return fmt.Errorf("failed to verify saved configuration: %w", err)
	}
	return nil
}

func printConfigSummary(cfg *config.ConfigData) {
	fmt.Printf("\nConfiguration summary:\n")

	endpoint := cfg.OpenWeatherMap.APIEndpoint
	if endpoint == "" {
		endpoint = "(default)"
	}
	apiKey := "not set"
	if cfg.OpenWeatherMap.APIKey != "" {
		apiKey = "set"
	}
	fmt.Printf("  OpenWeatherMap: endpoint %s, API key %s\n", endpoint, apiKey)
	if cfg.OpenWeatherMap.Country != "" {
		fmt.Printf("    Country: %s\n", cfg.OpenWeatherMap.Country)
	}

	backend := cfg.Storage.Backend
	if backend == "" {
		backend = "(default)"
	}
	fmt.Printf("  Storage: %s\n", backend)
	switch cfg.Storage.Backend {
	case "sqlite":
		fmt.Printf("    Path: %s\n", cfg.Storage.SQLitePath)
	case "postgres":
		fmt.Printf("    DSN: configured\n")
	}

	if cfg.Favorites.Identity != "" {
		fmt.Printf("  Favorites identity: %s\n", cfg.Favorites.Identity)
	}

	fmt.Printf("  Controllers: %d\n", len(cfg.Controllers))
	for _, c := range cfg.Controllers {
		switch {
		case c.RESTServer != nil:
			fmt.Printf("    - %s (port %d)\n", c.Type, c.RESTServer.Port)
		case c.Notifier != nil:
			fmt.Printf("    - %s (timezone %s)\n", c.Type, c.Notifier.Timezone)
		default:
			fmt.Printf("    - %s\n", c.Type)
		}
	}
}
