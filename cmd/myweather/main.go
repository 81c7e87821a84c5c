package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/chrissnell/myweather/internal/app"
	"github.com/chrissnell/myweather/internal/constants"
	"github.com/chrissnell/myweather/internal/log"
	"github.com/chrissnell/myweather/pkg/config"
	"github.com/joho/godotenv"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source:\n\t\t\t  YAML: config.yaml\n\t\t\t  SQLite: config.db\n\t\t\t  Use 'config-convert' tool to convert YAML→SQLite")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	envFile := flag.String("env", ".env", "Path to an optional .env file (OPENWEATHERMAP_API_KEY)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	logFile := flag.String("log-file", "", "Also write JSON logs to this file, rotated by size")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("myweather %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.InitWithOptions(log.Options{Debug: *debug, File: *logFile}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Error loading %s: %v", *envFile, err)
	}

	// Load configuration
	cfgData, err := config.Load(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Create and run the application
	application := app.New(cfgData, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}
