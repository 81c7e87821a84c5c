// weather-lookup fetches and classifies current conditions for one location
// from the command line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/chrissnell/myweather/internal/log"
	"github.com/chrissnell/myweather/internal/lookup"
	"github.com/chrissnell/myweather/internal/openweathermap"
	"github.com/chrissnell/myweather/pkg/config"
	"github.com/chrissnell/myweather/pkg/units"
	"github.com/joho/godotenv"
)

type cliSession struct {
	unit    units.System
	tracker lookup.Tracker
}

func (s *cliSession) Units() units.System      { return s.unit }
func (s *cliSession) Tracker() *lookup.Tracker { return &s.tracker }

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' or 'sqlite'")
	envFile := flag.String("env", ".env", "Path to an optional .env file")
	zip := flag.String("zip", "", "5-digit US zip code")
	lat := flag.String("lat", "", "Latitude")
	lon := flag.String("lon", "", "Longitude")
	unitFlag := flag.String("units", "imperial", "Unit system: imperial or metric")
	format := flag.String("format", "text", "Output format: text or json")
	timeout := flag.Duration("timeout", 10*time.Second, "Overall lookup timeout")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Error loading %s: %v", *envFile, err)
	}

	unit, err := units.ParseSystem(*unitFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	query, err := lookup.ParseQuery(*zip, *lat, *lon)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgFile, *cfgBackend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := openweathermap.NewClient(cfg.OpenWeatherMap, log.GetSugaredLogger())
	svc := lookup.NewService(client, nil, log.GetSugaredLogger())

	report, err := svc.Lookup(ctx, &cliSession{unit: unit}, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	default:
		err = printReport(os.Stdout, report)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printReport(w io.Writer, r *lookup.Report) error {
	obs := r.Observation
	p := r.Presentation

	name := obs.LocationName
	if obs.Country != "" {
		name += ", " + obs.Country
	}

	_, err := fmt.Fprintf(w, "%s\n"+
		"  %d%s  %s (feels like %d%s)\n"+
		"  Humidity %d%%  Wind %.1f %s  Pressure %d hPa\n"+
		"  Sunrise %s  Sunset %s\n"+
		"  Icon %s  Background %s (%s)\n"+
		"  Wear: %s\n",
		name,
		r.Temperature, r.TempSymbol, obs.Description, r.FeelsLike, r.TempSymbol,
		obs.Humidity, r.WindSpeed, r.SpeedLabel, obs.Pressure,
		orDash(r.Sunrise), orDash(r.Sunset),
		p.Icon, p.Background.Theme, p.Background.Color,
		p.Attire.Label)
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
