// Package openweathermap fetches current conditions from the OpenWeatherMap
// "current weather" API.
package openweathermap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/myweather/internal/constants"
	"github.com/chrissnell/myweather/internal/types"
	"github.com/chrissnell/myweather/pkg/config"
	"github.com/chrissnell/myweather/pkg/units"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	currentWeatherPath = "/data/2.5/weather"

	defaultNotFoundMessage = "Location not found"
	networkFailedMessage   = "Network failed"
)

// UpstreamError is a failed lookup: either the API answered with a non-200
// code or it could not be reached at all.
type UpstreamError struct {
	Code    int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Client talks to the OpenWeatherMap API.
type Client struct {
	apiKey     string
	endpoint   string
	country    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger
	now        func() time.Time
}

// NewClient creates a client from the openweathermap config section.
func NewClient(cfg config.OpenWeatherMapData, logger *zap.SugaredLogger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultTimeoutSeconds * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = config.DefaultRequestsPerSecond
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = config.DefaultBurst
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = config.DefaultAPIEndpoint
	}
	country := cfg.Country
	if country == "" {
		country = config.DefaultCountry
	}

	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   strings.TrimRight(endpoint, "/"),
		country:    country,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger,
		now:        time.Now,
	}
}

// response mirrors the subset of the API payload we use.
type response struct {
	Cod     flexibleCode `json:"cod"`
	Message string       `json:"message"`
	Name    string       `json:"name"`
	Coord   *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

// flexibleCode accepts cod as a number (200) or a string ("404"); the API
// uses both.
type flexibleCode int

func (c *flexibleCode) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid cod %s: %w", b, err)
	}
	*c = flexibleCode(n)
	return nil
}

// RequestURL builds the request URL for query.
func (c *Client) RequestURL(query types.LocationQuery, unit units.System) (string, error) {
	params := url.Values{}
	params.Set("units", unit.String())
	params.Set("appid", c.apiKey)

	switch {
	case query.ByZip():
		country := query.Country
		if country == "" {
			country = c.country
		}
		params.Set("zip", query.Zip+","+country)
	case query.ByCoordinates():
		params.Set("lat", strconv.FormatFloat(*query.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(*query.Lon, 'f', -1, 64))
	default:
		return "", fmt.Errorf("location query needs a zip code or coordinates")
	}

	return c.endpoint + currentWeatherPath + "?" + params.Encode(), nil
}

// FetchObservation fetches current conditions for query in the given unit
// system. Failures are returned as *UpstreamError and never retried.
func (c *Client) FetchObservation(ctx context.Context, query types.LocationQuery, unit units.System) (*types.Observation, error) {
	reqURL, err := c.RequestURL(query, unit)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Message: networkFailedMessage, Err: fmt.Errorf("rate limit wait canceled: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", constants.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debugf("fetching current conditions for %s (%s)", query, unit)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: networkFailedMessage, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Message: networkFailedMessage, Err: err}
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &UpstreamError{Code: resp.StatusCode, Message: defaultNotFoundMessage}
		}
		return nil, &UpstreamError{Code: resp.StatusCode, Message: "Malformed response", Err: err}
	}

	code := int(r.Cod)
	if code == 0 {
		code = resp.StatusCode
	}
	if code != http.StatusOK {
		msg := r.Message
		if msg == "" {
			msg = defaultNotFoundMessage
		}
		c.logger.Debugf("OpenWeatherMap returned %d for %s: %s", code, query, msg)
		return nil, &UpstreamError{Code: code, Message: msg}
	}

	obs := &types.Observation{
		LocationName: r.Name,
		Country:      r.Sys.Country,
		Temperature:  r.Main.Temp,
		FeelsLike:    r.Main.FeelsLike,
		Humidity:     r.Main.Humidity,
		Pressure:     r.Main.Pressure,
		WindSpeed:    r.Wind.Speed,
		Sunrise:      r.Sys.Sunrise,
		Sunset:       r.Sys.Sunset,
		TZOffset:     r.Timezone,
		Units:        unit,
		FetchedAt:    c.now(),
	}
	if len(r.Weather) > 0 {
		obs.IconCode = r.Weather[0].Icon
		obs.ConditionMain = r.Weather[0].Main
		obs.Description = r.Weather[0].Description
	}
	if r.Coord != nil {
		obs.Latitude, obs.Longitude, obs.HasCoords = r.Coord.Lat, r.Coord.Lon, true
	} else if query.ByCoordinates() {
		obs.Latitude, obs.Longitude, obs.HasCoords = *query.Lat, *query.Lon, true
	}

	return obs, nil
}
