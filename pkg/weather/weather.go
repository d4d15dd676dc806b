// Package weather fetches current conditions for the overlay widgets: air
// temperature, relative humidity, UV index, and the daily sunrise/sunset
// instants the scheduler uses for daylight gating.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is an Open-Meteo-compatible forecast endpoint. No API key
// is required.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Observation is one fetched set of current conditions.
type Observation struct {
	TemperatureC float64   `json:"temperature_c"`
	Humidity     float64   `json:"humidity"`
	UVIndex      float64   `json:"uv_index"`
	Sunrise      time.Time `json:"sunrise"`
	Sunset       time.Time `json:"sunset"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// TemperatureF converts the observation to Fahrenheit.
func (o Observation) TemperatureF() float64 {
	return o.TemperatureC*9/5 + 32
}

// Client fetches observations from an Open-Meteo-style API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a weather client. Empty baseURL uses DefaultBaseURL; a
// nil httpClient gets a 15-second-timeout default.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// apiResponse mirrors the subset of the Open-Meteo payload we read.
type apiResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		UVIndex     float64 `json:"uv_index"`
	} `json:"current"`
	Daily struct {
		Sunrise []string `json:"sunrise"`
		Sunset  []string `json:"sunset"`
	} `json:"daily"`
}

// Fetch retrieves current conditions for the given coordinates.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*Observation, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", "temperature_2m,relative_humidity_2m,uv_index")
	q.Set("daily", "sunrise,sunset")
	q.Set("forecast_days", "1")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("weather: read response: %w", err)
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return nil, fmt.Errorf("weather: decode response: %w", err)
	}

	obs := &Observation{
		TemperatureC: api.Current.Temperature,
		Humidity:     api.Current.Humidity,
		UVIndex:      api.Current.UVIndex,
		FetchedAt:    time.Now(),
	}
	// Sunrise/sunset come back as local wall-clock strings without a zone.
	if len(api.Daily.Sunrise) > 0 {
		if t, err := time.ParseInLocation("2006-01-02T15:04", api.Daily.Sunrise[0], time.Local); err == nil {
			obs.Sunrise = t
		}
	}
	if len(api.Daily.Sunset) > 0 {
		if t, err := time.ParseInLocation("2006-01-02T15:04", api.Daily.Sunset[0], time.Local); err == nil {
			obs.Sunset = t
		}
	}
	return obs, nil
}
