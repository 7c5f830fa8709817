package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/kfk18/ScubaInstructionAgent/internal/models"
	"github.com/kfk18/ScubaInstructionAgent/shared/config"
)

// FetchError reports that the hourly forecast could not be retrieved or
// decoded from one of the upstream endpoints.
type FetchError struct {
	Endpoint string // "marine" or "forecast"
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s endpoint: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches hourly marine and atmospheric conditions from the
// Open-Meteo API and merges them into a single table.
type Client struct {
	config *config.ForecastConfig
	client *http.Client
}

func NewClient(cfg *config.ForecastConfig) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

const (
	marineFields  = "wave_height,wave_direction,wave_period,swell_wave_height,swell_wave_direction"
	weatherFields = "temperature_2m,precipitation,weather_code,wind_speed_10m,wind_direction_10m"
)

// marineResponse mirrors the marine endpoint payload. Metric arrays use
// pointers because the API returns null for hours without data.
type marineResponse struct {
	Hourly struct {
		Time           []string   `json:"time"`
		WaveHeight     []*float64 `json:"wave_height"`
		WaveDirection  []*float64 `json:"wave_direction"`
		WavePeriod     []*float64 `json:"wave_period"`
		SwellHeight    []*float64 `json:"swell_wave_height"`
		SwellDirection []*float64 `json:"swell_wave_direction"`
	} `json:"hourly"`
}

// weatherResponse mirrors the forecast endpoint payload.
type weatherResponse struct {
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature   []*float64 `json:"temperature_2m"`
		Precipitation []*float64 `json:"precipitation"`
		WeatherCode   []*int     `json:"weather_code"`
		WindSpeed     []*float64 `json:"wind_speed_10m"`
		WindDirection []*float64 `json:"wind_direction_10m"`
	} `json:"hourly"`
}

// Fetch retrieves the hourly forecast for a single calendar day. The
// returned table takes its time axis from the marine endpoint; an hour
// missing from any metric array becomes an unavailable sample rather than
// an error. A failure of either endpoint fails the whole fetch.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, day time.Time) (models.ForecastTable, error) {
	loc, err := time.LoadLocation(c.config.Timezone)
	if err != nil {
		log.Printf("Warning: failed to load timezone %s, using UTC: %v", c.config.Timezone, err)
		loc = time.UTC
	}
	date := day.Format("2006-01-02")

	var marine marineResponse
	if err := c.get(ctx, c.config.MarineURL, lat, lon, date, marineFields, &marine); err != nil {
		return nil, &FetchError{Endpoint: "marine", Err: err}
	}

	var weather weatherResponse
	if err := c.get(ctx, c.config.ForecastURL, lat, lon, date, weatherFields, &weather); err != nil {
		return nil, &FetchError{Endpoint: "forecast", Err: err}
	}

	table := make(models.ForecastTable, 0, len(marine.Hourly.Time))
	for i, ts := range marine.Hourly.Time {
		t, err := time.ParseInLocation("2006-01-02T15:04", ts, loc)
		if err != nil {
			return nil, &FetchError{Endpoint: "marine", Err: fmt.Errorf("failed to parse hourly time %q: %w", ts, err)}
		}

		code := codeSample(weather.Hourly.WeatherCode, i)
		table = append(table, models.ForecastRow{
			Time:           t,
			Temperature:    sample(weather.Hourly.Temperature, i),
			Precipitation:  sample(weather.Hourly.Precipitation, i),
			WindSpeed:      sample(weather.Hourly.WindSpeed, i),
			WindDirection:  sample(weather.Hourly.WindDirection, i),
			WeatherCode:    code,
			Weather:        CodeLabel(code),
			WaveHeight:     sample(marine.Hourly.WaveHeight, i),
			WaveDirection:  sample(marine.Hourly.WaveDirection, i),
			WavePeriod:     sample(marine.Hourly.WavePeriod, i),
			SwellHeight:    sample(marine.Hourly.SwellHeight, i),
			SwellDirection: sample(marine.Hourly.SwellDirection, i),
		})
	}

	return table, nil
}

func (c *Client) get(ctx context.Context, base string, lat, lon float64, date, fields string, out any) error {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("start_date", date)
	params.Set("end_date", date)
	params.Set("hourly", fields)
	params.Set("timezone", c.config.Timezone)
	endpoint := base + "?" + params.Encode()

	log.Printf("Fetching forecast data from: %s", endpoint)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create forecast request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch forecast data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("forecast API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode forecast response: %w", err)
	}

	return nil
}

// sample returns the i-th value of a metric array, or the missing-sample
// marker when the array is shorter than the time axis or the entry is null.
func sample(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return models.MissingSample()
	}
	return *values[i]
}

func codeSample(codes []*int, i int) int {
	if i >= len(codes) || codes[i] == nil {
		return models.NoWeatherCode
	}
	return *codes[i]
}
