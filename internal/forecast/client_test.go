package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kfk18/ScubaInstructionAgent/internal/models"
	"github.com/kfk18/ScubaInstructionAgent/shared/config"
)

func testClient(marineURL, forecastURL string) *Client {
	return NewClient(&config.ForecastConfig{
		MarineURL:   marineURL,
		ForecastURL: forecastURL,
		Timezone:    "UTC",
	})
}

func hourlyTimes(date string, n int) []string {
	times := make([]string, n)
	for i := range times {
		times[i] = fmt.Sprintf("%sT%02d:00", date, i)
	}
	return times
}

func floats(n int, base float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = base + float64(i)
	}
	return values
}

func serveHourly(t *testing.T, hourly map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]any{"hourly": hourly}); err != nil {
			t.Errorf("Failed to encode response: %v", err)
		}
	}))
}

func TestFetchMergesFullDay(t *testing.T) {
	const date = "2024-07-15"

	codes := make([]int, 24)
	codes[12] = 61 // light rain at noon

	marine := serveHourly(t, map[string]any{
		"time":                 hourlyTimes(date, 24),
		"wave_height":          floats(24, 0.5),
		"wave_direction":       floats(24, 180),
		"wave_period":          floats(24, 6),
		"swell_wave_height":    floats(24, 0.3),
		"swell_wave_direction": floats(24, 170),
	})
	defer marine.Close()

	weather := serveHourly(t, map[string]any{
		"time":              hourlyTimes(date, 24),
		"temperature_2m":    floats(24, 24),
		"precipitation":     floats(24, 0),
		"weather_code":      codes,
		"wind_speed_10m":    floats(24, 10),
		"wind_direction_10m": floats(24, 90),
	})
	defer weather.Close()

	client := testClient(marine.URL, weather.URL)
	table, err := client.Fetch(context.Background(), 34.0, 139.0, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(table) != 24 {
		t.Fatalf("Expected 24 rows, got %d", len(table))
	}
	for i, row := range table {
		if row.Time.Hour() != i {
			t.Errorf("Row %d: expected hour %d, got %d", i, i, row.Time.Hour())
		}
		if i > 0 && !table[i-1].Time.Before(row.Time) {
			t.Errorf("Row %d: timestamps not strictly increasing", i)
		}
		if row.Time.Format("2006-01-02") != date {
			t.Errorf("Row %d: unexpected date %s", i, row.Time.Format("2006-01-02"))
		}
	}

	noon := table[12]
	if noon.Weather != "light rain" {
		t.Errorf("Expected light rain at noon, got %q", noon.Weather)
	}
	if noon.WaveHeight != 12.5 {
		t.Errorf("Unexpected noon wave height: %.2f", noon.WaveHeight)
	}
	if noon.Temperature != 36 {
		t.Errorf("Unexpected noon temperature: %.1f", noon.Temperature)
	}
	if table[0].Weather != "clear sky" {
		t.Errorf("Expected clear sky at midnight, got %q", table[0].Weather)
	}
}

func TestFetchRequestParameters(t *testing.T) {
	const date = "2024-07-15"
	var marineQuery, weatherQuery map[string]string

	record := func(dst *map[string]string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			q := map[string]string{}
			for key := range r.URL.Query() {
				q[key] = r.URL.Query().Get(key)
			}
			*dst = q
			json.NewEncoder(w).Encode(map[string]any{"hourly": map[string]any{"time": []string{}}})
		}
	}

	marine := httptest.NewServer(record(&marineQuery))
	defer marine.Close()
	weather := httptest.NewServer(record(&weatherQuery))
	defer weather.Close()

	client := testClient(marine.URL, weather.URL)
	if _, err := client.Fetch(context.Background(), 34.0, 139.0, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	for name, q := range map[string]map[string]string{"marine": marineQuery, "weather": weatherQuery} {
		if q["latitude"] != "34.0000" || q["longitude"] != "139.0000" {
			t.Errorf("%s: unexpected coordinates %s, %s", name, q["latitude"], q["longitude"])
		}
		if q["start_date"] != date || q["end_date"] != date {
			t.Errorf("%s: expected start and end date %s, got %s..%s", name, date, q["start_date"], q["end_date"])
		}
		if q["timezone"] != "UTC" {
			t.Errorf("%s: expected explicit timezone, got %q", name, q["timezone"])
		}
	}
	if marineQuery["hourly"] != marineFields {
		t.Errorf("Unexpected marine fields: %s", marineQuery["hourly"])
	}
	if weatherQuery["hourly"] != weatherFields {
		t.Errorf("Unexpected weather fields: %s", weatherQuery["hourly"])
	}
}

func TestFetchEmptyMarineAxis(t *testing.T) {
	marine := serveHourly(t, map[string]any{"time": []string{}})
	defer marine.Close()
	weather := serveHourly(t, map[string]any{
		"time":           hourlyTimes("2024-07-15", 24),
		"temperature_2m": floats(24, 24),
	})
	defer weather.Close()

	client := testClient(marine.URL, weather.URL)
	table, err := client.Fetch(context.Background(), 34.0, 139.0, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(table) != 0 {
		t.Errorf("Expected empty table, got %d rows", len(table))
	}
}

func TestFetchUndersizedArrays(t *testing.T) {
	const date = "2024-07-15"

	marine := serveHourly(t, map[string]any{
		"time":        hourlyTimes(date, 24),
		"wave_height": floats(12, 0.5), // half a day only
		// wave_period absent entirely, one null entry below
		"wave_direction": []any{nil, 180.0},
	})
	defer marine.Close()

	weather := serveHourly(t, map[string]any{
		"time":           hourlyTimes(date, 24),
		"temperature_2m": floats(6, 24),
		// weather_code absent
	})
	defer weather.Close()

	client := testClient(marine.URL, weather.URL)
	table, err := client.Fetch(context.Background(), 34.0, 139.0, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(table) != 24 {
		t.Fatalf("Expected 24 rows, got %d", len(table))
	}
	if !models.HasSample(table[11].WaveHeight) {
		t.Error("Row 11 wave height should be available")
	}
	if models.HasSample(table[12].WaveHeight) {
		t.Error("Row 12 wave height should be unavailable")
	}
	if models.HasSample(table[0].WavePeriod) {
		t.Error("Wave period should be unavailable when the array is absent")
	}
	if models.HasSample(table[0].WaveDirection) {
		t.Error("Null entry should become an unavailable sample")
	}
	if !models.HasSample(table[1].WaveDirection) {
		t.Error("Row 1 wave direction should be available")
	}
	if models.HasSample(table[23].Temperature) {
		t.Error("Row 23 temperature should be unavailable")
	}
	if table[0].WeatherCode != models.NoWeatherCode {
		t.Errorf("Expected missing weather code marker, got %d", table[0].WeatherCode)
	}
	if table[0].Weather == "" {
		t.Error("Weather label must never be empty")
	}
}

func TestFetchUpstreamFailures(t *testing.T) {
	ok := serveHourly(t, map[string]any{"time": hourlyTimes("2024-07-15", 2)})
	defer ok.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{not json")
	}))
	defer garbage.Close()

	tests := []struct {
		name         string
		marineURL    string
		forecastURL  string
		wantEndpoint string
	}{
		{"marine endpoint down", failing.URL, ok.URL, "marine"},
		{"forecast endpoint down", ok.URL, failing.URL, "forecast"},
		{"marine malformed payload", garbage.URL, ok.URL, "marine"},
		{"forecast malformed payload", ok.URL, garbage.URL, "forecast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(tt.marineURL, tt.forecastURL)
			_, err := client.Fetch(context.Background(), 34.0, 139.0, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC))
			if err == nil {
				t.Fatal("Expected fetch error")
			}

			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("Expected *FetchError, got %T: %v", err, err)
			}
			if fetchErr.Endpoint != tt.wantEndpoint {
				t.Errorf("Expected %s endpoint in error, got %s", tt.wantEndpoint, fetchErr.Endpoint)
			}
			if fetchErr.Unwrap() == nil {
				t.Error("FetchError should carry the underlying cause")
			}
		})
	}
}

func TestFetchBadTimestamp(t *testing.T) {
	marine := serveHourly(t, map[string]any{"time": []string{"yesterday-ish"}})
	defer marine.Close()
	weather := serveHourly(t, map[string]any{"time": []string{}})
	defer weather.Close()

	client := testClient(marine.URL, weather.URL)
	_, err := client.Fetch(context.Background(), 34.0, 139.0, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC))

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError for unparseable timestamp, got %v", err)
	}
}
