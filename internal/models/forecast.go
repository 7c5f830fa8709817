package models

import (
	"math"
	"time"
)

// NoWeatherCode marks an hour for which the atmospheric endpoint did not
// return a weather code.
const NoWeatherCode = -1

// ForecastRow is one hourly sample merged from the marine and atmospheric
// endpoints. A metric value may be unavailable when the upstream array was
// absent or shorter than the time axis; unavailable float samples hold the
// missing-sample marker and must be skipped by renderers.
type ForecastRow struct {
	Time           time.Time `json:"time"`
	Temperature    float64   `json:"temperature"`     // °C
	Precipitation  float64   `json:"precipitation"`   // mm
	WindSpeed      float64   `json:"wind_speed"`      // km/h
	WindDirection  float64   `json:"wind_direction"`  // degrees
	WeatherCode    int       `json:"weather_code"`    // WMO code, NoWeatherCode if absent
	Weather        string    `json:"weather"`         // label resolved from WeatherCode
	WaveHeight     float64   `json:"wave_height"`     // m
	WaveDirection  float64   `json:"wave_direction"`  // degrees
	WavePeriod     float64   `json:"wave_period"`     // s
	SwellHeight    float64   `json:"swell_height"`    // m
	SwellDirection float64   `json:"swell_direction"` // degrees
}

// ForecastTable is the merged hourly forecast for one spot and date,
// sorted by time ascending. It is empty when the marine endpoint returned
// no samples for the requested window.
type ForecastTable []ForecastRow

// MissingSample returns the marker stored for metric values the upstream
// endpoint did not provide.
func MissingSample() float64 { return math.NaN() }

// HasSample reports whether v holds a real metric value rather than the
// missing-sample marker.
func HasSample(v float64) bool { return !math.IsNaN(v) }
