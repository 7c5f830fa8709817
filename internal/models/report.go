package models

import "time"

// DiveReport is the outcome of one dashboard query. The forecast and the
// marine life branches run independently, so either side may carry an
// error message while the other holds data.
type DiveReport struct {
	Spot        Spot          `json:"spot"`
	Date        time.Time     `json:"date"`
	Table       ForecastTable `json:"table"`
	ForecastErr string        `json:"forecast_err,omitempty"`
	BioSummary  string        `json:"bio_summary"`
	GeneratedAt time.Time     `json:"generated_at"`
}
