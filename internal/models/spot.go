package models

// Spot is a diving location from the spot registry.
type Spot struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}
