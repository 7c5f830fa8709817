package dashboard

import (
	"sync"

	"github.com/kfk18/ScubaInstructionAgent/internal/models"
)

// State holds the result of the most recent query. A new query always
// overwrites it wholesale; there is no per-spot or per-date cache.
type State struct {
	mu     sync.RWMutex
	report *models.DiveReport
}

func NewState() *State {
	return &State{}
}

func (s *State) Set(report *models.DiveReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = report
}

// Get returns the last report, or nil when no query has run yet.
func (s *State) Get() *models.DiveReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Healthy reports whether the last query retrieved forecast data. No
// queries yet counts as healthy.
func (s *State) Healthy() bool {
	report := s.Get()
	return report == nil || report.ForecastErr == ""
}
