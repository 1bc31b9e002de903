package models

import "time"

// GateConfig controls when the review gate lets the user leave
type GateConfig struct {
	// Minimum number of items to complete today before closing is allowed
	MinimumDaily int `json:"minimum_daily"`
	// Pause after a correct answer before the next item
	SuccessDelay time.Duration `json:"success_delay"`
	// Pause after an incorrect answer, long enough to read the feedback
	FailureDelay time.Duration `json:"failure_delay"`
	// Gate is off until this moment; zero means no opt-out
	DisabledUntil time.Time `json:"disabled_until"`
}

// DefaultGateConfig returns the default gate configuration
func DefaultGateConfig() GateConfig {
	return GateConfig{
		MinimumDaily: 10,
		SuccessDelay: 1 * time.Second,
		FailureDelay: 3 * time.Second,
	}
}

// Suppressed reports whether the opt-out window is active at now
func (c GateConfig) Suppressed(now time.Time) bool {
	return !c.DisabledUntil.IsZero() && now.Before(c.DisabledUntil)
}
