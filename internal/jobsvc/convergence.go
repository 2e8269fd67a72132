package jobsvc

import (
	"log/slog"
	"math"
)

// ConvergenceConfig controls early stopping of a running job based on
// the model's score history.
type ConvergenceConfig struct {
	// Enabled controls whether convergence detection is active.
	Enabled bool

	// Patience is the number of steps with no significant improvement
	// before stopping.
	Patience int

	// Threshold is the minimum relative improvement required to count
	// as progress. Example: 0.001 = 0.1% improvement required.
	Threshold float64
}

// DefaultConvergenceConfig returns sensible defaults for convergence
// detection.
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		Enabled:   true,
		Patience:  50,
		Threshold: 0.0005,
	}
}

// DisabledConvergenceConfig returns a config with convergence detection
// disabled; a job runs until its step budget is exhausted or cancelled.
func DisabledConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{Enabled: false}
}

// ConvergenceTracker watches a job's score history after each committed
// step and reports when further stepping is unlikely to help.
type ConvergenceTracker struct {
	config          ConvergenceConfig
	bestScore       float64
	lastSignificant float64
	staleCount      int
}

// NewConvergenceTracker creates a tracker with the given config.
func NewConvergenceTracker(config ConvergenceConfig) *ConvergenceTracker {
	return &ConvergenceTracker{
		config:          config,
		bestScore:       math.Inf(1),
		lastSignificant: math.Inf(1),
	}
}

// Update records a new score and returns true if convergence is detected.
func (c *ConvergenceTracker) Update(score float64) bool {
	if !c.config.Enabled {
		return false
	}

	if score < c.bestScore {
		c.bestScore = score
	}

	if math.IsInf(c.lastSignificant, 1) {
		c.lastSignificant = score
		return false
	}

	relativeImprovement := (c.lastSignificant - score) / c.lastSignificant
	if relativeImprovement >= c.config.Threshold {
		c.lastSignificant = score
		c.staleCount = 0
		return false
	}

	c.staleCount++
	if c.staleCount >= c.config.Patience {
		slog.Info("convergence detected, stopping early",
			"stale_count", c.staleCount, "patience", c.config.Patience, "best_score", c.bestScore)
		return true
	}
	return false
}

// BestScore returns the best score seen so far.
func (c *ConvergenceTracker) BestScore() float64 { return c.bestScore }

// StaleCount returns the current number of steps without significant
// improvement.
func (c *ConvergenceTracker) StaleCount() int { return c.staleCount }
