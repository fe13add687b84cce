package models

import (
	"time"

	"github.com/google/uuid"
)

// OwnerOutcome summarizes one owner across all simulation trials.
type OwnerOutcome struct {
	WinProbability float64 `json:"win_probability"`
	ExpectedPoints float64 `json:"expected_points"`
	PointsStdDev   float64 `json:"points_std_dev"`
	// Eligible is false for empty owners, who receive no win credit.
	Eligible bool `json:"eligible"`
}

// WagerOutcome summarizes one wager across all trials.
type WagerOutcome struct {
	WinProbability  float64 `json:"win_probability"`
	PushProbability float64 `json:"push_probability"`
	ExpectedPoints  float64 `json:"expected_points"`
}

// SimulationResult is the aggregate output of one simulation run. Owner maps
// are keyed by owner name, which the league loader guarantees unique.
type SimulationResult struct {
	Trials         int                          `json:"trials"`
	Seed           int64                        `json:"seed,omitempty"`
	Owners         map[string]OwnerOutcome      `json:"owners"`
	Wagers         map[uuid.UUID]WagerOutcome   `json:"wagers"`
	PlayerExpected map[string]float64           `json:"player_expected"`
	GameExpected   map[string]GameResult        `json:"game_expected"`
	Elapsed        time.Duration                `json:"elapsed"`
	GeneratedAt    time.Time                    `json:"generated_at"`
}

// WinProbabilities returns the owner-name to probability map, convenient for
// persistence and ranking.
func (r *SimulationResult) WinProbabilities() map[string]float64 {
	out := make(map[string]float64, len(r.Owners))
	for name, o := range r.Owners {
		out[name] = o.WinProbability
	}
	return out
}
