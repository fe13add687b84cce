package models

import (
	"time"

	"github.com/google/uuid"
)

// WinProbabilityPoint is one owner's standing from one recorded simulation
// run. A run writes one point per owner, all sharing the fingerprint of the
// league state it was simulated from.
type WinProbabilityPoint struct {
	ID             uuid.UUID `json:"id"`
	Fingerprint    string    `json:"fingerprint"`
	OwnerName      string    `json:"owner_name"`
	WinProbability float64   `json:"win_probability"`
	ExpectedPoints float64   `json:"expected_points"`
	PointsStdDev   float64   `json:"points_std_dev"`
	Trials         int       `json:"trials"`
	Seed           int64     `json:"seed"`
	RecordedAt     time.Time `json:"recorded_at"`
}
