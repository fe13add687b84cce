// Package repository persists simulation output to PostgreSQL. The only store
// is the win-probability history, which the charting frontend reads.
package repository

import (
	"context"
	"time"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// HistoryRepository defines the interface for win-probability history access
type HistoryRepository interface {
	// RecordResult writes one point per owner for a finished simulation run.
	RecordResult(ctx context.Context, fingerprint string, result *models.SimulationResult) error
	// GetOwnerHistory returns an owner's points in a time window, oldest first.
	GetOwnerHistory(ctx context.Context, owner string, start, end time.Time) ([]*models.WinProbabilityPoint, error)
	// GetLatest returns the most recent point for every owner.
	GetLatest(ctx context.Context) ([]*models.WinProbabilityPoint, error)
	// PruneBefore deletes points recorded before the cutoff and reports how
	// many rows went.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
