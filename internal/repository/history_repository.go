package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/wildcard-sim/internal/database"
	"github.com/yourusername/wildcard-sim/internal/models"
)

// PostgresHistoryRepository implements HistoryRepository for PostgreSQL
type PostgresHistoryRepository struct {
	db *database.DB
}

// NewPostgresHistoryRepository creates a new history repository
func NewPostgresHistoryRepository(db *database.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

// RecordResult writes one row per owner inside a single transaction, so a
// run's points either all land or none do. Owners are inserted in name order.
func (r *PostgresHistoryRepository) RecordResult(ctx context.Context, fingerprint string, result *models.SimulationResult) error {
	if len(result.Owners) == 0 {
		return nil
	}

	names := make([]string, 0, len(result.Owners))
	for name := range result.Owners {
		names = append(names, name)
	}
	sort.Strings(names)

	recordedAt := result.GeneratedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO win_probability_history
			(id, fingerprint, owner_name, win_probability, expected_points, points_stddev, trials, seed, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, name := range names {
			outcome := result.Owners[name]
			_, err := tx.Exec(ctx, query,
				uuid.New(), fingerprint, name,
				outcome.WinProbability, outcome.ExpectedPoints, outcome.PointsStdDev,
				result.Trials, result.Seed, recordedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to record result for %s: %w", name, err)
			}
		}
		return nil
	})
}

// GetOwnerHistory retrieves an owner's points within a time window
func (r *PostgresHistoryRepository) GetOwnerHistory(ctx context.Context, owner string, start, end time.Time) ([]*models.WinProbabilityPoint, error) {
	query := `
		SELECT id, fingerprint, owner_name, win_probability, expected_points, points_stddev, trials, seed, recorded_at
		FROM win_probability_history
		WHERE owner_name = $1 AND recorded_at >= $2 AND recorded_at <= $3
		ORDER BY recorded_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, owner, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query owner history: %w", err)
	}
	defer rows.Close()

	return scanPoints(rows)
}

// GetLatest retrieves the most recent point for every owner
func (r *PostgresHistoryRepository) GetLatest(ctx context.Context) ([]*models.WinProbabilityPoint, error) {
	query := `
		SELECT DISTINCT ON (owner_name)
			id, fingerprint, owner_name, win_probability, expected_points, points_stddev, trials, seed, recorded_at
		FROM win_probability_history
		ORDER BY owner_name, recorded_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest points: %w", err)
	}
	defer rows.Close()

	return scanPoints(rows)
}

// PruneBefore deletes points recorded before the cutoff
func (r *PostgresHistoryRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	commandTag, err := r.db.GetPool().Exec(ctx,
		"DELETE FROM win_probability_history WHERE recorded_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

func scanPoints(rows pgx.Rows) ([]*models.WinProbabilityPoint, error) {
	var points []*models.WinProbabilityPoint
	for rows.Next() {
		p := &models.WinProbabilityPoint{}
		err := rows.Scan(
			&p.ID, &p.Fingerprint, &p.OwnerName, &p.WinProbability,
			&p.ExpectedPoints, &p.PointsStdDev, &p.Trials, &p.Seed, &p.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
