// Package logger provides simulation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SimLogger provides dedicated logging for Monte Carlo runs.
type SimLogger struct {
	*logrus.Entry
}

// NewSimLogger creates a new simulation logger.
func NewSimLogger(baseLogger *logrus.Logger) *SimLogger {
	return &SimLogger{
		Entry: baseLogger.WithField("component", "simulation"),
	}
}

// LogRunStart logs the shape of a simulation run before the first trial.
func (sl *SimLogger) LogRunStart(trials, workers, batchSize int, seed int64, games, owners int) {
	sl.WithFields(logrus.Fields{
		"trials":     trials,
		"workers":    workers,
		"batch_size": batchSize,
		"seed":       seed,
		"games":      games,
		"owners":     owners,
	}).Info("Simulation run started")
}

// LogRunComplete logs a finished run with the current leader.
func (sl *SimLogger) LogRunComplete(trials int, durationMs float64, leader string, leaderProbability float64) {
	sl.WithFields(logrus.Fields{
		"trials":             trials,
		"duration_ms":        durationMs,
		"leader":             leader,
		"leader_probability": leaderProbability,
	}).Info("Simulation run completed")
}

// LogRunFailure logs a run that aborted before producing a result.
func (sl *SimLogger) LogRunFailure(trials int, err error) {
	sl.WithFields(logrus.Fields{
		"trials": trials,
		"error":  err.Error(),
	}).Error("Simulation run failed")
}

// LogResultCacheHit logs a simulation served from the result cache.
func (sl *SimLogger) LogResultCacheHit(fingerprint string, trials int) {
	sl.WithFields(logrus.Fields{
		"fingerprint": fingerprint,
		"trials":      trials,
	}).Debug("Simulation served from cache")
}

// LogResultCacheMiss logs a fingerprint that forced a fresh run.
func (sl *SimLogger) LogResultCacheMiss(fingerprint string, reason string) {
	sl.WithFields(logrus.Fields{
		"fingerprint": fingerprint,
		"reason":      reason,
	}).Debug("Simulation cache miss")
}
