// Package logger provides live-refresh logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RefreshLogger provides dedicated logging for live score ingestion.
type RefreshLogger struct {
	*logrus.Entry
}

// NewRefreshLogger creates a new refresh logger.
func NewRefreshLogger(baseLogger *logrus.Logger) *RefreshLogger {
	return &RefreshLogger{
		Entry: baseLogger.WithField("component", "refresh"),
	}
}

// LogScoreboardFetch logs a completed provider scoreboard request.
func (rl *RefreshLogger) LogScoreboardFetch(provider string, games int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"provider":    provider,
		"games":       games,
		"duration_ms": durationMs,
	}).Info("Scoreboard fetched")
}

// LogGameUpdate logs a game state change applied from live data.
func (rl *RefreshLogger) LogGameUpdate(gameID string, quarter, clockSeconds, awayScore, homeScore int) {
	rl.WithFields(logrus.Fields{
		"game_id":       gameID,
		"quarter":       quarter,
		"clock_seconds": clockSeconds,
		"away_score":    awayScore,
		"home_score":    homeScore,
	}).Info("Game state updated")
}

// LogGameUpdateRejected logs a live update the state layer refused.
func (rl *RefreshLogger) LogGameUpdateRejected(gameID, reason string) {
	rl.WithFields(logrus.Fields{
		"game_id": gameID,
		"reason":  reason,
	}).Warn("Game update rejected")
}

// LogRefreshComplete logs a full refresh cycle.
func (rl *RefreshLogger) LogRefreshComplete(updated, unchanged, finals int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"updated":     updated,
		"unchanged":   unchanged,
		"finals":      finals,
		"duration_ms": durationMs,
	}).Info("Refresh cycle completed")
}

// LogProviderError logs a provider request failure.
func (rl *RefreshLogger) LogProviderError(provider string, err error) {
	rl.WithFields(logrus.Fields{
		"provider": provider,
		"error":    err.Error(),
	}).Error("Provider request failed")
}

// LogUnmatchedGame logs a provider game no league matchup references.
func (rl *RefreshLogger) LogUnmatchedGame(provider, matchup string) {
	rl.WithFields(logrus.Fields{
		"provider": provider,
		"matchup":  matchup,
	}).Debug("Provider game not in league")
}
