// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for manual state changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogManualGameUpdate logs a game state change applied through the API.
func (al *AuditLogger) LogManualGameUpdate(gameID string, quarter, clockSeconds, awayScore, homeScore int, reset bool, source string) {
	al.WithFields(logrus.Fields{
		"game_id":       gameID,
		"quarter":       quarter,
		"clock_seconds": clockSeconds,
		"away_score":    awayScore,
		"home_score":    homeScore,
		"reset":         reset,
		"source":        source,
	}).Info("Manual game update recorded")
}

// LogManualUpdateRejected logs a manual update that failed validation.
func (al *AuditLogger) LogManualUpdateRejected(gameID, reason, source string) {
	al.WithFields(logrus.Fields{
		"game_id": gameID,
		"reason":  reason,
		"source":  source,
	}).Warn("Manual game update rejected")
}

// LogLeagueReload logs a league file reload.
func (al *AuditLogger) LogLeagueReload(path string, owners, players, wagers int) {
	al.WithFields(logrus.Fields{
		"path":    path,
		"owners":  owners,
		"players": players,
		"wagers":  wagers,
	}).Info("League configuration reloaded")
}
