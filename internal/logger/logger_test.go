package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestSimLoggerRunStart(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimLogger(log)

	simLogger.LogRunStart(10000, 8, 1000, 42, 6, 10)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(10000), logEntry["trials"])
	assert.Equal(t, "simulation", logEntry["component"])
}

func TestSimLoggerRunComplete(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimLogger(log)

	simLogger.LogRunComplete(10000, 412.7, "Alice", 0.62)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Alice", logEntry["leader"])
	assert.Equal(t, 0.62, logEntry["leader_probability"])
}

func TestSimLoggerRunFailure(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimLogger(log)

	simLogger.LogRunFailure(10000, errors.New("unknown game reference"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "unknown game reference", logEntry["error"])
	assert.Equal(t, "error", logEntry["level"])
}

func TestSimLoggerCacheHit(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimLogger(log)

	simLogger.LogResultCacheHit("a1b2c3", 10000)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "a1b2c3", logEntry["fingerprint"])
}

func TestRefreshLoggerScoreboardFetch(t *testing.T) {
	log, buf := setupTestLogger()
	refreshLogger := NewRefreshLogger(log)

	refreshLogger.LogScoreboardFetch("espn", 6, 184.2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "espn", logEntry["provider"])
	assert.Equal(t, "refresh", logEntry["component"])
}

func TestRefreshLoggerGameUpdate(t *testing.T) {
	log, buf := setupTestLogger()
	refreshLogger := NewRefreshLogger(log)

	refreshLogger.LogGameUpdate("SF @ PHI", 3, 1152, 17, 14)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "SF @ PHI", logEntry["game_id"])
	assert.Equal(t, float64(3), logEntry["quarter"])
}

func TestRefreshLoggerUpdateRejected(t *testing.T) {
	log, buf := setupTestLogger()
	refreshLogger := NewRefreshLogger(log)

	refreshLogger.LogGameUpdateRejected("SF @ PHI", "game already final")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "game already final", logEntry["reason"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestRefreshLoggerProviderError(t *testing.T) {
	log, buf := setupTestLogger()
	refreshLogger := NewRefreshLogger(log)

	refreshLogger.LogProviderError("espn", errors.New("status 503"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "status 503", logEntry["error"])
}

func TestAuditLoggerManualGameUpdate(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogManualGameUpdate("GB @ CHI", 4, 220, 24, 21, false, "192.0.2.10")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "GB @ CHI", logEntry["game_id"])
	assert.Equal(t, false, logEntry["reset"])
	assert.Equal(t, "audit", logEntry["component"])
}

func TestAuditLoggerLeagueReload(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogLeagueReload("config/league.yaml", 10, 20, 30)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(10), logEntry["owners"])
	assert.Equal(t, "config/league.yaml", logEntry["path"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimLogger(log)

	simLogger.LogRunComplete(10000, 412.7, "Alice", 0.62)

	// Verify output is valid JSON
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("shouty", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	log := NewLogger("debug", "production")
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok, "production logger should use the JSON formatter")
}

func BenchmarkSimLoggerRunComplete(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	simLogger := NewSimLogger(log)

	for i := 0; i < b.N; i++ {
		simLogger.LogRunComplete(10000, 412.7, "Alice", 0.62)
	}
}

func BenchmarkRefreshLoggerGameUpdate(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	refreshLogger := NewRefreshLogger(log)

	for i := 0; i < b.N; i++ {
		refreshLogger.LogGameUpdate("SF @ PHI", 3, 1152, 17, 14)
	}
}
