package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wildcard-sim/internal/config"
	"github.com/yourusername/wildcard-sim/internal/datasource"
	"github.com/yourusername/wildcard-sim/internal/league"
	"github.com/yourusername/wildcard-sim/internal/logger"
	"github.com/yourusername/wildcard-sim/internal/models"
	"github.com/yourusername/wildcard-sim/internal/service"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type countingProvider struct {
	fetches atomic.Int64
}

func (p *countingProvider) FetchScoreboard(context.Context) ([]datasource.GameState, error) {
	p.fetches.Add(1)
	return []datasource.GameState{
		{EventID: "evt1", AwayTeam: "BUF", HomeTeam: "JAX", State: "pre", TimeRemainingSeconds: models.RegulationSeconds},
	}, nil
}

func (p *countingProvider) FetchPlayerStats(context.Context, string) (map[string]models.PlayerStats, error) {
	return map[string]models.PlayerStats{}, nil
}

func (p *countingProvider) Name() string { return "counting" }

type recordingBroadcaster struct {
	broadcasts atomic.Int64
}

func (b *recordingBroadcaster) Broadcast(interface{}) {
	b.broadcasts.Add(1)
}

func newTestScheduler(t *testing.T, hub Broadcaster) (*Scheduler, *countingProvider) {
	t.Helper()

	games := []*models.Game{
		{ID: "BUF @ JAX", AwayTeam: "BUF", HomeTeam: "JAX", Spread: 3.5, OverUnder: 44.5, TimeRemainingSeconds: models.RegulationSeconds},
	}
	lg, err := league.New(games, nil, quietLogger())
	require.NoError(t, err)

	sims, err := service.NewSimulationService(lg, config.SimulationConfig{
		Trials:    1000,
		BatchSize: 500,
		Seed:      7,
	}, nil, quietLogger())
	require.NoError(t, err)

	provider := &countingProvider{}
	refresher := service.NewRefresher(lg, provider, logger.NewRefreshLogger(quietLogger()))

	return New(refresher, sims, hub, quietLogger()), provider
}

func TestScheduleRefreshRejectsBadSchedule(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	err := s.ScheduleRefresh("not a cron spec", false)
	assert.Error(t, err)
}

func TestStartRequiresJobs(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	err := s.Start()
	assert.Error(t, err)
}

func TestSchedulerLifecycle(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	require.NoError(t, s.ScheduleRefresh("@every 1h", false))

	assert.False(t, s.IsRunning())
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.False(t, s.NextRun().IsZero())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop())
}

func TestScheduleWhileRunning(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	require.NoError(t, s.ScheduleRefresh("@every 1h", false))
	require.NoError(t, s.Start())
	defer func() { _ = s.Stop() }()

	err := s.ScheduleRefresh("@every 1m", false)
	assert.Error(t, err)
}

func TestRefreshJobBroadcasts(t *testing.T) {
	hub := &recordingBroadcaster{}
	s, provider := newTestScheduler(t, hub)

	require.NoError(t, s.ScheduleRefresh("@every 1s", true))
	require.NoError(t, s.Start())
	defer func() { _ = s.Stop() }()

	require.Eventually(t, func() bool { return hub.broadcasts.Load() >= 1 },
		5*time.Second, 50*time.Millisecond)
	assert.GreaterOrEqual(t, provider.fetches.Load(), int64(1))
}

func TestRefreshJobWithoutSimulate(t *testing.T) {
	hub := &recordingBroadcaster{}
	s, provider := newTestScheduler(t, hub)

	require.NoError(t, s.ScheduleRefresh("@every 1s", false))
	require.NoError(t, s.Start())
	defer func() { _ = s.Stop() }()

	require.Eventually(t, func() bool { return provider.fetches.Load() >= 1 },
		5*time.Second, 50*time.Millisecond)
	assert.Equal(t, int64(0), hub.broadcasts.Load())
}
