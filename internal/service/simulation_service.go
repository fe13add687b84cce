package service

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wildcard-sim/internal/config"
	"github.com/yourusername/wildcard-sim/internal/league"
	"github.com/yourusername/wildcard-sim/internal/logger"
	"github.com/yourusername/wildcard-sim/internal/metrics"
	"github.com/yourusername/wildcard-sim/internal/models"
	"github.com/yourusername/wildcard-sim/internal/simulation"
)

// ResultRecorder persists simulation results for later charting. The
// repository package provides the Postgres implementation; a nil recorder
// disables history.
type ResultRecorder interface {
	RecordResult(ctx context.Context, fingerprint string, result *models.SimulationResult) error
}

// SimulationService runs Monte Carlo simulations over the current league
// state. Results are cached by state fingerprint and trial count, so polls
// between scoreboard changes cost one cache lookup instead of a run.
type SimulationService struct {
	league       *league.League
	baseCfg      simulation.Config
	cache        *cache.Cache
	cacheTTL     time.Duration
	recorder     ResultRecorder
	logger       *logger.SimLogger
	engineLogger *logrus.Logger
}

// NewSimulationService wires the service and validates the league's betting
// lines up front. A slate with an off-grid line never simulates.
func NewSimulationService(lg *league.League, cfg config.SimulationConfig, recorder ResultRecorder, baseLogger *logrus.Logger) (*SimulationService, error) {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}

	normalizer := NewLineNormalizer(baseLogger)
	if err := normalizer.ValidateLeague(lg.Games(), lg.Owners()); err != nil {
		return nil, fmt.Errorf("league validation: %w", err)
	}

	players := simulation.NewPlayerSimulator()
	players.PaceWeight = cfg.PaceWeight

	svc := &SimulationService{
		league: lg,
		baseCfg: simulation.Config{
			Trials:    cfg.Trials,
			Workers:   cfg.Workers,
			BatchSize: cfg.BatchSize,
			Seed:      cfg.Seed,
			Players:   players,
		},
		cacheTTL:     cfg.CacheTTL(),
		recorder:     recorder,
		logger:       logger.NewSimLogger(baseLogger),
		engineLogger: baseLogger,
	}
	if svc.cacheTTL > 0 {
		svc.cache = cache.New(svc.cacheTTL, svc.cacheTTL*2)
	}
	return svc, nil
}

// Simulate runs trials Monte Carlo trials over the current league state and
// returns the reduced result. trials <= 0 uses the configured default. A
// cached result for the same state fingerprint and trial count is returned
// as-is; results are immutable once built.
func (s *SimulationService) Simulate(ctx context.Context, trials int) (*models.SimulationResult, error) {
	if trials <= 0 {
		trials = s.baseCfg.Trials
	}

	fingerprint := s.league.Fingerprint()
	key := fmt.Sprintf("%s:%d", fingerprint, trials)
	if s.cache != nil {
		if hit, found := s.cache.Get(key); found {
			if result, ok := hit.(*models.SimulationResult); ok {
				s.logger.LogResultCacheHit(fingerprint, trials)
				metrics.RecordResultCacheHit()
				return result, nil
			}
		}
		s.logger.LogResultCacheMiss(fingerprint, "no result for current league state")
		metrics.RecordResultCacheMiss()
	}

	games := s.league.Games()
	owners := s.league.Owners()

	cfg := s.baseCfg
	cfg.Trials = trials
	engine := simulation.NewEngine(cfg, s.engineLogger)
	run := engine.Config()
	s.logger.LogRunStart(run.Trials, run.Workers, run.BatchSize, run.Seed, len(games), len(owners))

	start := time.Now()
	result, err := engine.Run(ctx, games, owners)
	if err != nil {
		s.logger.LogRunFailure(trials, err)
		metrics.RecordSimulationError()
		return nil, err
	}

	elapsed := msSince(start)
	leader, probability := leaderboard(result)
	s.logger.LogRunComplete(result.Trials, elapsed, leader, probability)
	metrics.RecordSimulation(result.Trials, elapsed/1000)
	for name, outcome := range result.Owners {
		metrics.UpdateOwnerWinProbability(name, outcome.WinProbability)
	}

	if s.cache != nil {
		s.cache.Set(key, result, s.cacheTTL)
	}
	if s.recorder != nil {
		if err := s.recorder.RecordResult(ctx, fingerprint, result); err != nil {
			s.logger.WithError(err).Warn("Result history write failed")
		}
	}
	return result, nil
}

// Snapshot simulates and renders the dashboard view: owner standings with
// win probabilities, the game slate, and per-player expected points.
func (s *SimulationService) Snapshot(ctx context.Context, trials int) (*simulation.Snapshot, error) {
	result, err := s.Simulate(ctx, trials)
	if err != nil {
		return nil, err
	}
	return simulation.BuildSnapshot(s.league.Games(), s.league.Owners(), result), nil
}

// DefaultTrials returns the configured per-run trial count.
func (s *SimulationService) DefaultTrials() int {
	return s.baseCfg.Trials
}

// leaderboard picks the owner with the best win probability, breaking ties by
// name so logs stay stable across runs.
func leaderboard(result *models.SimulationResult) (string, float64) {
	leader, best := "", -1.0
	for name, outcome := range result.Owners {
		if outcome.WinProbability > best ||
			(outcome.WinProbability == best && name < leader) {
			leader, best = name, outcome.WinProbability
		}
	}
	if best < 0 {
		return "", 0
	}
	return leader, best
}
