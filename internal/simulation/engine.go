package simulation

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wildcard-sim/internal/models"
	"github.com/yourusername/wildcard-sim/internal/scoring"
)

// Config configures a simulation run.
type Config struct {
	// Trials is the number of Monte Carlo trials. Defaults to 10000.
	Trials int
	// Workers caps the worker goroutines. Defaults to the CPU count.
	Workers int
	// BatchSize is the number of trials per worker batch. Each batch owns a
	// random stream derived from Seed and the batch index, so results for a
	// given seed do not depend on the worker count.
	BatchSize int
	// Seed fixes the run. 0 draws a seed from the clock.
	Seed int64
	// Model samples game outcomes. Defaults to NewNormalScoreModel.
	Model ScoreModel
	// Players samples player stat lines. Defaults to NewPlayerSimulator.
	Players *PlayerSimulator
}

// Defaults for Config.
const (
	DefaultTrials    = 10000
	DefaultBatchSize = 1000
)

// Engine runs N independent trials and reduces them to win probabilities,
// expected points and per-wager odds. One Engine is safe for concurrent Run
// calls; runs share no mutable state.
type Engine struct {
	cfg    Config
	logger *logrus.Logger
}

// NewEngine creates an engine, filling config defaults.
func NewEngine(cfg Config, logger *logrus.Logger) *Engine {
	if cfg.Trials <= 0 {
		cfg.Trials = DefaultTrials
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Model == nil {
		cfg.Model = NewNormalScoreModel()
	}
	if cfg.Players == nil {
		cfg.Players = NewPlayerSimulator()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Config returns the engine configuration after defaulting.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run executes the configured number of trials over the given games and
// owners. The result is all-or-nothing: any validation failure or non-finite
// sample aborts the whole run.
func (e *Engine) Run(ctx context.Context, games []*models.Game, owners []*models.Owner) (*models.SimulationResult, error) {
	start := time.Now()

	plan, err := buildPlan(games, owners)
	if err != nil {
		return nil, err
	}

	seed := e.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	numBatches := (e.cfg.Trials + e.cfg.BatchSize - 1) / e.cfg.BatchSize
	workers := e.cfg.Workers
	if workers > numBatches {
		workers = numBatches
	}

	e.logger.WithFields(logrus.Fields{
		"trials":  e.cfg.Trials,
		"workers": workers,
		"games":   len(plan.games),
		"owners":  len(plan.owners),
		"wagers":  len(plan.wagers),
		"seed":    seed,
	}).Debug("Starting simulation run")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	partials := make([]*accumulator, numBatches)
	batchCh := make(chan int)
	errCh := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range batchCh {
				trials := e.cfg.BatchSize
				if b == numBatches-1 {
					trials = e.cfg.Trials - b*e.cfg.BatchSize
				}
				rng := NewRand(seed + int64(b))
				acc, err := e.runBatch(runCtx, rng, plan, trials)
				if err != nil {
					errCh <- err
					cancel()
					return
				}
				partials[b] = acc
			}
		}()
	}

feed:
	for b := 0; b < numBatches; b++ {
		select {
		case batchCh <- b:
		case <-runCtx.Done():
			break feed
		}
	}
	close(batchCh)
	wg.Wait()

	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Merging in batch order keeps floating-point accumulation identical for
	// a given seed regardless of how many workers ran.
	total := newAccumulator(plan)
	for b, p := range partials {
		if p == nil {
			return nil, fmt.Errorf("batch %d produced no result", b)
		}
		total.merge(p)
	}

	result := e.buildResult(plan, total, seed, time.Since(start))

	e.logger.WithFields(logrus.Fields{
		"trials":  result.Trials,
		"elapsed": result.Elapsed,
	}).Debug("Simulation run complete")

	return result, nil
}

func (e *Engine) runBatch(ctx context.Context, rng Rand, plan *runPlan, trials int) (*accumulator, error) {
	acc := newAccumulator(plan)
	outcomes := make([]models.GameResult, len(plan.games))
	totals := make([]float64, len(plan.owners))

	for t := 0; t < trials; t++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// One draw per distinct game per trial. Every player and wager that
		// references a game reads the same draw, which is what couples
		// teammates and same-game wagers.
		for gi, g := range plan.games {
			out := e.cfg.Model.SampleGame(rng, g)
			if !finite(out.AwayPoints) || !finite(out.HomePoints) {
				return nil, fmt.Errorf("%w: game %s", models.ErrNonFiniteSample, g.ID)
			}
			outcomes[gi] = out
			acc.gameAway[gi] += out.AwayPoints
			acc.gameHome[gi] += out.HomePoints
		}

		for i := range totals {
			totals[i] = 0
		}

		for pi := range plan.players {
			pp := &plan.players[pi]
			pts := e.cfg.Players.SimulatePoints(rng, pp.player, plan.games[pp.gameIdx], outcomes[pp.gameIdx])
			if !finite(pts) {
				return nil, fmt.Errorf("%w: player %s", models.ErrNonFiniteSample, pp.player.Name)
			}
			totals[pp.ownerIdx] += pts
			acc.playerSum[pi] += pts
		}

		for wi := range plan.wagers {
			pw := &plan.wagers[wi]
			pts, outcome, err := scoring.SettleWager(pw.wager, plan.games[pw.gameIdx], outcomes[pw.gameIdx])
			if err != nil {
				return nil, err
			}
			totals[pw.ownerIdx] += pts
			acc.wagerSum[wi] += pts
			switch outcome {
			case scoring.OutcomeWon:
				acc.wagerWins[wi]++
			case scoring.OutcomePush:
				acc.wagerPush[wi]++
			}
		}

		// Winner takes one credit, split evenly on ties so probabilities
		// still sum to one.
		best := math.Inf(-1)
		ties := 0
		for i, total := range totals {
			if !plan.eligible[i] {
				continue
			}
			switch {
			case total > best:
				best = total
				ties = 1
			case total == best:
				ties++
			}
		}
		if ties > 0 {
			credit := 1 / float64(ties)
			for i, total := range totals {
				if plan.eligible[i] && total == best {
					acc.winCredit[i] += credit
				}
			}
		}

		for i, total := range totals {
			acc.totalSum[i] += total
			acc.totalSumSq[i] += total * total
		}
		acc.trials++
	}

	return acc, nil
}

func (e *Engine) buildResult(plan *runPlan, acc *accumulator, seed int64, elapsed time.Duration) *models.SimulationResult {
	n := float64(acc.trials)
	result := &models.SimulationResult{
		Trials:         acc.trials,
		Seed:           seed,
		Owners:         make(map[string]models.OwnerOutcome, len(plan.owners)),
		Wagers:         make(map[uuid.UUID]models.WagerOutcome, len(plan.wagers)),
		PlayerExpected: make(map[string]float64, len(plan.players)),
		GameExpected:   make(map[string]models.GameResult, len(plan.games)),
		Elapsed:        elapsed,
		GeneratedAt:    time.Now().UTC(),
	}

	for i, o := range plan.owners {
		mean := acc.totalSum[i] / n
		variance := acc.totalSumSq[i]/n - mean*mean
		if variance < 0 {
			variance = 0
		}
		result.Owners[o.Name] = models.OwnerOutcome{
			WinProbability: acc.winCredit[i] / n,
			ExpectedPoints: mean,
			PointsStdDev:   math.Sqrt(variance),
			Eligible:       plan.eligible[i],
		}
	}

	for wi := range plan.wagers {
		pw := &plan.wagers[wi]
		result.Wagers[pw.wager.ID] = models.WagerOutcome{
			WinProbability:  float64(acc.wagerWins[wi]) / n,
			PushProbability: float64(acc.wagerPush[wi]) / n,
			ExpectedPoints:  acc.wagerSum[wi] / n,
		}
	}

	for pi := range plan.players {
		pp := &plan.players[pi]
		result.PlayerExpected[pp.player.Name] = acc.playerSum[pi] / n
	}

	for gi, g := range plan.games {
		result.GameExpected[g.ID] = models.GameResult{
			AwayPoints: acc.gameAway[gi] / n,
			HomePoints: acc.gameHome[gi] / n,
		}
	}

	return result
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
