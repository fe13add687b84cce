package simulation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wildcard-sim/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// testGame builds a pre-game state from a matchup string.
func testGame(id string, spread, overUnder float64) *models.Game {
	away, home, err := models.ParseGameID(id)
	if err != nil {
		panic(err)
	}
	return &models.Game{
		ID: id, AwayTeam: away, HomeTeam: home,
		Spread: spread, OverUnder: overUnder,
		Quarter: 0, TimeRemainingSeconds: models.RegulationSeconds,
	}
}

func finalGame(id string, spread, overUnder float64, awayScore, homeScore int) *models.Game {
	g := testGame(id, spread, overUnder)
	g.AwayScore = awayScore
	g.HomeScore = homeScore
	g.Quarter = models.QuarterFinal
	g.TimeRemainingSeconds = 0
	return g
}

func rbPlayer(name, team string, rushYards float64) models.Player {
	return models.Player{
		Name: name, Team: team, Position: models.PositionRB, Slot: models.SlotRB,
		Projection: models.Projection{RushAttempts: rushYards / 4.5, RushYards: rushYards, RushTDs: 0.5},
	}
}

// fixedModel returns the same outcome for every game in every trial.
type fixedModel struct {
	result models.GameResult
}

func (m fixedModel) SampleGame(rng Rand, g *models.Game) models.GameResult {
	return m.result
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(Config{}, nil)
	cfg := e.Config()
	if cfg.Trials != DefaultTrials {
		t.Fatalf("expected default trials, got %d", cfg.Trials)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Fatalf("expected default batch size, got %d", cfg.BatchSize)
	}
	if cfg.Workers < 1 {
		t.Fatalf("expected at least one worker, got %d", cfg.Workers)
	}
	if cfg.Model == nil || cfg.Players == nil {
		t.Fatalf("expected model and player simulator defaults")
	}
}

func TestRunProbabilitiesSumToOne(t *testing.T) {
	games := []*models.Game{
		testGame("SF @ PHI", -4.5, 44.5),
		testGame("GB @ CHI", 1.5, 45.5),
	}

	alice := models.NewOwner("Alice", "#e6194b")
	alice.Players = append(alice.Players, rbPlayer("Christian McCaffrey", "SF", 95))
	alice.Wagers = append(alice.Wagers, models.NewWager("SF @ PHI", models.WagerOver, 44.5, "", 3))

	bob := models.NewOwner("Bob", "#3cb44b")
	bob.Players = append(bob.Players, rbPlayer("Josh Jacobs", "GB", 85))
	bob.Wagers = append(bob.Wagers, models.NewWager("GB @ CHI", models.WagerSpread, -1.5, "GB", 5))

	carol := models.NewOwner("Carol", "#ffe119")
	carol.Players = append(carol.Players, rbPlayer("Saquon Barkley", "PHI", 105))

	engine := NewEngine(Config{Trials: 2000, Seed: 12345}, testLogger())
	result, err := engine.Run(context.Background(), games, []*models.Owner{alice, bob, carol})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	sum := 0.0
	for name, outcome := range result.Owners {
		if outcome.WinProbability < 0 || outcome.WinProbability > 1 {
			t.Fatalf("owner %s probability %v out of range", name, outcome.WinProbability)
		}
		sum += outcome.WinProbability
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities sum to %v, want 1", sum)
	}
}

func TestRunCompletedGameIsDeterministic(t *testing.T) {
	games := []*models.Game{finalGame("SF @ PHI", -4.5, 44.5, 27, 24)}

	leader := models.NewOwner("Leader", "")
	leader.Players = append(leader.Players, models.Player{
		Name: "Christian McCaffrey", Team: "SF", Position: models.PositionRB, Slot: models.SlotRB,
		Current: models.PlayerStats{RushYards: 150},
	})
	trailer := models.NewOwner("Trailer", "")
	trailer.Players = append(trailer.Players, models.Player{
		Name: "Saquon Barkley", Team: "PHI", Position: models.PositionRB, Slot: models.SlotRB,
		Current: models.PlayerStats{RushYards: 80},
	})

	engine := NewEngine(Config{Trials: 500, Seed: 1}, testLogger())
	result, err := engine.Run(context.Background(), games, []*models.Owner{leader, trailer})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	lead := result.Owners["Leader"]
	trail := result.Owners["Trailer"]
	if lead.WinProbability != 1.0 {
		t.Fatalf("leader probability %v, want exactly 1", lead.WinProbability)
	}
	if trail.WinProbability != 0.0 {
		t.Fatalf("trailer probability %v, want exactly 0", trail.WinProbability)
	}
	if math.Abs(lead.ExpectedPoints-15) > 1e-9 {
		t.Fatalf("leader expected points %v, want 15", lead.ExpectedPoints)
	}
	if lead.PointsStdDev != 0 || trail.PointsStdDev != 0 {
		t.Fatalf("completed game should have zero variance, got %v and %v", lead.PointsStdDev, trail.PointsStdDev)
	}
}

func TestRunSeededIdempotence(t *testing.T) {
	buildLeague := func() ([]*models.Game, []*models.Owner) {
		games := []*models.Game{
			testGame("SF @ PHI", -4.5, 44.5),
			testGame("HOU @ PIT", 3, 39.5),
		}
		a := models.NewOwner("Alice", "")
		a.Players = append(a.Players, rbPlayer("Christian McCaffrey", "SF", 95))
		a.Wagers = append(a.Wagers, models.NewWager("HOU @ PIT", models.WagerUnder, 39.5, "", 2))
		b := models.NewOwner("Bob", "")
		b.Players = append(b.Players, rbPlayer("Joe Mixon", "HOU", 90))
		return games, []*models.Owner{a, b}
	}

	games, owners := buildLeague()

	first := NewEngine(Config{Trials: 3000, Seed: 777, Workers: 1}, testLogger())
	second := NewEngine(Config{Trials: 3000, Seed: 777, Workers: 4}, testLogger())

	r1, err := first.Run(context.Background(), games, owners)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	r2, err := second.Run(context.Background(), games, owners)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	for name, o1 := range r1.Owners {
		o2 := r2.Owners[name]
		if o1.WinProbability != o2.WinProbability {
			t.Fatalf("owner %s probability differs: %v vs %v", name, o1.WinProbability, o2.WinProbability)
		}
		if o1.ExpectedPoints != o2.ExpectedPoints {
			t.Fatalf("owner %s expected points differ: %v vs %v", name, o1.ExpectedPoints, o2.ExpectedPoints)
		}
		if o1.PointsStdDev != o2.PointsStdDev {
			t.Fatalf("owner %s stddev differs: %v vs %v", name, o1.PointsStdDev, o2.PointsStdDev)
		}
	}
	for id, w1 := range r1.Wagers {
		w2 := r2.Wagers[id]
		if w1 != w2 {
			t.Fatalf("wager %s outcome differs: %+v vs %+v", id, w1, w2)
		}
	}
	for name, p1 := range r1.PlayerExpected {
		if p2 := r2.PlayerExpected[name]; p1 != p2 {
			t.Fatalf("player %s expectation differs: %v vs %v", name, p1, p2)
		}
	}
}

func TestRunTeaseMonotonicity(t *testing.T) {
	games := []*models.Game{testGame("SF @ PHI", -4.5, 47)}

	owner := models.NewOwner("Alice", "")
	straight := models.NewWager("SF @ PHI", models.WagerOver, 47.5, "", 8)
	teased := models.NewWager("SF @ PHI", models.WagerOver, 47.5, "", 1)
	owner.Wagers = append(owner.Wagers, straight, teased)

	engine := NewEngine(Config{Trials: 3000, Seed: 99}, testLogger())
	result, err := engine.Run(context.Background(), games, []*models.Owner{owner})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ps := result.Wagers[straight.ID].WinProbability
	pt := result.Wagers[teased.ID].WinProbability
	if pt < ps {
		t.Fatalf("teased probability %v below straight %v", pt, ps)
	}
	if pt <= ps {
		t.Fatalf("a seven point tease should strictly help: teased %v vs straight %v", pt, ps)
	}
}

func TestRunProjectionMonotonicity(t *testing.T) {
	run := func(aliceRushYards float64) float64 {
		games := []*models.Game{testGame("SF @ PHI", -4.5, 44.5)}
		a := models.NewOwner("Alice", "")
		a.Players = append(a.Players, rbPlayer("Christian McCaffrey", "SF", aliceRushYards))
		b := models.NewOwner("Bob", "")
		b.Players = append(b.Players, rbPlayer("Saquon Barkley", "PHI", 100))

		engine := NewEngine(Config{Trials: 4000, Seed: 55}, testLogger())
		result, err := engine.Run(context.Background(), games, []*models.Owner{a, b})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return result.Owners["Alice"].WinProbability
	}

	low := run(60)
	high := run(160)
	if high < low {
		t.Fatalf("raising a projection lowered win probability: %v -> %v", low, high)
	}
}

func TestRunPickEmSpreadNearCoinFlip(t *testing.T) {
	games := []*models.Game{testGame("GB @ CHI", 0, 44)}

	owner := models.NewOwner("Alice", "")
	wager := models.NewWager("GB @ CHI", models.WagerSpread, 0, "GB", 8)
	owner.Wagers = append(owner.Wagers, wager)

	engine := NewEngine(Config{Trials: 10000, Seed: 42}, testLogger())
	result, err := engine.Run(context.Background(), games, []*models.Owner{owner})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	p := result.Wagers[wager.ID].WinProbability
	if math.Abs(p-0.5) > 0.025 {
		t.Fatalf("pick-em cover probability %v, want about 0.5", p)
	}
}

func TestRunPushReturnsConfiguredValue(t *testing.T) {
	games := []*models.Game{testGame("SF @ PHI", -4.5, 44)}

	owner := models.NewOwner("Alice", "")
	wager := models.NewWager("SF @ PHI", models.WagerOver, 44, "", 8)
	wager.Payoff.PushValue = 5
	owner.Wagers = append(owner.Wagers, wager)

	// Every trial lands exactly on the line.
	engine := NewEngine(Config{
		Trials: 1000, Seed: 7,
		Model: fixedModel{result: models.GameResult{AwayPoints: 22, HomePoints: 22}},
	}, testLogger())
	result, err := engine.Run(context.Background(), games, []*models.Owner{owner})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	outcome := result.Wagers[wager.ID]
	if outcome.PushProbability != 1.0 {
		t.Fatalf("push probability %v, want 1", outcome.PushProbability)
	}
	if outcome.WinProbability != 0.0 {
		t.Fatalf("win probability %v, want 0", outcome.WinProbability)
	}
	if math.Abs(outcome.ExpectedPoints-5) > 1e-9 {
		t.Fatalf("expected points %v, want configured push value 5", outcome.ExpectedPoints)
	}

	o := result.Owners["Alice"]
	if math.Abs(o.ExpectedPoints-5) > 1e-9 || o.PointsStdDev != 0 {
		t.Fatalf("owner outcome %+v, want exactly 5 points with zero variance", o)
	}
}

func TestRunMissingReferencesFailTheRun(t *testing.T) {
	games := []*models.Game{testGame("SF @ PHI", -4.5, 44.5)}
	engine := NewEngine(Config{Trials: 100, Seed: 1}, testLogger())

	t.Run("Wager on unknown game", func(t *testing.T) {
		o := models.NewOwner("Alice", "")
		o.Wagers = append(o.Wagers, models.NewWager("DAL @ NYG", models.WagerOver, 44, "", 8))
		_, err := engine.Run(context.Background(), games, []*models.Owner{o})
		if !errors.Is(err, models.ErrUnknownGame) {
			t.Fatalf("expected ErrUnknownGame, got %v", err)
		}
	})

	t.Run("Player on unknown team", func(t *testing.T) {
		o := models.NewOwner("Alice", "")
		o.Players = append(o.Players, rbPlayer("Tony Pollard", "DAL", 80))
		_, err := engine.Run(context.Background(), games, []*models.Owner{o})
		if !errors.Is(err, models.ErrGameNotFound) {
			t.Fatalf("expected ErrGameNotFound, got %v", err)
		}
	})

	t.Run("Spread wager on team outside its game", func(t *testing.T) {
		o := models.NewOwner("Alice", "")
		o.Wagers = append(o.Wagers, models.NewWager("SF @ PHI", models.WagerSpread, -3, "DAL", 8))
		_, err := engine.Run(context.Background(), games, []*models.Owner{o})
		if !errors.Is(err, models.ErrUnknownTeam) {
			t.Fatalf("expected ErrUnknownTeam, got %v", err)
		}
	})

	t.Run("Unsupported wager kind", func(t *testing.T) {
		o := models.NewOwner("Alice", "")
		w := models.NewWager("SF @ PHI", models.WagerKind("moneyline"), -110, "", 8)
		o.Wagers = append(o.Wagers, w)
		_, err := engine.Run(context.Background(), games, []*models.Owner{o})
		if !errors.Is(err, models.ErrInvalidWagerKind) {
			t.Fatalf("expected ErrInvalidWagerKind, got %v", err)
		}
	})

	t.Run("Duplicate owner names", func(t *testing.T) {
		a := models.NewOwner("Alice", "")
		b := models.NewOwner("Alice", "")
		_, err := engine.Run(context.Background(), games, []*models.Owner{a, b})
		if !errors.Is(err, models.ErrDuplicateOwner) {
			t.Fatalf("expected ErrDuplicateOwner, got %v", err)
		}
	})
}

func TestRunDegenerateInputs(t *testing.T) {
	engine := NewEngine(Config{Trials: 200, Seed: 3}, testLogger())

	t.Run("Zero owners", func(t *testing.T) {
		games := []*models.Game{testGame("SF @ PHI", -4.5, 44.5)}
		result, err := engine.Run(context.Background(), games, nil)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(result.Owners) != 0 {
			t.Fatalf("expected empty owner map, got %d entries", len(result.Owners))
		}
	})

	t.Run("Empty owner is ineligible", func(t *testing.T) {
		games := []*models.Game{testGame("SF @ PHI", -4.5, 44.5)}
		empty := models.NewOwner("Empty", "")
		full := models.NewOwner("Full", "")
		full.Players = append(full.Players, rbPlayer("Christian McCaffrey", "SF", 95))

		result, err := engine.Run(context.Background(), games, []*models.Owner{empty, full})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		e := result.Owners["Empty"]
		if e.Eligible {
			t.Fatalf("empty owner should be ineligible")
		}
		if e.WinProbability != 0 || e.ExpectedPoints != 0 {
			t.Fatalf("empty owner outcome %+v, want zeros", e)
		}
		if got := result.Owners["Full"].WinProbability; got != 1.0 {
			t.Fatalf("only eligible owner should win every trial, got %v", got)
		}
	})

	t.Run("All owners empty", func(t *testing.T) {
		result, err := engine.Run(context.Background(), nil, []*models.Owner{models.NewOwner("A", ""), models.NewOwner("B", "")})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		for name, o := range result.Owners {
			if o.WinProbability != 0 {
				t.Fatalf("owner %s probability %v, want 0", name, o.WinProbability)
			}
		}
	})
}

func TestRunContextCancelled(t *testing.T) {
	games := []*models.Game{testGame("SF @ PHI", -4.5, 44.5)}
	o := models.NewOwner("Alice", "")
	o.Players = append(o.Players, rbPlayer("Christian McCaffrey", "SF", 95))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(Config{Trials: 100000, Seed: 5}, testLogger())
	_, err := engine.Run(ctx, games, []*models.Owner{o})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
