package simulation

import (
	"math"

	"github.com/yourusername/wildcard-sim/internal/models"
	"github.com/yourusername/wildcard-sim/internal/scoring"
)

// Default per-event yardage variance.
const (
	DefaultYardsPerCarryStd      = 5.0
	DefaultYardsPerReceptionStd  = 8.0
	DefaultYardsPerCompletionStd = 6.0
	// DefaultPaceWeight couples a player's volume to the simulated pace of
	// their game. 0 decouples them entirely, 1 tracks the game total exactly.
	DefaultPaceWeight = 0.5
)

// Pace factor clamp, so a single extreme game draw cannot explode a
// projection.
const (
	minPaceFactor = 0.25
	maxPaceFactor = 2.0
)

// PlayerSimulator draws remaining counting stats for one player in one trial.
// Discrete events come from Poisson draws of the prorated projection, yardage
// from normal draws conditioned on the event counts.
type PlayerSimulator struct {
	YardsPerCarryStd      float64
	YardsPerReceptionStd  float64
	YardsPerCompletionStd float64
	PaceWeight            float64
}

// NewPlayerSimulator returns a simulator with default variance calibration.
func NewPlayerSimulator() *PlayerSimulator {
	return &PlayerSimulator{
		YardsPerCarryStd:      DefaultYardsPerCarryStd,
		YardsPerReceptionStd:  DefaultYardsPerReceptionStd,
		YardsPerCompletionStd: DefaultYardsPerCompletionStd,
		PaceWeight:            DefaultPaceWeight,
	}
}

// SimulatePoints draws one trial's fantasy points for a player given the
// already-sampled outcome of their game. Locked-in points from elapsed time
// are always included; once the game is final the return is exactly the
// current stat line's value with no randomness. Live draws lean with the
// sampled game total, so players in a simulated shootout tend to score more.
func (s *PlayerSimulator) SimulatePoints(rng Rand, p *models.Player, g *models.Game, outcome models.GameResult) float64 {
	frac := g.FractionRemaining()
	if frac <= 0 {
		return scoring.PlayerPoints(p.Current, p.Position)
	}

	simRemaining := outcome.Total() - float64(g.TotalScore())
	expRemaining := g.OverUnder * math.Max(frac, DefaultMinEffectiveFraction)
	factor := paceFactor(simRemaining, expRemaining, s.PaceWeight)

	scaled := p.Projection.Scale(frac * factor)

	var remaining models.PlayerStats
	if p.Position == models.PositionQB {
		remaining = s.sampleQB(rng, scaled, p.Projection)
	} else {
		remaining = s.sampleSkill(rng, scaled, p.Projection)
	}

	return scoring.PlayerPoints(p.Current.Add(remaining), p.Position)
}

// sampleQB draws a quarterback's remaining line. Draw order is fixed so a
// seeded source reproduces the trial exactly.
func (s *PlayerSimulator) sampleQB(rng Rand, scaled, full models.Projection) models.PlayerStats {
	completions := SamplePoisson(rng, scaled.PassCompletions)
	passTDs := SamplePoisson(rng, scaled.PassTDs)
	ints := SamplePoisson(rng, scaled.Interceptions)
	rushAtt := SamplePoisson(rng, scaled.RushAttempts)
	rushTDs := SamplePoisson(rng, scaled.RushTDs)
	fumbles := SamplePoisson(rng, scaled.FumblesLost)

	passYds := sampleYardsGivenEvents(rng, completions, full.YardsPerCompletion(), s.YardsPerCompletionStd)
	rushYds := sampleYardsGivenEvents(rng, rushAtt, full.YardsPerRush(), s.YardsPerCarryStd)

	return models.PlayerStats{
		PassYards:     passYds,
		PassTDs:       float64(passTDs),
		Interceptions: float64(ints),
		RushYards:     rushYds,
		RushTDs:       float64(rushTDs),
		FumblesLost:   float64(fumbles),
	}
}

func (s *PlayerSimulator) sampleSkill(rng Rand, scaled, full models.Projection) models.PlayerStats {
	receptions := SamplePoisson(rng, scaled.Receptions)
	recTDs := SamplePoisson(rng, scaled.RecTDs)
	rushAtt := SamplePoisson(rng, scaled.RushAttempts)
	rushTDs := SamplePoisson(rng, scaled.RushTDs)
	fumbles := SamplePoisson(rng, scaled.FumblesLost)

	recYds := sampleYardsGivenEvents(rng, receptions, full.YardsPerReception(), s.YardsPerReceptionStd)
	rushYds := sampleYardsGivenEvents(rng, rushAtt, full.YardsPerRush(), s.YardsPerCarryStd)

	return models.PlayerStats{
		Receptions:  float64(receptions),
		RecYards:    recYds,
		RecTDs:      float64(recTDs),
		RushYards:   rushYds,
		RushTDs:     float64(rushTDs),
		FumblesLost: float64(fumbles),
	}
}

// paceFactor turns the ratio of sampled to expected remaining scoring into a
// damped multiplier on player volume.
func paceFactor(simRemaining, expRemaining, weight float64) float64 {
	if weight <= 0 || expRemaining <= 0 {
		return 1
	}
	pace := simRemaining / expRemaining
	factor := 1 + weight*(pace-1)
	if factor < minPaceFactor {
		return minPaceFactor
	}
	if factor > maxPaceFactor {
		return maxPaceFactor
	}
	return factor
}
