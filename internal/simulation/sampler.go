package simulation

import (
	"math"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// Default calibration for the normal score model. Historical NFL team scoring
// deviates by roughly 13-14 points per game.
const (
	DefaultTeamScoreStd = 13.5
	// DefaultMinStd keeps a touchdown-sized swing possible late in games.
	DefaultMinStd = 5.0
	// DefaultMinEffectiveFraction treats the last moments of a live game as if
	// at least five minutes remained, so variance never collapses before the
	// game actually ends.
	DefaultMinEffectiveFraction = 5.0 / 60.0
)

// ScoreModel draws one final score for a game. Implementations must be pure
// functions of (game state, random source): same seeded source, same draw.
// The distribution family is a tuning concern, so the engine accepts any
// implementation.
type ScoreModel interface {
	SampleGame(rng Rand, g *models.Game) models.GameResult
}

// NormalScoreModel samples remaining team scores from a normal distribution
// centered on the betting-line expectation prorated to the time left, with
// deviation shrinking as the square root of the remaining fraction.
type NormalScoreModel struct {
	TeamScoreStd         float64
	MinStd               float64
	MinEffectiveFraction float64
}

// NewNormalScoreModel returns the model with league-calibrated defaults.
func NewNormalScoreModel() *NormalScoreModel {
	return &NormalScoreModel{
		TeamScoreStd:         DefaultTeamScoreStd,
		MinStd:               DefaultMinStd,
		MinEffectiveFraction: DefaultMinEffectiveFraction,
	}
}

// SampleGame draws one final score. Final games return the actual score with
// zero variance. Live and pre-game states draw remaining production for the
// away side first, then the home side, and add it to the current score.
func (m *NormalScoreModel) SampleGame(rng Rand, g *models.Game) models.GameResult {
	if g.IsFinal() {
		return models.GameResult{
			AwayPoints: float64(g.AwayScore),
			HomePoints: float64(g.HomeScore),
		}
	}

	awayExp, homeExp := g.ExpectedScores()
	frac := math.Max(g.FractionRemaining(), m.MinEffectiveFraction)
	std := math.Max(m.MinStd, m.TeamScoreStd*math.Sqrt(frac))

	awayRemaining := math.Max(0, rng.NormFloat64()*std+awayExp*frac)
	homeRemaining := math.Max(0, rng.NormFloat64()*std+homeExp*frac)

	return models.GameResult{
		AwayPoints: float64(g.AwayScore) + awayRemaining,
		HomePoints: float64(g.HomeScore) + homeRemaining,
	}
}

// ExpectedRemainingTotal is the combined scoring still expected in a game
// under this model's effective-fraction floor. The player simulator uses it
// to judge whether a sampled outcome ran hot or cold.
func (m *NormalScoreModel) ExpectedRemainingTotal(g *models.Game) float64 {
	if g.IsFinal() {
		return 0
	}
	return g.OverUnder * math.Max(g.FractionRemaining(), m.MinEffectiveFraction)
}
