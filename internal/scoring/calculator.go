// Package scoring implements the league's fantasy point rules for players and
// wagers. All functions are pure so the simulation engine can call them from
// concurrent workers.
package scoring

import (
	"fmt"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// QB scoring constants.
const (
	QBPassYardsPerPoint = 25.0
	QBPassTDPoints      = 4.0
	QBRushYardsPerPoint = 20.0
	QBRushTDPoints      = 6.0
	TurnoverPoints      = -2.0
)

// Skill position scoring constants.
const (
	SkillYardsPerPoint = 10.0
	SkillTDPoints      = 6.0
	PPRPoints          = 0.5
)

// QBPoints scores a quarterback stat line: 1 pt per 25 passing yards, 4 per
// passing TD, 1 per 20 rushing yards, 6 per rushing TD, -2 per turnover.
func QBPoints(s models.PlayerStats) float64 {
	return s.PassYards/QBPassYardsPerPoint +
		s.PassTDs*QBPassTDPoints +
		s.RushYards/QBRushYardsPerPoint +
		s.RushTDs*QBRushTDPoints +
		(s.Interceptions+s.FumblesLost)*TurnoverPoints
}

// SkillPoints scores an RB/WR/TE stat line: half-point PPR, 1 pt per 10
// combined yards, 6 per TD, -2 per fumble lost.
func SkillPoints(s models.PlayerStats) float64 {
	return (s.RushYards+s.RecYards)/SkillYardsPerPoint +
		(s.RushTDs+s.RecTDs)*SkillTDPoints +
		s.Receptions*PPRPoints +
		s.FumblesLost*TurnoverPoints
}

// PlayerPoints scores a stat line under the rules for the given position.
func PlayerPoints(s models.PlayerStats, pos models.Position) float64 {
	if pos == models.PositionQB {
		return QBPoints(s)
	}
	return SkillPoints(s)
}

// ProjectedPoints scores a player's full-game projection.
func ProjectedPoints(p *models.Player) float64 {
	return PlayerPoints(p.Projection.Stats(), p.Position)
}

// Outcome classifies a settled wager.
type Outcome int

// Wager outcomes.
const (
	OutcomeLost Outcome = iota
	OutcomePush
	OutcomeWon
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomePush:
		return "push"
	default:
		return "lost"
	}
}

// SettleWager scores one wager against a game result. The margin bonus grows
// with the distance past the teased line, capped by the payoff schedule:
//
//	GB -4 after tease, final GB 32 JAX 20: covers by 8, pays 10 + 8 = 18.
//
// A result exactly on the adjusted line is a push worth PushValue.
func SettleWager(w *models.Wager, g *models.Game, r models.GameResult) (float64, Outcome, error) {
	margin, err := CoverMargin(w, g, r)
	if err != nil {
		return 0, OutcomeLost, err
	}
	switch {
	case margin > 0:
		bonus := margin * w.Payoff.BonusPerPoint
		if bonus > w.Payoff.MaxBonus {
			bonus = w.Payoff.MaxBonus
		}
		return w.Payoff.BasePoints + bonus, OutcomeWon, nil
	case margin == 0:
		return w.Payoff.PushValue, OutcomePush, nil
	default:
		return 0, OutcomeLost, nil
	}
}

// CoverMargin returns how far the result landed past the adjusted line, in
// the bettor's favor when positive. Zero is a push. Callers also use it with
// an in-progress score to label a wager winning or losing before settlement.
func CoverMargin(w *models.Wager, g *models.Game, r models.GameResult) (float64, error) {
	adj := w.AdjustedLine()
	switch w.Kind {
	case models.WagerOver:
		return r.Total() - adj, nil
	case models.WagerUnder:
		return adj - r.Total(), nil
	case models.WagerSpread:
		m, err := r.MarginFor(w.Team, g)
		if err != nil {
			return 0, err
		}
		return m + adj, nil
	default:
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidWagerKind, w.Kind)
	}
}
