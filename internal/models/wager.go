package models

import (
	"fmt"

	"github.com/google/uuid"
)

// WagerKind is the settlement rule a wager uses. The set is closed: settlement
// switches over it exhaustively and anything else is a load-time error.
type WagerKind string

// Supported wager kinds.
const (
	WagerSpread WagerKind = "spread"
	WagerOver   WagerKind = "over"
	WagerUnder  WagerKind = "under"
)

// Valid reports whether the kind is one of the supported settlement rules.
func (k WagerKind) Valid() bool {
	switch k {
	case WagerSpread, WagerOver, WagerUnder:
		return true
	}
	return false
}

// MinDraftRound and MaxDraftRound bound the wager draft, which sets how much
// tease each pick receives. Earlier picks get more.
const (
	MinDraftRound = 1
	MaxDraftRound = 8
)

// Tease points by draft round. Totals tease in whole points, spreads in half
// points, both shrinking to nothing for the last pick.
var (
	totalTeaseByRound  = [MaxDraftRound + 1]float64{0, 7, 6, 5, 4, 3, 2, 1, 0}
	spreadTeaseByRound = [MaxDraftRound + 1]float64{0, 3.5, 3, 2.5, 2, 1.5, 1, 0.5, 0}
)

// PayoffSchedule maps a settled wager outcome to fantasy points.
type PayoffSchedule struct {
	// BasePoints is awarded for any win.
	BasePoints float64 `json:"base_points"`
	// BonusPerPoint scales with the margin by which the adjusted line was
	// beaten.
	BonusPerPoint float64 `json:"bonus_per_point"`
	// MaxBonus caps the margin bonus.
	MaxBonus float64 `json:"max_bonus"`
	// PushValue is awarded when the result lands exactly on the adjusted line.
	PushValue float64 `json:"push_value"`
}

// DefaultPayoff returns the league's standard schedule for a wager kind.
// Unders pay double bonus because low-scoring margins come harder.
func DefaultPayoff(kind WagerKind) PayoffSchedule {
	s := PayoffSchedule{BasePoints: 10, BonusPerPoint: 1, MaxBonus: 10, PushValue: 0}
	if kind == WagerUnder {
		s.BonusPerPoint = 2
	}
	return s
}

// Wager is one drafted bet on a playoff game.
type Wager struct {
	ID     uuid.UUID `json:"id"`
	GameID string    `json:"game_id" validate:"required"`
	Kind   WagerKind `json:"kind" validate:"required,oneof=spread over under"`
	// Line is the drafted line before tease. For spreads it is quoted from
	// the wagered team's perspective, negative when that team is favored.
	Line float64 `json:"line"`
	// Team is the side a spread wager backs. Empty for totals.
	Team       string         `json:"team,omitempty"`
	DraftRound int            `json:"draft_round" validate:"gte=1,lte=8"`
	Payoff     PayoffSchedule `json:"payoff"`
}

// NewWager builds a wager with a fresh ID and the default payoff schedule.
func NewWager(gameID string, kind WagerKind, line float64, team string, round int) *Wager {
	return &Wager{
		ID:         uuid.New(),
		GameID:     gameID,
		Kind:       kind,
		Line:       line,
		Team:       team,
		DraftRound: round,
		Payoff:     DefaultPayoff(kind),
	}
}

// TeasePoints returns the line movement this wager earns from its draft round.
func (w *Wager) TeasePoints() float64 {
	if w.DraftRound < MinDraftRound || w.DraftRound > MaxDraftRound {
		return 0
	}
	if w.Kind == WagerSpread {
		return spreadTeaseByRound[w.DraftRound]
	}
	return totalTeaseByRound[w.DraftRound]
}

// AdjustedLine applies the tease in the bettor's favor: overs come down,
// unders and spreads move up.
func (w *Wager) AdjustedLine() float64 {
	tease := w.TeasePoints()
	switch w.Kind {
	case WagerOver:
		return w.Line - tease
	case WagerUnder:
		return w.Line + tease
	case WagerSpread:
		return w.Line + tease
	}
	return w.Line
}

// Describe renders the wager the way it reads on a draft board, with the
// teased line.
func (w *Wager) Describe() string {
	adj := w.AdjustedLine()
	switch w.Kind {
	case WagerOver:
		return fmt.Sprintf("%s OVER %.1f", w.GameID, adj)
	case WagerUnder:
		return fmt.Sprintf("%s UNDER %.1f", w.GameID, adj)
	case WagerSpread:
		if adj == 0 {
			return fmt.Sprintf("%s PK", w.Team)
		}
		return fmt.Sprintf("%s %+.1f", w.Team, adj)
	}
	return fmt.Sprintf("%s %s %.1f", w.GameID, w.Kind, w.Line)
}
