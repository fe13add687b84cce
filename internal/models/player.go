package models

import (
	"fmt"
	"strings"
)

// Position is a player's on-field position.
type Position string

// Positions eligible for roster slots.
const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
)

// ParsePosition converts a position code to a Position. Codes like "RB1" from
// projection exports are accepted, the rank suffix is dropped.
func ParsePosition(s string) (Position, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	code = strings.TrimRight(code, "0123456789")
	switch p := Position(code); p {
	case PositionQB, PositionRB, PositionWR, PositionTE:
		return p, nil
	default:
		return "", fmt.Errorf("unknown position %q", s)
	}
}

// Slot identifies the roster slot a player fills.
type Slot string

// Roster slots. Flex accepts RB, WR or TE.
const (
	SlotQB   Slot = "QB"
	SlotRB   Slot = "RB"
	SlotWR   Slot = "WR"
	SlotTE   Slot = "TE"
	SlotFlex Slot = "FLEX"
)

// ParseSlot converts a slot code to a Slot.
func ParseSlot(s string) (Slot, error) {
	switch sl := Slot(strings.ToUpper(strings.TrimSpace(s))); sl {
	case SlotQB, SlotRB, SlotWR, SlotTE, SlotFlex:
		return sl, nil
	default:
		return "", fmt.Errorf("unknown slot %q", s)
	}
}

// Accepts reports whether the slot can hold the given position.
func (s Slot) Accepts(p Position) bool {
	switch s {
	case SlotFlex:
		return p == PositionRB || p == PositionWR || p == PositionTE
	default:
		return string(s) == string(p)
	}
}

// Projection is a full-game stat projection for one player. Rates derived from
// it (yards per attempt, touchdowns per attempt) drive the event-count
// simulation, so attempt columns should be non-zero whenever their yardage
// columns are.
type Projection struct {
	PassAttempts    float64 `json:"pass_attempts"`
	PassCompletions float64 `json:"pass_completions"`
	PassYards       float64 `json:"pass_yards"`
	PassTDs         float64 `json:"pass_tds"`
	Interceptions   float64 `json:"interceptions"`
	RushAttempts    float64 `json:"rush_attempts"`
	RushYards       float64 `json:"rush_yards"`
	RushTDs         float64 `json:"rush_tds"`
	Receptions      float64 `json:"receptions"`
	RecYards        float64 `json:"rec_yards"`
	RecTDs          float64 `json:"rec_tds"`
	FumblesLost     float64 `json:"fumbles_lost"`
}

// Scale returns the projection prorated to a fraction of the game.
func (p Projection) Scale(fraction float64) Projection {
	return Projection{
		PassAttempts:    p.PassAttempts * fraction,
		PassCompletions: p.PassCompletions * fraction,
		PassYards:       p.PassYards * fraction,
		PassTDs:         p.PassTDs * fraction,
		Interceptions:   p.Interceptions * fraction,
		RushAttempts:    p.RushAttempts * fraction,
		RushYards:       p.RushYards * fraction,
		RushTDs:         p.RushTDs * fraction,
		Receptions:      p.Receptions * fraction,
		RecYards:        p.RecYards * fraction,
		RecTDs:          p.RecTDs * fraction,
		FumblesLost:     p.FumblesLost * fraction,
	}
}

// YardsPerCompletion returns the projected passing yards per completion, zero
// when the projection has no completions.
func (p Projection) YardsPerCompletion() float64 {
	if p.PassCompletions <= 0 {
		return 0
	}
	return p.PassYards / p.PassCompletions
}

// YardsPerRush returns the projected yards per carry.
func (p Projection) YardsPerRush() float64 {
	if p.RushAttempts <= 0 {
		return 0
	}
	return p.RushYards / p.RushAttempts
}

// YardsPerReception returns the projected yards per catch.
func (p Projection) YardsPerReception() float64 {
	if p.Receptions <= 0 {
		return 0
	}
	return p.RecYards / p.Receptions
}

// IsZero reports whether the projection carries no volume at all.
func (p Projection) IsZero() bool {
	return p.PassAttempts == 0 && p.RushAttempts == 0 && p.Receptions == 0
}

// Stats views the projection as a stat line, for scoring projected points with
// the same rules that score observed stats.
func (p Projection) Stats() PlayerStats {
	return PlayerStats{
		PassYards:     p.PassYards,
		PassTDs:       p.PassTDs,
		Interceptions: p.Interceptions,
		RushYards:     p.RushYards,
		RushTDs:       p.RushTDs,
		Receptions:    p.Receptions,
		RecYards:      p.RecYards,
		RecTDs:        p.RecTDs,
		FumblesLost:   p.FumblesLost,
	}
}

// PlayerStats holds accumulated counting stats, either observed from a live
// feed or produced by one simulation trial.
type PlayerStats struct {
	PassYards     float64 `json:"pass_yards"`
	PassTDs       float64 `json:"pass_tds"`
	Interceptions float64 `json:"interceptions"`
	RushYards     float64 `json:"rush_yards"`
	RushTDs       float64 `json:"rush_tds"`
	Receptions    float64 `json:"receptions"`
	RecYards      float64 `json:"rec_yards"`
	RecTDs        float64 `json:"rec_tds"`
	FumblesLost   float64 `json:"fumbles_lost"`
}

// Add returns the element-wise sum of two stat lines.
func (s PlayerStats) Add(o PlayerStats) PlayerStats {
	return PlayerStats{
		PassYards:     s.PassYards + o.PassYards,
		PassTDs:       s.PassTDs + o.PassTDs,
		Interceptions: s.Interceptions + o.Interceptions,
		RushYards:     s.RushYards + o.RushYards,
		RushTDs:       s.RushTDs + o.RushTDs,
		Receptions:    s.Receptions + o.Receptions,
		RecYards:      s.RecYards + o.RecYards,
		RecTDs:        s.RecTDs + o.RecTDs,
		FumblesLost:   s.FumblesLost + o.FumblesLost,
	}
}

// Player represents one rostered player.
type Player struct {
	Name       string     `json:"name" validate:"required"`
	Team       string     `json:"team" validate:"required"`
	Position   Position   `json:"position" validate:"required,oneof=QB RB WR TE"`
	Slot       Slot       `json:"slot" validate:"required,oneof=QB RB WR TE FLEX"`
	Projection Projection `json:"projection"`
	// Current holds live counting stats supplied by the ingestion layer.
	// Zero-valued until the player's game kicks off.
	Current PlayerStats `json:"current"`
}
