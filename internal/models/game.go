package models

import (
	"fmt"
	"strings"
)

// Quarter markers and clock constants for a regulation NFL game.
const (
	QuarterNotStarted = 0
	QuarterFinal      = 5
	RegulationSeconds = 3600
	QuarterSeconds    = 900
)

// Game represents an NFL game with its pre-game betting lines and live state.
// The ID is the matchup string, e.g. "SF @ PHI". Spread is quoted from the away
// team's perspective: positive means the away side is favored.
type Game struct {
	ID                   string  `json:"id" validate:"required"`
	AwayTeam             string  `json:"away_team" validate:"required"`
	HomeTeam             string  `json:"home_team" validate:"required"`
	Spread               float64 `json:"spread"`
	OverUnder            float64 `json:"over_under" validate:"gte=0"`
	AwayScore            int     `json:"away_score" validate:"gte=0"`
	HomeScore            int     `json:"home_score" validate:"gte=0"`
	Quarter              int     `json:"quarter" validate:"gte=0,lte=5"`
	TimeRemainingSeconds int     `json:"time_remaining_seconds" validate:"gte=0,lte=3600"`
	StartTime            string  `json:"start_time,omitempty"`
}

// GameID builds the canonical matchup identifier for an away/home pair.
func GameID(away, home string) string {
	return fmt.Sprintf("%s @ %s", away, home)
}

// ParseGameID splits a matchup identifier into its away and home team codes.
func ParseGameID(id string) (away, home string, err error) {
	parts := strings.Split(id, "@")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidGameID, id)
	}
	away = strings.TrimSpace(parts[0])
	home = strings.TrimSpace(parts[1])
	if away == "" || home == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidGameID, id)
	}
	return away, home, nil
}

// IsFinal reports whether the game has finished.
func (g *Game) IsFinal() bool {
	return g.Quarter == QuarterFinal || (g.Quarter == 4 && g.TimeRemainingSeconds == 0)
}

// IsLive reports whether the game is in progress.
func (g *Game) IsLive() bool {
	return g.Quarter > QuarterNotStarted && !g.IsFinal()
}

// FractionRemaining returns the fraction of regulation time still to be played,
// in [0, 1]. A final game always reports 0 regardless of its stored clock.
func (g *Game) FractionRemaining() float64 {
	if g.IsFinal() {
		return 0
	}
	return float64(g.TimeRemainingSeconds) / float64(RegulationSeconds)
}

// TotalScore returns the current combined score.
func (g *Game) TotalScore() int {
	return g.AwayScore + g.HomeScore
}

// ExpectedScores derives expected final scores from the pre-game lines by
// solving {over_under = away + home, spread = away - home}.
func (g *Game) ExpectedScores() (awayExpected, homeExpected float64) {
	awayExpected = (g.OverUnder + g.Spread) / 2
	homeExpected = (g.OverUnder - g.Spread) / 2
	return awayExpected, homeExpected
}

// HasTeam reports whether the given team code plays in this game.
func (g *Game) HasTeam(team string) bool {
	return g.AwayTeam == team || g.HomeTeam == team
}

// GameUpdate carries a manual or ingested state change for one game.
type GameUpdate struct {
	GameID        string `json:"game_id" validate:"required"`
	AwayScore     int    `json:"away_score" validate:"gte=0"`
	HomeScore     int    `json:"home_score" validate:"gte=0"`
	Quarter       int    `json:"quarter" validate:"gte=0,lte=5"`
	TimeRemaining int    `json:"time_remaining" validate:"gte=0,lte=3600"`
	// Reset permits an otherwise-forbidden quarter regression, e.g. when an
	// upstream feed correction rolls a game back.
	Reset bool `json:"reset,omitempty"`
}

// ApplyUpdate mutates the game state after enforcing the session invariants:
// a final game is immutable and the quarter never decreases, unless the update
// explicitly requests a reset.
func (g *Game) ApplyUpdate(u GameUpdate) error {
	if !u.Reset {
		if g.IsFinal() {
			return fmt.Errorf("%w: %s", ErrGameFinal, g.ID)
		}
		if u.Quarter < g.Quarter {
			return fmt.Errorf("%w: %s quarter %d -> %d", ErrQuarterRegression, g.ID, g.Quarter, u.Quarter)
		}
	}
	g.AwayScore = u.AwayScore
	g.HomeScore = u.HomeScore
	g.Quarter = u.Quarter
	g.TimeRemainingSeconds = u.TimeRemaining
	return nil
}

// GameResult is a final or simulated final score. Simulated scores stay
// fractional: rounding them would re-introduce pushes the sampler never drew.
type GameResult struct {
	AwayPoints float64 `json:"away_points"`
	HomePoints float64 `json:"home_points"`
}

// Total returns the combined final score.
func (r GameResult) Total() float64 {
	return r.AwayPoints + r.HomePoints
}

// HomeMargin returns the home side's margin of victory (negative when the away
// side won).
func (r GameResult) HomeMargin() float64 {
	return r.HomePoints - r.AwayPoints
}

// MarginFor returns the margin from the given team's perspective.
func (r GameResult) MarginFor(team string, g *Game) (float64, error) {
	switch team {
	case g.AwayTeam:
		return r.AwayPoints - r.HomePoints, nil
	case g.HomeTeam:
		return r.HomePoints - r.AwayPoints, nil
	default:
		return 0, fmt.Errorf("%w: team %s not in game %s", ErrUnknownTeam, team, g.ID)
	}
}
