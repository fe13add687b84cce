package simulation

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/wildcard-sim/internal/models"
	"github.com/yourusername/wildcard-sim/internal/scoring"
)

// Snapshot is the pre-shaped payload the display layer consumes: one document
// with every owner's standing and every game's state, no further math needed
// client-side.
type Snapshot struct {
	Owners      []OwnerView `json:"owners"`
	Games       []GameView  `json:"games"`
	Simulations int         `json:"n_simulations"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// OwnerView is one owner's scoreboard row with roster and wager detail.
type OwnerView struct {
	Name             string       `json:"name"`
	Color            string       `json:"color"`
	WinProbability   float64      `json:"win_probability"`
	CurrentPts       float64      `json:"current_pts"`
	ProjectedPts     float64      `json:"projected_pts"`
	MinutesRemaining int          `json:"minutes_remaining"`
	Players          []PlayerView `json:"players"`
	PlayerCurrent    float64      `json:"player_current_total"`
	PlayerProjected  float64      `json:"player_projected_total"`
	Bets             []WagerView  `json:"bets"`
}

// PlayerView is one roster line.
type PlayerView struct {
	Slot         string  `json:"slot"`
	Name         string  `json:"name"`
	Team         string  `json:"team"`
	CurrentPts   float64 `json:"current_pts"`
	ProjectedPts float64 `json:"projected_pts"`
}

// WagerView is one wager line. Status is pending before kickoff,
// winning/losing/push while live, and won/lost/push once final.
type WagerView struct {
	Description  string  `json:"description"`
	Probability  float64 `json:"probability"`
	Status       string  `json:"status"`
	CurrentPts   float64 `json:"current_pts"`
	ProjectedPts float64 `json:"projected_pts"`
}

// GameView is one scoreboard game row.
type GameView struct {
	Matchup     string  `json:"matchup"`
	AwayTeam    string  `json:"away_team"`
	HomeTeam    string  `json:"home_team"`
	AwayScore   int     `json:"away_score"`
	HomeScore   int     `json:"home_score"`
	Status      string  `json:"status"`
	StatusClass string  `json:"status_class"`
	Spread      string  `json:"spread"`
	OverUnder   float64 `json:"over_under"`
}

const defaultOwnerColor = "#cccccc"

// BuildSnapshot shapes a simulation result and the league state into the
// display document. Owners come back sorted by win probability, ties broken
// by name so the order is stable.
func BuildSnapshot(games []*models.Game, owners []*models.Owner, result *models.SimulationResult) *Snapshot {
	byTeam := make(map[string]*models.Game, 2*len(games))
	byID := make(map[string]*models.Game, len(games))
	for _, g := range games {
		byTeam[g.AwayTeam] = g
		byTeam[g.HomeTeam] = g
		byID[g.ID] = g
	}

	snap := &Snapshot{
		Owners:      make([]OwnerView, 0, len(owners)),
		Games:       make([]GameView, 0, len(games)),
		Simulations: result.Trials,
		GeneratedAt: result.GeneratedAt,
	}

	for _, o := range owners {
		snap.Owners = append(snap.Owners, buildOwnerView(o, byTeam, byID, result))
	}
	sort.SliceStable(snap.Owners, func(i, j int) bool {
		if snap.Owners[i].WinProbability != snap.Owners[j].WinProbability {
			return snap.Owners[i].WinProbability > snap.Owners[j].WinProbability
		}
		return snap.Owners[i].Name < snap.Owners[j].Name
	})

	for _, g := range games {
		snap.Games = append(snap.Games, buildGameView(g))
	}

	return snap
}

func buildOwnerView(o *models.Owner, byTeam, byID map[string]*models.Game, result *models.SimulationResult) OwnerView {
	view := OwnerView{
		Name:    o.Name,
		Color:   o.Color,
		Players: make([]PlayerView, 0, len(o.Players)),
		Bets:    make([]WagerView, 0, len(o.Wagers)),
	}
	if view.Color == "" {
		view.Color = defaultOwnerColor
	}

	var playerCurrent, playerProjected float64
	minutes := 0

	for i := range o.Players {
		p := &o.Players[i]
		g := byTeam[p.Team]

		projected, ok := result.PlayerExpected[p.Name]
		if !ok {
			projected = scoring.ProjectedPoints(p)
		}
		current := playerCurrentPoints(p, g)
		if g != nil && !g.IsFinal() {
			minutes += g.TimeRemainingSeconds / 60
		}

		playerCurrent += current
		playerProjected += projected
		view.Players = append(view.Players, PlayerView{
			Slot:         string(p.Slot),
			Name:         p.Name,
			Team:         p.Team,
			CurrentPts:   round1(current),
			ProjectedPts: round1(projected),
		})
	}

	var betCurrent float64
	for _, w := range o.Wagers {
		wv := buildWagerView(w, byID[w.GameID], result)
		betCurrent += wv.CurrentPts
		view.Bets = append(view.Bets, wv)
	}

	outcome := result.Owners[o.Name]
	view.WinProbability = round3(outcome.WinProbability)
	view.CurrentPts = round1(playerCurrent + betCurrent)
	view.ProjectedPts = round1(outcome.ExpectedPoints)
	view.MinutesRemaining = minutes
	view.PlayerCurrent = round1(playerCurrent)
	view.PlayerProjected = round1(playerProjected)
	return view
}

// playerCurrentPoints scores the live stat line when one has been ingested.
// Without one, a started game falls back to prorating the projection over
// elapsed time, which keeps the scoreboard moving on schedule-only data.
func playerCurrentPoints(p *models.Player, g *models.Game) float64 {
	if g == nil {
		return 0
	}
	if pts := scoring.PlayerPoints(p.Current, p.Position); pts != 0 {
		return pts
	}
	if g.Quarter > models.QuarterNotStarted || g.IsFinal() {
		return scoring.ProjectedPoints(p) * (1 - g.FractionRemaining())
	}
	return 0
}

func buildWagerView(w *models.Wager, g *models.Game, result *models.SimulationResult) WagerView {
	view := WagerView{
		Description: wagerDescription(w),
		Status:      "pending",
	}
	if outcome, ok := result.Wagers[w.ID]; ok {
		view.Probability = round3(outcome.WinProbability)
		view.ProjectedPts = round1(outcome.ExpectedPoints)
	}
	if g == nil || (g.Quarter == models.QuarterNotStarted && !g.IsFinal()) {
		return view
	}

	current := models.GameResult{
		AwayPoints: float64(g.AwayScore),
		HomePoints: float64(g.HomeScore),
	}
	margin, err := scoring.CoverMargin(w, g, current)
	if err != nil {
		return view
	}

	switch {
	case margin > 0:
		view.Status = "winning"
	case margin == 0:
		view.Status = "push"
	default:
		view.Status = "losing"
	}

	if g.IsFinal() {
		switch view.Status {
		case "winning":
			view.Status = "won"
		case "losing":
			view.Status = "lost"
		}
		if pts, _, err := scoring.SettleWager(w, g, current); err == nil {
			view.CurrentPts = round1(pts)
		}
	}
	return view
}

// wagerDescription renders a wager the way the scoreboard abbreviates it,
// e.g. "SF@PHI: o42.5" or "SF@PHI: SF -4".
func wagerDescription(w *models.Wager) string {
	short := strings.ReplaceAll(w.GameID, " @ ", "@")
	adj := w.AdjustedLine()
	switch w.Kind {
	case models.WagerOver:
		return fmt.Sprintf("%s: o%g", short, adj)
	case models.WagerUnder:
		return fmt.Sprintf("%s: u%g", short, adj)
	case models.WagerSpread:
		return fmt.Sprintf("%s: %s %+g", short, w.Team, adj)
	}
	return fmt.Sprintf("%s: %s %g", short, w.Kind, adj)
}

func buildGameView(g *models.Game) GameView {
	view := GameView{
		Matchup:   g.ID,
		AwayTeam:  g.AwayTeam,
		HomeTeam:  g.HomeTeam,
		AwayScore: g.AwayScore,
		HomeScore: g.HomeScore,
		OverUnder: g.OverUnder,
	}

	switch {
	case g.IsFinal():
		view.Status = "Final"
		view.StatusClass = "final"
	case g.Quarter == models.QuarterNotStarted:
		view.Status = "Pre"
		view.StatusClass = "pre"
	default:
		quarterSeconds := g.TimeRemainingSeconds % models.QuarterSeconds
		view.Status = fmt.Sprintf("Q%d %d:%02d", g.Quarter, quarterSeconds/60, quarterSeconds%60)
		view.StatusClass = "live"
	}

	if g.Spread == 0 {
		view.Spread = "PK"
	} else {
		view.Spread = fmt.Sprintf("%+g", g.Spread)
	}
	return view
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
