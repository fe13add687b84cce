package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/wildcard-sim/internal/datasource"
	"github.com/yourusername/wildcard-sim/internal/league"
	"github.com/yourusername/wildcard-sim/internal/logger"
	"github.com/yourusername/wildcard-sim/internal/metrics"
	"github.com/yourusername/wildcard-sim/internal/models"
)

// Refresher polls the data provider and folds scoreboard changes and box
// score stat lines into the league. One cycle touches every slate game once;
// final games are left alone.
type Refresher struct {
	league   *league.League
	provider datasource.Provider
	logger   *logger.RefreshLogger
}

// RefreshReport summarizes one refresh cycle.
type RefreshReport struct {
	Provider     string  `json:"provider"`
	GamesFetched int     `json:"games_fetched"`
	Updated      int     `json:"updated"`
	Unchanged    int     `json:"unchanged"`
	Finals       int     `json:"finals"`
	Rejected     int     `json:"rejected"`
	StatLines    int     `json:"stat_lines"`
	DurationMs   float64 `json:"duration_ms"`
}

// NewRefresher creates a refresher over the given league and provider.
func NewRefresher(lg *league.League, provider datasource.Provider, refreshLogger *logger.RefreshLogger) *Refresher {
	return &Refresher{
		league:   lg,
		provider: provider,
		logger:   refreshLogger,
	}
}

// Refresh runs one poll cycle: fetch the scoreboard, apply game updates, then
// pull box scores for started games that carry rostered players. Provider
// failures on individual box scores are logged and skipped; only a scoreboard
// failure fails the cycle.
func (r *Refresher) Refresh(ctx context.Context) (*RefreshReport, error) {
	start := time.Now()

	states, err := r.provider.FetchScoreboard(ctx)
	if err != nil {
		r.logger.LogProviderError(r.provider.Name(), err)
		metrics.RecordRefreshError()
		return nil, fmt.Errorf("scoreboard fetch: %w", err)
	}
	r.logger.LogScoreboardFetch(r.provider.Name(), len(states), msSince(start))

	report := &RefreshReport{
		Provider:     r.provider.Name(),
		GamesFetched: len(states),
	}

	games := r.league.Games()
	known := make(map[string]struct{}, len(games))
	for _, g := range games {
		known[g.ID] = struct{}{}
	}

	byMatchup := make(map[string]datasource.GameState, len(states))
	for _, s := range states {
		byMatchup[s.Matchup()] = s
		if _, ok := known[s.Matchup()]; !ok {
			r.logger.LogUnmatchedGame(r.provider.Name(), s.Matchup())
		}
	}

	rostered := r.rosteredTeams()

	for _, g := range games {
		state, ok := byMatchup[g.ID]
		if !ok {
			continue
		}
		if g.IsFinal() {
			report.Finals++
			continue
		}

		update := state.Update()
		if unchangedGame(g, update) {
			report.Unchanged++
		} else if err := r.league.ApplyUpdate(update); err != nil {
			r.logger.LogGameUpdateRejected(g.ID, err.Error())
			report.Rejected++
			continue
		} else {
			r.logger.LogGameUpdate(g.ID, update.Quarter, update.TimeRemaining, update.AwayScore, update.HomeScore)
			report.Updated++
		}

		// Box scores only exist once a game has started, and only matter for
		// games whose teams appear on a roster.
		if update.Quarter == models.QuarterNotStarted {
			continue
		}
		if !rostered[g.AwayTeam] && !rostered[g.HomeTeam] {
			continue
		}
		stats, err := r.provider.FetchPlayerStats(ctx, state.EventID)
		if err != nil {
			r.logger.LogProviderError(r.provider.Name(), err)
			continue
		}
		for name, line := range stats {
			report.StatLines += r.league.SetPlayerStats(name, line)
		}
	}

	live, final := 0, 0
	for _, g := range r.league.Games() {
		switch {
		case g.IsFinal():
			final++
		case g.Quarter != models.QuarterNotStarted:
			live++
		}
	}
	metrics.UpdateGameGauges(live, final)

	report.DurationMs = msSince(start)
	metrics.RecordRefresh(report.Updated, report.Rejected, report.DurationMs/1000)
	r.logger.LogRefreshComplete(report.Updated, report.Unchanged, report.Finals, report.DurationMs)
	return report, nil
}

// rosteredTeams collects the team codes that appear on any owner's roster.
func (r *Refresher) rosteredTeams() map[string]bool {
	teams := make(map[string]bool)
	for _, o := range r.league.Owners() {
		for _, p := range o.Players {
			teams[p.Team] = true
		}
	}
	return teams
}

func unchangedGame(g *models.Game, u models.GameUpdate) bool {
	return g.AwayScore == u.AwayScore &&
		g.HomeScore == u.HomeScore &&
		g.Quarter == u.Quarter &&
		g.TimeRemainingSeconds == u.TimeRemaining
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
