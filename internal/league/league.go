// Package league loads and holds the weekend's league state: the game slate
// with its betting lines, owner rosters and wagers, and player projections.
// The League is the single mutable store the refresher writes and the
// simulation service reads; everything handed out is a copy.
package league

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// League is the in-memory state for one wildcard weekend.
type League struct {
	mu        sync.RWMutex
	games     []*models.Game
	gamesByID map[string]*models.Game
	owners    []*models.Owner
	logger    *logrus.Logger
}

// New builds a League from a game slate and owner list. Game IDs and owner
// names must be unique; wager and roster references must resolve against the
// slate, the same checks the engine applies per run.
func New(games []*models.Game, owners []*models.Owner, logger *logrus.Logger) (*League, error) {
	if logger == nil {
		logger = logrus.New()
	}

	byID := make(map[string]*models.Game, len(games))
	for _, g := range games {
		if _, ok := byID[g.ID]; ok {
			return nil, fmt.Errorf("duplicate game %s", g.ID)
		}
		byID[g.ID] = g
	}

	seen := make(map[string]struct{}, len(owners))
	for _, o := range owners {
		if _, ok := seen[o.Name]; ok {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateOwner, o.Name)
		}
		seen[o.Name] = struct{}{}

		for i := range o.Players {
			p := &o.Players[i]
			if !teamHasGame(games, p.Team) {
				return nil, fmt.Errorf("%w: no game for %s (player %s, owner %s)",
					models.ErrGameNotFound, p.Team, p.Name, o.Name)
			}
		}
		for _, w := range o.Wagers {
			g, ok := byID[w.GameID]
			if !ok {
				return nil, fmt.Errorf("%w: wager %s references %s (owner %s)",
					models.ErrUnknownGame, w.Describe(), w.GameID, o.Name)
			}
			if w.Kind == models.WagerSpread && !g.HasTeam(w.Team) {
				return nil, fmt.Errorf("%w: %s not in %s (owner %s)",
					models.ErrUnknownTeam, w.Team, w.GameID, o.Name)
			}
		}
	}

	return &League{
		games:     games,
		gamesByID: byID,
		owners:    owners,
		logger:    logger,
	}, nil
}

// Games returns a deep copy of the slate in schedule order. Callers get a
// consistent view that later refreshes cannot race with.
func (l *League) Games() []*models.Game {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*models.Game, len(l.games))
	for i, g := range l.games {
		copied := *g
		out[i] = &copied
	}
	return out
}

// Game returns a copy of one game by matchup ID.
func (l *League) Game(id string) (models.Game, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	g, ok := l.gamesByID[id]
	if !ok {
		return models.Game{}, false
	}
	return *g, true
}

// Owners returns a deep copy of the owner list. Wagers are immutable after
// load and stay shared; player entries carry live stats and are copied.
func (l *League) Owners() []*models.Owner {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*models.Owner, len(l.owners))
	for i, o := range l.owners {
		copied := *o
		copied.Players = make([]models.Player, len(o.Players))
		copy(copied.Players, o.Players)
		copied.Wagers = make([]*models.Wager, len(o.Wagers))
		copy(copied.Wagers, o.Wagers)
		out[i] = &copied
	}
	return out
}

// ApplyUpdate applies a game state change, enforcing the session invariants
// (final games immutable, quarter monotonic unless reset).
func (l *League) ApplyUpdate(u models.GameUpdate) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	g, ok := l.gamesByID[u.GameID]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrGameNotFound, u.GameID)
	}
	return g.ApplyUpdate(u)
}

// SetPlayerStats replaces the live stat line for every roster entry with the
// given player name. Returns the number of entries updated.
func (l *League) SetPlayerStats(name string, stats models.PlayerStats) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	updated := 0
	for _, o := range l.owners {
		for i := range o.Players {
			if o.Players[i].Name == name {
				o.Players[i].Current = stats
				updated++
			}
		}
	}
	return updated
}

// BindProjections attaches loaded projections to roster entries by player
// name. Entries without a projection keep a zero stat line and are returned
// so the caller can surface the gap; they simulate as zero remaining points.
func (l *League) BindProjections(projections map[string]models.Projection) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var missing []string
	for _, o := range l.owners {
		for i := range o.Players {
			p := &o.Players[i]
			proj, ok := projections[p.Name]
			if !ok {
				missing = append(missing, p.Name)
				l.logger.WithFields(logrus.Fields{
					"player": p.Name,
					"team":   p.Team,
					"owner":  o.Name,
				}).Warn("No projection for rostered player")
				continue
			}
			p.Projection = proj
		}
	}
	return missing
}

// SetPushValue overrides the push payout on every wager's schedule. The
// default schedule scores a push as zero points; leagues that pay out pushes
// set this during wiring, before any run shares the wager pointers.
func (l *League) SetPushValue(points float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, o := range l.owners {
		for _, w := range o.Wagers {
			w.Payoff.PushValue = points
		}
	}
}

// Fingerprint returns a hex digest of the simulation-relevant state: game
// scores, clocks and lines plus every live player stat line. Any state change
// that could move a win probability changes the fingerprint.
func (l *League) Fingerprint() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	h := sha256.New()
	for _, g := range l.games {
		fmt.Fprintf(h, "%s|%g|%g|%d|%d|%d|%d\n",
			g.ID, g.Spread, g.OverUnder, g.AwayScore, g.HomeScore, g.Quarter, g.TimeRemainingSeconds)
	}
	for _, o := range l.owners {
		for i := range o.Players {
			p := &o.Players[i]
			fmt.Fprintf(h, "%s|%+v\n", p.Name, p.Current)
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Counts returns the owner, player and wager totals for logging.
func (l *League) Counts() (owners, players, wagers int) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	owners = len(l.owners)
	for _, o := range l.owners {
		players += len(o.Players)
		wagers += len(o.Wagers)
	}
	return owners, players, wagers
}

// MinutesRemaining sums the clock minutes left across non-final games.
func (l *League) MinutesRemaining() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	minutes := 0
	for _, g := range l.games {
		if !g.IsFinal() {
			minutes += g.TimeRemainingSeconds / 60
		}
	}
	return minutes
}

func teamHasGame(games []*models.Game, team string) bool {
	for _, g := range games {
		if g.HasTeam(team) {
			return true
		}
	}
	return false
}
