package simulation

import (
	"fmt"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// runPlan is the validated, index-flattened view of one run's inputs. Games
// and owners keep their given order, which fixes the draw order and therefore
// the result for a seeded run. A dangling reference anywhere fails the whole
// plan: silently skipping it would misstate every probability.
type runPlan struct {
	games    []*models.Game
	owners   []*models.Owner
	eligible []bool
	players  []plannedPlayer
	wagers   []plannedWager
}

type plannedPlayer struct {
	ownerIdx int
	gameIdx  int
	player   *models.Player
}

type plannedWager struct {
	ownerIdx int
	gameIdx  int
	wager    *models.Wager
}

func buildPlan(games []*models.Game, owners []*models.Owner) (*runPlan, error) {
	plan := &runPlan{
		games:    games,
		owners:   owners,
		eligible: make([]bool, len(owners)),
	}

	gameIdx := make(map[string]int, len(games))
	teamIdx := make(map[string]int, 2*len(games))
	for i, g := range games {
		if _, dup := gameIdx[g.ID]; dup {
			return nil, fmt.Errorf("duplicate game %s", g.ID)
		}
		gameIdx[g.ID] = i
		teamIdx[g.AwayTeam] = i
		teamIdx[g.HomeTeam] = i
	}

	seenNames := make(map[string]struct{}, len(owners))
	for oi, o := range owners {
		if _, dup := seenNames[o.Name]; dup {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateOwner, o.Name)
		}
		seenNames[o.Name] = struct{}{}
		plan.eligible[oi] = !o.IsEmpty()

		for pi := range o.Players {
			p := &o.Players[pi]
			gi, ok := teamIdx[p.Team]
			if !ok {
				return nil, fmt.Errorf("%w: player %s plays for %s", models.ErrGameNotFound, p.Name, p.Team)
			}
			plan.players = append(plan.players, plannedPlayer{ownerIdx: oi, gameIdx: gi, player: p})
		}

		for _, w := range o.Wagers {
			if !w.Kind.Valid() {
				return nil, fmt.Errorf("%w: %q on wager %s", models.ErrInvalidWagerKind, w.Kind, w.ID)
			}
			gi, ok := gameIdx[w.GameID]
			if !ok {
				return nil, fmt.Errorf("%w: wager %s references %q", models.ErrUnknownGame, w.ID, w.GameID)
			}
			if w.Kind == models.WagerSpread && !games[gi].HasTeam(w.Team) {
				return nil, fmt.Errorf("%w: wager %s backs %s in %s", models.ErrUnknownTeam, w.ID, w.Team, w.GameID)
			}
			plan.wagers = append(plan.wagers, plannedWager{ownerIdx: oi, gameIdx: gi, wager: w})
		}
	}

	return plan, nil
}

// accumulator holds one batch's running sums. Batches merge by plain
// addition, in batch order.
type accumulator struct {
	trials     int
	winCredit  []float64
	totalSum   []float64
	totalSumSq []float64
	playerSum  []float64
	wagerWins  []int
	wagerPush  []int
	wagerSum   []float64
	gameAway   []float64
	gameHome   []float64
}

func newAccumulator(p *runPlan) *accumulator {
	return &accumulator{
		winCredit:  make([]float64, len(p.owners)),
		totalSum:   make([]float64, len(p.owners)),
		totalSumSq: make([]float64, len(p.owners)),
		playerSum:  make([]float64, len(p.players)),
		wagerWins:  make([]int, len(p.wagers)),
		wagerPush:  make([]int, len(p.wagers)),
		wagerSum:   make([]float64, len(p.wagers)),
		gameAway:   make([]float64, len(p.games)),
		gameHome:   make([]float64, len(p.games)),
	}
}

func (a *accumulator) merge(b *accumulator) {
	a.trials += b.trials
	for i := range b.winCredit {
		a.winCredit[i] += b.winCredit[i]
		a.totalSum[i] += b.totalSum[i]
		a.totalSumSq[i] += b.totalSumSq[i]
	}
	for i := range b.playerSum {
		a.playerSum[i] += b.playerSum[i]
	}
	for i := range b.wagerSum {
		a.wagerWins[i] += b.wagerWins[i]
		a.wagerPush[i] += b.wagerPush[i]
		a.wagerSum[i] += b.wagerSum[i]
	}
	for i := range b.gameAway {
		a.gameAway[i] += b.gameAway[i]
		a.gameHome[i] += b.gameHome[i]
	}
}
