package league

import (
	"github.com/yourusername/wildcard-sim/internal/models"
)

// DefaultWildcardGames returns the wildcard weekend slate with its last
// published betting lines. Operators override these per week through the
// league file; the built-in slate keeps the CLI usable without one.
func DefaultWildcardGames() []*models.Game {
	slate := []struct {
		id        string
		spread    float64
		overUnder float64
		startTime string
	}{
		{"LAR @ CAR", 10.5, 46.5, "Sat 4:30 PM"},
		{"GB @ CHI", 1.5, 45.5, "Sat 8:00 PM"},
		{"BUF @ JAX", 1.5, 51.5, "Sun 1:00 PM"},
		{"SF @ PHI", -4.5, 44.5, "Sun 4:30 PM"},
		{"LAC @ NE", -3.5, 46.5, "Sun 8:00 PM"},
		{"HOU @ PIT", 3.0, 39.5, "Mon 8:00 PM"},
	}

	games := make([]*models.Game, 0, len(slate))
	for _, s := range slate {
		away, home, err := models.ParseGameID(s.id)
		if err != nil {
			panic(err) // static slate, unreachable
		}
		games = append(games, &models.Game{
			ID:                   s.id,
			AwayTeam:             away,
			HomeTeam:             home,
			Spread:               s.spread,
			OverUnder:            s.overUnder,
			Quarter:              models.QuarterNotStarted,
			TimeRemainingSeconds: models.RegulationSeconds,
			StartTime:            s.startTime,
		})
	}
	return games
}
