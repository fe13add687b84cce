package league

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// Display palette assigned round-robin to owners without an explicit color,
// matching the original spreadsheet ordering.
var ownerPalette = []string{
	"#f4e4d4", "#fff2cc", "#fce5cd", "#f4cccc",
	"#d9ead3", "#cfe2f3", "#d9d2e9", "#b6d7a8",
}

var spreadBetPattern = regexp.MustCompile(`^([A-Z]+)\s*([+-]?\d+\.?\d*)$`)

// leagueFile mirrors the league YAML document.
type leagueFile struct {
	Season       int          `mapstructure:"season"`
	Week         string       `mapstructure:"week"`
	DefaultColor string       `mapstructure:"default_color"`
	Games        []gameEntry  `mapstructure:"games"`
	Owners       []ownerEntry `mapstructure:"owners"`
}

type gameEntry struct {
	Matchup   string  `mapstructure:"matchup"`
	Spread    float64 `mapstructure:"spread"`
	OverUnder float64 `mapstructure:"over_under"`
	StartTime string  `mapstructure:"start_time"`
}

type ownerEntry struct {
	Name    string        `mapstructure:"name"`
	Color   string        `mapstructure:"color"`
	Players []playerEntry `mapstructure:"players"`
	Wagers  []wagerEntry  `mapstructure:"wagers"`
}

type playerEntry struct {
	Name     string `mapstructure:"name"`
	Position string `mapstructure:"position"`
	Slot     string `mapstructure:"slot"`
	Team     string `mapstructure:"team"`
}

type wagerEntry struct {
	Game  string `mapstructure:"game"`
	Bet   string `mapstructure:"bet"`
	Round int    `mapstructure:"round"`
}

// Loader reads league YAML files into League state.
type Loader struct {
	logger       *logrus.Logger
	defaultColor string
}

// NewLoader creates a league loader. defaultColor overrides the built-in
// palette for owners without an explicit color; empty keeps the palette.
func NewLoader(logger *logrus.Logger, defaultColor string) *Loader {
	if logger == nil {
		logger = logrus.New()
	}
	return &Loader{logger: logger, defaultColor: defaultColor}
}

// Load reads a league file and builds the League. A file without a games
// section gets the default wildcard slate.
func (l *Loader) Load(path string) (*League, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read league file %s: %w", path, err)
	}

	var file leagueFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse league file: %w", err)
	}

	games, err := l.buildGames(file.Games)
	if err != nil {
		return nil, err
	}

	owners, err := l.buildOwners(file)
	if err != nil {
		return nil, err
	}

	lg, err := New(games, owners, l.logger)
	if err != nil {
		return nil, fmt.Errorf("invalid league file %s: %w", path, err)
	}

	o, p, w := lg.Counts()
	l.logger.WithFields(logrus.Fields{
		"path":    path,
		"season":  file.Season,
		"week":    file.Week,
		"games":   len(games),
		"owners":  o,
		"players": p,
		"wagers":  w,
	}).Info("League loaded")

	return lg, nil
}

func (l *Loader) buildGames(entries []gameEntry) ([]*models.Game, error) {
	if len(entries) == 0 {
		l.logger.Warn("League file has no games section, using the default wildcard slate")
		return DefaultWildcardGames(), nil
	}

	games := make([]*models.Game, 0, len(entries))
	for _, e := range entries {
		away, home, err := models.ParseGameID(e.Matchup)
		if err != nil {
			return nil, fmt.Errorf("game %q: %w", e.Matchup, err)
		}
		games = append(games, &models.Game{
			ID:                   models.GameID(away, home),
			AwayTeam:             away,
			HomeTeam:             home,
			Spread:               e.Spread,
			OverUnder:            e.OverUnder,
			Quarter:              models.QuarterNotStarted,
			TimeRemainingSeconds: models.RegulationSeconds,
			StartTime:            e.StartTime,
		})
	}
	return games, nil
}

func (l *Loader) buildOwners(file leagueFile) ([]*models.Owner, error) {
	owners := make([]*models.Owner, 0, len(file.Owners))
	for i, e := range file.Owners {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("owner %d has no name", i)
		}

		owner := models.NewOwner(e.Name, l.ownerColor(e.Color, file.DefaultColor, i))

		for _, pe := range e.Players {
			player, err := buildPlayer(pe)
			if err != nil {
				return nil, fmt.Errorf("owner %s: %w", e.Name, err)
			}
			owner.Players = append(owner.Players, player)
		}

		for _, we := range e.Wagers {
			wager, err := ParseBetString(we.Game, we.Bet, we.Round)
			if err != nil {
				return nil, fmt.Errorf("owner %s: %w", e.Name, err)
			}
			owner.Wagers = append(owner.Wagers, wager)
		}

		owners = append(owners, owner)
	}
	return owners, nil
}

func (l *Loader) ownerColor(color, fileDefault string, idx int) string {
	if color != "" {
		return color
	}
	if fileDefault != "" {
		return fileDefault
	}
	if l.defaultColor != "" {
		return l.defaultColor
	}
	return ownerPalette[idx%len(ownerPalette)]
}

func buildPlayer(e playerEntry) (models.Player, error) {
	if strings.TrimSpace(e.Name) == "" {
		return models.Player{}, fmt.Errorf("player entry has no name")
	}

	pos, err := models.ParsePosition(e.Position)
	if err != nil {
		return models.Player{}, fmt.Errorf("player %s: %w", e.Name, err)
	}

	slotStr := e.Slot
	if slotStr == "" {
		slotStr = e.Position
	}
	slot, err := models.ParseSlot(slotStr)
	if err != nil {
		return models.Player{}, fmt.Errorf("player %s: %w", e.Name, err)
	}
	if !slot.Accepts(pos) {
		return models.Player{}, fmt.Errorf("player %s: %s cannot fill the %s slot", e.Name, pos, slot)
	}

	team := NormalizeTeam(strings.ToUpper(strings.TrimSpace(e.Team)))
	if team == "" {
		return models.Player{}, fmt.Errorf("player %s has no team", e.Name)
	}

	return models.Player{
		Name:     e.Name,
		Team:     team,
		Position: pos,
		Slot:     slot,
	}, nil
}

// ParseBetString parses the compact wager notation used on the draft board:
// "o44.5" and "u38.5" for totals, "SF -4.5" or "PHI +7" for spreads. A round
// outside 1..8 falls back to 8, the no-tease round.
func ParseBetString(gameID, bet string, round int) (*models.Wager, error) {
	if round < models.MinDraftRound || round > models.MaxDraftRound {
		round = models.MaxDraftRound
	}

	s := strings.TrimSpace(bet)
	if s == "" {
		return nil, fmt.Errorf("empty bet for game %s", gameID)
	}

	// Totals need a digit right after the o/u prefix so that team codes
	// starting with those letters still parse as spreads.
	lower := strings.ToLower(s)
	switch {
	case hasTotalPrefix(lower, 'o'):
		line, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid over line %q: %w", bet, err)
		}
		return models.NewWager(gameID, models.WagerOver, line, "", round), nil
	case hasTotalPrefix(lower, 'u'):
		line, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid under line %q: %w", bet, err)
		}
		return models.NewWager(gameID, models.WagerUnder, line, "", round), nil
	}

	m := spreadBetPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("invalid bet %q for game %s", bet, gameID)
	}
	line, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid spread line %q: %w", bet, err)
	}
	return models.NewWager(gameID, models.WagerSpread, line, NormalizeTeam(m[1]), round), nil
}

func hasTotalPrefix(s string, c byte) bool {
	if len(s) < 2 || s[0] != c {
		return false
	}
	next := s[1]
	return next == '.' || (next >= '0' && next <= '9')
}
