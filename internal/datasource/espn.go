package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// DefaultESPNBaseURL is ESPN's public NFL site API.
const DefaultESPNBaseURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"

const scoreboardCacheKey = "scoreboard"

// ESPN abbreviates a few teams differently from the draft boards this service
// loads. Keys are ESPN codes, values the canonical codes games are keyed by.
var espnTeamAliases = map[string]string{
	"JAC": "JAX",
	"WSH": "WAS",
	"LA":  "LAR",
}

func canonicalTeam(code string) string {
	if canonical, ok := espnTeamAliases[code]; ok {
		return canonical
	}
	return code
}

// ESPNClient implements Provider against ESPN's scoreboard and summary API
type ESPNClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	cache      *cache.Cache
	cacheTTL   time.Duration
	logger     *log.Logger
}

// espnScoreboard mirrors the slice of the scoreboard response this service reads
type espnScoreboard struct {
	Events []espnEvent `json:"events"`
}

type espnEvent struct {
	ID           string            `json:"id"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnCompetition struct {
	Competitors []espnCompetitor `json:"competitors"`
	Status      espnStatus       `json:"status"`
}

type espnCompetitor struct {
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Team     espnTeam `json:"team"`
}

type espnTeam struct {
	Abbreviation string `json:"abbreviation"`
}

type espnStatus struct {
	Period       int            `json:"period"`
	DisplayClock string         `json:"displayClock"`
	Type         espnStatusType `json:"type"`
}

type espnStatusType struct {
	State string `json:"state"` // pre, in or post
}

// espnSummary mirrors the slice of the game summary response this service reads
type espnSummary struct {
	Boxscore espnBoxscore `json:"boxscore"`
}

type espnBoxscore struct {
	Players []espnTeamStats `json:"players"`
}

type espnTeamStats struct {
	Statistics []espnStatGroup `json:"statistics"`
}

type espnStatGroup struct {
	Name     string            `json:"name"` // passing, rushing, receiving, fumbles
	Labels   []string          `json:"labels"`
	Athletes []espnAthleteLine `json:"athletes"`
}

type espnAthleteLine struct {
	Athlete espnAthlete `json:"athlete"`
	Stats   []string    `json:"stats"`
}

type espnAthlete struct {
	DisplayName string `json:"displayName"`
}

// NewESPNClient creates a new ESPN API client. A cacheTTL of zero disables
// scoreboard response caching.
func NewESPNClient(httpClient *RateLimitedHTTPClient, baseURL string, cacheTTL time.Duration, logger *log.Logger) *ESPNClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if baseURL == "" {
		baseURL = DefaultESPNBaseURL
	}

	c := &ESPNClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
	if cacheTTL > 0 {
		c.cache = cache.New(cacheTTL, cacheTTL*2)
	}
	return c
}

// Name returns the provider name
func (c *ESPNClient) Name() string {
	return "espn"
}

// FetchScoreboard retrieves the current state of every game on the slate
func (c *ESPNClient) FetchScoreboard(ctx context.Context) ([]GameState, error) {
	if c.cache != nil {
		if cached, found := c.cache.Get(scoreboardCacheKey); found {
			if games, ok := cached.([]GameState); ok {
				return games, nil
			}
		}
	}

	resp, err := c.httpClient.Get(ctx, c.baseURL+"/scoreboard")
	if err != nil {
		return nil, NewProviderError("espn", ErrCodeNetworkError, "failed to fetch scoreboard", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewProviderError("espn", ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError("espn", ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var board espnScoreboard
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return nil, NewProviderError("espn", ErrCodeInvalidData, "failed to parse scoreboard", err)
	}

	games := make([]GameState, 0, len(board.Events))
	for _, event := range board.Events {
		state, err := convertEvent(event)
		if err != nil {
			c.logger.Printf("Skipping scoreboard event %s: %v", event.ID, err)
			continue
		}
		games = append(games, state)
	}

	if c.cache != nil {
		c.cache.Set(scoreboardCacheKey, games, c.cacheTTL)
	}

	return games, nil
}

// FetchPlayerStats retrieves accumulated stat lines from a game's box score
func (c *ESPNClient) FetchPlayerStats(ctx context.Context, eventID string) (map[string]models.PlayerStats, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL+"/summary?event="+url.QueryEscape(eventID))
	if err != nil {
		return nil, NewProviderError("espn", ErrCodeNetworkError, "failed to fetch game summary", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewProviderError("espn", ErrCodeNotFound, fmt.Sprintf("event not found: %s", eventID), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError("espn", ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var summary espnSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, NewProviderError("espn", ErrCodeInvalidData, "failed to parse game summary", err)
	}

	return parseBoxscore(summary), nil
}

// convertEvent converts one scoreboard event to a GameState
func convertEvent(event espnEvent) (GameState, error) {
	if len(event.Competitions) == 0 {
		return GameState{}, fmt.Errorf("event has no competitions")
	}
	competition := event.Competitions[0]

	var home, away *espnCompetitor
	for i := range competition.Competitors {
		switch competition.Competitors[i].HomeAway {
		case "home":
			home = &competition.Competitors[i]
		case "away":
			away = &competition.Competitors[i]
		}
	}
	if home == nil || away == nil {
		return GameState{}, fmt.Errorf("event is missing a home or away competitor")
	}

	status := competition.Status
	state := status.Type.State
	if state == "" {
		state = "pre"
	}

	return GameState{
		EventID:              event.ID,
		AwayTeam:             canonicalTeam(away.Team.Abbreviation),
		HomeTeam:             canonicalTeam(home.Team.Abbreviation),
		AwayScore:            atoiDefault(away.Score),
		HomeScore:            atoiDefault(home.Score),
		State:                state,
		Period:               status.Period,
		Clock:                status.DisplayClock,
		TimeRemainingSeconds: remainingSeconds(status.Period, status.DisplayClock, state),
	}, nil
}

// remainingSeconds computes the full-game clock from the quarter and the
// display clock. Quarters one through four are fifteen minutes; in overtime
// only the display clock remains.
func remainingSeconds(period int, clock, state string) int {
	switch state {
	case "post":
		return 0
	case "pre":
		return models.RegulationSeconds
	}

	clockSeconds := 0
	if parts := strings.Split(clock, ":"); len(parts) == 2 {
		minutes, errM := strconv.Atoi(strings.TrimSpace(parts[0]))
		seconds, errS := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errM == nil && errS == nil {
			clockSeconds = minutes*60 + seconds
		}
	}

	quartersRemaining := 4 - period
	if quartersRemaining < 0 {
		quartersRemaining = 0
	}
	return quartersRemaining*models.QuarterSeconds + clockSeconds
}

// parseBoxscore flattens per-team stat groups into one stat line per player.
// Players appearing in several groups (a rushing quarterback, a receiving
// back) accumulate across them.
func parseBoxscore(summary espnSummary) map[string]models.PlayerStats {
	stats := make(map[string]models.PlayerStats)

	for _, team := range summary.Boxscore.Players {
		for _, group := range team.Statistics {
			labels := make(map[string]int, len(group.Labels))
			for i, label := range group.Labels {
				labels[label] = i
			}

			for _, line := range group.Athletes {
				name := line.Athlete.DisplayName
				if name == "" {
					continue
				}
				playerStats := stats[name]
				applyStatGroup(&playerStats, group.Name, line.Stats, labels)
				stats[name] = playerStats
			}
		}
	}

	return stats
}

// applyStatGroup copies the fields this service scores out of one stat group
func applyStatGroup(playerStats *models.PlayerStats, groupName string, values []string, labels map[string]int) {
	get := func(label string) (float64, bool) {
		idx, ok := labels[label]
		if !ok || idx >= len(values) {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(values[idx]), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	switch groupName {
	case "passing":
		// C/ATT, YDS, AVG, TD, INT, SACKS, QBR, RTG
		if v, ok := get("YDS"); ok {
			playerStats.PassYards = v
		}
		if v, ok := get("TD"); ok {
			playerStats.PassTDs = v
		}
		if v, ok := get("INT"); ok {
			playerStats.Interceptions = v
		}
	case "rushing":
		// CAR, YDS, AVG, TD, LONG
		if v, ok := get("YDS"); ok {
			playerStats.RushYards = v
		}
		if v, ok := get("TD"); ok {
			playerStats.RushTDs = v
		}
	case "receiving":
		// REC, YDS, AVG, TD, LONG, TGTS
		if v, ok := get("REC"); ok {
			playerStats.Receptions = v
		}
		if v, ok := get("YDS"); ok {
			playerStats.RecYards = v
		}
		if v, ok := get("TD"); ok {
			playerStats.RecTDs = v
		}
	case "fumbles":
		// FUM, LOST, REC
		if v, ok := get("LOST"); ok {
			playerStats.FumblesLost = v
		}
	}
}

func atoiDefault(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
