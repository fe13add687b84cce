package datasource

import (
	"context"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// Provider defines the interface for fetching live NFL data from an external feed
type Provider interface {
	// FetchScoreboard retrieves the current state of every game on the slate
	FetchScoreboard(ctx context.Context) ([]GameState, error)

	// FetchPlayerStats retrieves accumulated stat lines from a game's box score,
	// keyed by player display name
	FetchPlayerStats(ctx context.Context, eventID string) (map[string]models.PlayerStats, error)

	// Name returns the name of the provider
	Name() string
}

// GameState represents normalized live game data from any provider
type GameState struct {
	EventID              string `json:"event_id"`   // Provider's unique game ID
	AwayTeam             string `json:"away_team"`  // Canonical team code
	HomeTeam             string `json:"home_team"`  // Canonical team code
	AwayScore            int    `json:"away_score"`
	HomeScore            int    `json:"home_score"`
	State                string `json:"state"`      // pre, in or post
	Period               int    `json:"period"`     // 1-4 regulation, 5+ overtime
	Clock                string `json:"clock"`      // display clock, MM:SS
	TimeRemainingSeconds int    `json:"time_remaining_seconds"`
}

// Matchup returns the canonical game identifier for this state.
func (g GameState) Matchup() string {
	return models.GameID(g.AwayTeam, g.HomeTeam)
}

// Quarter maps the provider's period and state onto the session quarter scale:
// 0 before kickoff, the period while in progress, the final marker afterwards.
func (g GameState) Quarter() int {
	switch g.State {
	case "post":
		return models.QuarterFinal
	case "in":
		return g.Period
	default:
		return models.QuarterNotStarted
	}
}

// Update converts this state into a game update for the league.
func (g GameState) Update() models.GameUpdate {
	return models.GameUpdate{
		GameID:        g.Matchup(),
		AwayScore:     g.AwayScore,
		HomeScore:     g.HomeScore,
		Quarter:       g.Quarter(),
		TimeRemaining: g.TimeRemainingSeconds,
	}
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Source  string // Provider name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
)

// NewProviderError creates a new provider error
func NewProviderError(source, code, message string, err error) ProviderError {
	return ProviderError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
