package datasource

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// fileSnapshot is the on-disk document the file provider replays. Player stats
// are keyed by event ID, then by player display name.
type fileSnapshot struct {
	Games       []GameState                              `json:"games"`
	PlayerStats map[string]map[string]models.PlayerStats `json:"player_stats"`
}

// FileProvider implements Provider against a local snapshot file. It rereads
// the file on every fetch, so editing the snapshot between polls drives the
// service like a live feed. Used for development and replay.
type FileProvider struct {
	path   string
	logger *log.Logger
}

// NewFileProvider creates a provider that replays the given snapshot file
func NewFileProvider(path string, logger *log.Logger) *FileProvider {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &FileProvider{path: path, logger: logger}
}

// Name returns the provider name
func (p *FileProvider) Name() string {
	return "file"
}

// FetchScoreboard retrieves the current state of every game in the snapshot
func (p *FileProvider) FetchScoreboard(ctx context.Context) ([]GameState, error) {
	snapshot, err := p.read()
	if err != nil {
		return nil, err
	}
	return snapshot.Games, nil
}

// FetchPlayerStats retrieves the snapshot's stat lines for one event. Events
// without recorded stats yield an empty map, matching a feed that has no box
// score yet.
func (p *FileProvider) FetchPlayerStats(ctx context.Context, eventID string) (map[string]models.PlayerStats, error) {
	snapshot, err := p.read()
	if err != nil {
		return nil, err
	}

	stats, ok := snapshot.PlayerStats[eventID]
	if !ok {
		return map[string]models.PlayerStats{}, nil
	}
	return stats, nil
}

func (p *FileProvider) read() (*fileSnapshot, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, NewProviderError("file", ErrCodeNotFound, "failed to read snapshot file", err)
	}

	var snapshot fileSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, NewProviderError("file", ErrCodeInvalidData, "failed to parse snapshot file", err)
	}
	return &snapshot, nil
}
