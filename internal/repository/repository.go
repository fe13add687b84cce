package repository

import (
	"fmt"

	"github.com/yourusername/wildcard-sim/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	History HistoryRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		History: NewPostgresHistoryRepository(db),
	}, nil
}
