package models

import "github.com/google/uuid"

// Owner is one league member: a drafted roster of players plus a slate of
// wagers.
type Owner struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name" validate:"required"`
	Color   string    `json:"color,omitempty"`
	Players []Player  `json:"players" validate:"dive"`
	Wagers  []*Wager  `json:"wagers" validate:"dive"`
}

// NewOwner builds an owner with a fresh ID.
func NewOwner(name, color string) *Owner {
	return &Owner{ID: uuid.New(), Name: name, Color: color}
}

// IsEmpty reports whether the owner drafted nothing. Empty owners are carried
// through display but excluded from win credit.
func (o *Owner) IsEmpty() bool {
	return len(o.Players) == 0 && len(o.Wagers) == 0
}

// GameIDs returns the distinct games the owner's wagers reference.
func (o *Owner) GameIDs() []string {
	seen := make(map[string]struct{}, len(o.Wagers))
	var ids []string
	for _, w := range o.Wagers {
		if _, ok := seen[w.GameID]; ok {
			continue
		}
		seen[w.GameID] = struct{}{}
		ids = append(ids, w.GameID)
	}
	return ids
}
