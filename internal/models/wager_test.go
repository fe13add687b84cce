package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTeasePoints tests the draft-round tease tables
func TestTeasePoints(t *testing.T) {
	tests := []struct {
		name     string
		kind     WagerKind
		round    int
		expected float64
	}{
		{"First round total", WagerOver, 1, 7},
		{"Mid round total", WagerUnder, 4, 4},
		{"Last round total", WagerOver, 8, 0},
		{"First round spread", WagerSpread, 1, 3.5},
		{"Mid round spread", WagerSpread, 5, 1.5},
		{"Last round spread", WagerSpread, 8, 0},
		{"Round out of range", WagerOver, 9, 0},
		{"Round zero", WagerSpread, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wager{Kind: tt.kind, DraftRound: tt.round}
			assert.InDelta(t, tt.expected, w.TeasePoints(), 1e-12)
		})
	}
}

// TestAdjustedLine tests that tease always moves the line in the bettor's favor
func TestAdjustedLine(t *testing.T) {
	tests := []struct {
		name     string
		kind     WagerKind
		line     float64
		round    int
		expected float64
	}{
		{"Over comes down", WagerOver, 47.5, 1, 40.5},
		{"Under goes up", WagerUnder, 47.5, 1, 54.5},
		{"Favorite spread loosens", WagerSpread, -7, 1, -3.5},
		{"Underdog spread grows", WagerSpread, 3, 2, 6},
		{"Round eight leaves line alone", WagerOver, 44, 8, 44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wager{Kind: tt.kind, Line: tt.line, DraftRound: tt.round}
			assert.InDelta(t, tt.expected, w.AdjustedLine(), 1e-12)
		})
	}
}

// TestDefaultPayoff tests the standard payoff schedule per kind
func TestDefaultPayoff(t *testing.T) {
	over := DefaultPayoff(WagerOver)
	assert.Equal(t, 10.0, over.BasePoints)
	assert.Equal(t, 1.0, over.BonusPerPoint)
	assert.Equal(t, 10.0, over.MaxBonus)
	assert.Equal(t, 0.0, over.PushValue)

	under := DefaultPayoff(WagerUnder)
	assert.Equal(t, 2.0, under.BonusPerPoint, "unders pay double bonus")

	spread := DefaultPayoff(WagerSpread)
	assert.Equal(t, 1.0, spread.BonusPerPoint)
}

// TestWagerDescribe tests draft-board rendering of teased lines
func TestWagerDescribe(t *testing.T) {
	tests := []struct {
		name     string
		wager    *Wager
		expected string
	}{
		{
			name:     "Over",
			wager:    &Wager{GameID: "SF @ PHI", Kind: WagerOver, Line: 47.5, DraftRound: 3},
			expected: "SF @ PHI OVER 42.5",
		},
		{
			name:     "Under",
			wager:    &Wager{GameID: "SF @ PHI", Kind: WagerUnder, Line: 47.5, DraftRound: 8},
			expected: "SF @ PHI UNDER 47.5",
		},
		{
			name:     "Spread favorite",
			wager:    &Wager{GameID: "SF @ PHI", Kind: WagerSpread, Team: "SF", Line: -7, DraftRound: 2},
			expected: "SF -4.0",
		},
		{
			name:     "Spread underdog",
			wager:    &Wager{GameID: "SF @ PHI", Kind: WagerSpread, Team: "PHI", Line: 3, DraftRound: 8},
			expected: "PHI +3.0",
		},
		{
			name:     "Teased to pick em",
			wager:    &Wager{GameID: "SF @ PHI", Kind: WagerSpread, Team: "SF", Line: -3.5, DraftRound: 1},
			expected: "SF PK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.wager.Describe())
		})
	}
}

// TestWagerKindValid tests the closed kind set
func TestWagerKindValid(t *testing.T) {
	assert.True(t, WagerSpread.Valid())
	assert.True(t, WagerOver.Valid())
	assert.True(t, WagerUnder.Valid())
	assert.False(t, WagerKind("moneyline").Valid())
	assert.False(t, WagerKind("").Valid())
}

// TestNewWager tests construction defaults
func TestNewWager(t *testing.T) {
	w := NewWager("SF @ PHI", WagerUnder, 47.5, "", 2)
	assert.NotEqual(t, [16]byte{}, [16]byte(w.ID), "ID should be assigned")
	assert.Equal(t, DefaultPayoff(WagerUnder), w.Payoff)
	assert.Equal(t, 2, w.DraftRound)
}

// TestOwnerIsEmpty tests empty-owner detection
func TestOwnerIsEmpty(t *testing.T) {
	o := NewOwner("Alice", "#e6194b")
	assert.True(t, o.IsEmpty())

	o.Wagers = append(o.Wagers, NewWager("SF @ PHI", WagerOver, 47.5, "", 1))
	assert.False(t, o.IsEmpty())

	withPlayer := NewOwner("Bob", "#3cb44b")
	withPlayer.Players = append(withPlayer.Players, Player{Name: "Jalen Hurts", Team: "PHI", Position: PositionQB, Slot: SlotQB})
	assert.False(t, withPlayer.IsEmpty())
}
