package models

import "errors"

// Custom errors
var (
	ErrGameNotFound      = errors.New("game not found")
	ErrInvalidGameID     = errors.New("invalid game identifier")
	ErrUnknownTeam       = errors.New("team does not play in game")
	ErrUnknownGame       = errors.New("wager references unknown game")
	ErrGameFinal         = errors.New("game is final and cannot be updated")
	ErrQuarterRegression = errors.New("quarter cannot move backwards")
	ErrDuplicateOwner    = errors.New("duplicate owner name")
	ErrInvalidWagerKind  = errors.New("unsupported wager kind")
	ErrNonFiniteSample   = errors.New("sampled score is not finite")
)
