package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// ErrOffGridLine marks a betting line that does not sit on the half-point
// grid. Lines off the grid would let a simulated margin land exactly on a
// spread that can never push in the real league.
var ErrOffGridLine = errors.New("line not on half-point grid")

// lineEpsilon absorbs float noise from YAML and JSON decoding. Anything
// further from the grid than this is a genuinely bad line.
const lineEpsilon = 1e-9

var two = decimal.NewFromInt(2)

// LineNormalizer validates betting lines against the league's half-point grid.
// Spreads and totals are quoted in half points; tease arithmetic and push
// detection both assume it.
type LineNormalizer struct {
	logger *logrus.Logger
}

// NewLineNormalizer creates a line normalizer.
func NewLineNormalizer(logger *logrus.Logger) *LineNormalizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &LineNormalizer{logger: logger}
}

// SnapLine rounds a line to the nearest half point. Exact halves round away
// from zero, matching how books move lines.
func (n *LineNormalizer) SnapLine(line float64) float64 {
	return decimal.NewFromFloat(line).Mul(two).Round(0).Div(two).InexactFloat64()
}

// NormalizeLine snaps decode noise onto the grid and rejects lines that are
// genuinely off it.
func (n *LineNormalizer) NormalizeLine(line float64) (float64, error) {
	snapped := n.SnapLine(line)
	if math.Abs(line-snapped) > lineEpsilon {
		return 0, fmt.Errorf("%w: %g", ErrOffGridLine, line)
	}
	return snapped, nil
}

// ValidateGame checks a game's posted lines: spread on the grid, total on the
// grid and positive.
func (n *LineNormalizer) ValidateGame(g *models.Game) error {
	if _, err := n.NormalizeLine(g.Spread); err != nil {
		return fmt.Errorf("game %s spread: %w", g.ID, err)
	}
	if _, err := n.NormalizeLine(g.OverUnder); err != nil {
		return fmt.Errorf("game %s total: %w", g.ID, err)
	}
	if g.OverUnder <= 0 {
		return fmt.Errorf("game %s total: %g must be positive", g.ID, g.OverUnder)
	}
	return nil
}

// ValidateWager checks a drafted line the same way.
func (n *LineNormalizer) ValidateWager(w *models.Wager) error {
	if _, err := n.NormalizeLine(w.Line); err != nil {
		return fmt.Errorf("wager %s: %w", w.Describe(), err)
	}
	if (w.Kind == models.WagerOver || w.Kind == models.WagerUnder) && w.Line <= 0 {
		return fmt.Errorf("wager %s: total %g must be positive", w.Describe(), w.Line)
	}
	return nil
}

// ValidateLeague checks every posted and drafted line in the slate. The first
// bad line fails the whole league; a slate never simulates half-validated.
func (n *LineNormalizer) ValidateLeague(games []*models.Game, owners []*models.Owner) error {
	for _, g := range games {
		if err := n.ValidateGame(g); err != nil {
			return err
		}
	}
	wagers := 0
	for _, o := range owners {
		for _, w := range o.Wagers {
			if err := n.ValidateWager(w); err != nil {
				return fmt.Errorf("owner %s: %w", o.Name, err)
			}
			wagers++
		}
	}
	n.logger.WithFields(logrus.Fields{
		"games":  len(games),
		"wagers": wagers,
	}).Info("Betting lines validated on half-point grid")
	return nil
}
