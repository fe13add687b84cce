package league

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wildcard-sim/internal/models"
)

// Name variants seen across projection exports and draft boards. Projections
// are stored under both spellings so either side of the pair resolves.
var nameAliases = map[string]string{
	"Devonta Smith":      "DeVonta Smith",
	"D'Andre Swift":      "D'Andre Swift",
	"Travis Etienne Jr.": "Travis Etienne Jr.",
}

// Team code variants across data sources.
var teamAliases = map[string]string{
	"JAC": "JAX",
	"LA":  "LAR",
}

// NormalizeTeam maps source-specific team abbreviations to the canonical code.
func NormalizeTeam(team string) string {
	if canonical, ok := teamAliases[team]; ok {
		return canonical
	}
	return team
}

// Skill export layout: Player,Team,POS,ATT,YDS,TDS,REC,YDS,TDS,FL,FPTS.
// The YDS and TDS headers repeat; the first group is rushing, the second
// receiving. FPTS is recomputed from the scoring rules and ignored.
const skillColumns = 11

// LoadSkillProjections reads RB/WR/TE projections from a weekly export.
func LoadSkillProjections(path string) (map[string]models.Projection, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	projections := make(map[string]models.Projection)
	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		if len(rec) < skillColumns || strings.TrimSpace(rec[0]) == "" {
			continue
		}

		if _, err := models.ParsePosition(rec[2]); err != nil {
			continue // kickers, defenses and other unrostered positions
		}

		vals, err := parseFloats(rec[3:10], path, i)
		if err != nil {
			return nil, err
		}

		proj := models.Projection{
			RushAttempts: vals[0],
			RushYards:    vals[1],
			RushTDs:      vals[2],
			Receptions:   vals[3],
			RecYards:     vals[4],
			RecTDs:       vals[5],
			FumblesLost:  vals[6],
		}
		storeProjection(projections, strings.TrimSpace(rec[0]), proj)
	}
	return projections, nil
}

// QB export layout: Player,Team,ATT,CMP,YDS,TDS,INTS,ATT,YDS,TDS,FL,FPTS.
// The ATT/YDS/TDS headers repeat; the first group is passing, the second
// rushing. The export ships with a blank second row and stray empty cells,
// which coerce to zero.
const qbColumns = 12

// LoadQBProjections reads QB projections from a weekly export.
func LoadQBProjections(path string) (map[string]models.Projection, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	projections := make(map[string]models.Projection)
	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		if len(rec) < qbColumns || strings.TrimSpace(rec[0]) == "" {
			continue
		}

		proj := models.Projection{
			PassAttempts:    coerceFloat(rec[2]),
			PassCompletions: coerceFloat(rec[3]),
			PassYards:       coerceFloat(rec[4]),
			PassTDs:         coerceFloat(rec[5]),
			Interceptions:   coerceFloat(rec[6]),
			RushAttempts:    coerceFloat(rec[7]),
			RushYards:       coerceFloat(rec[8]),
			RushTDs:         coerceFloat(rec[9]),
			FumblesLost:     coerceFloat(rec[10]),
		}
		storeProjection(projections, strings.TrimSpace(rec[0]), proj)
	}
	return projections, nil
}

// LoadAllProjections loads and merges the skill and QB exports. Either path
// may be empty to skip that file.
func LoadAllProjections(skillPath, qbPath string, logger *logrus.Logger) (map[string]models.Projection, error) {
	if logger == nil {
		logger = logrus.New()
	}

	projections := make(map[string]models.Projection)

	if skillPath != "" {
		skill, err := LoadSkillProjections(skillPath)
		if err != nil {
			return nil, fmt.Errorf("skill projections: %w", err)
		}
		for name, proj := range skill {
			projections[name] = proj
		}
		logger.WithFields(logrus.Fields{"path": skillPath, "players": len(skill)}).Info("Skill projections loaded")
	}

	if qbPath != "" {
		qb, err := LoadQBProjections(qbPath)
		if err != nil {
			return nil, fmt.Errorf("qb projections: %w", err)
		}
		for name, proj := range qb {
			projections[name] = proj
		}
		logger.WithFields(logrus.Fields{"path": qbPath, "players": len(qb)}).Info("QB projections loaded")
	}

	return projections, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open projections file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow ragged rows, they are filtered below

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

func parseFloats(fields []string, path string, row int) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad value %q: %w", path, row+1, field, err)
		}
		out[i] = v
	}
	return out, nil
}

func coerceFloat(field string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0
	}
	return v
}

// storeProjection indexes a projection under its export name and any known
// alias spelling of that name.
func storeProjection(projections map[string]models.Projection, name string, proj models.Projection) {
	projections[name] = proj
	for variant, canonical := range nameAliases {
		if name == canonical {
			projections[variant] = proj
		} else if name == variant {
			projections[canonical] = proj
		}
	}
}
