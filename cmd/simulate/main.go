// Package main provides the entry point for the one-shot simulation CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wildcard-sim/internal/config"
	"github.com/yourusername/wildcard-sim/internal/datasource"
	"github.com/yourusername/wildcard-sim/internal/league"
	"github.com/yourusername/wildcard-sim/internal/logger"
	"github.com/yourusername/wildcard-sim/internal/service"
	"github.com/yourusername/wildcard-sim/internal/simulation"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		leaguePath = flag.String("league", "", "Override league file path")
		trials     = flag.Int("n", 0, "Number of trials (0 uses the configured default)")
		seed       = flag.Int64("seed", 0, "Random seed (0 draws from the clock)")
		refresh    = flag.Bool("refresh", false, "Pull live scores once before simulating")
		jsonOut    = flag.Bool("json", false, "Emit the snapshot as JSON instead of a console report")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *leaguePath != "" {
		cfg.League.File = *leaguePath
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	appLog := newLogger(cfg, *jsonOut)
	ctx := context.Background()

	lg := loadLeague(cfg, appLog)
	if *refresh {
		refreshOnce(ctx, cfg, lg, appLog)
	}

	sims, err := service.NewSimulationService(lg, cfg.Simulation, nil, appLog)
	if err != nil {
		appLog.Fatalf("Failed to create simulation service: %v", err)
	}

	snapshot, err := sims.Snapshot(ctx, *trials)
	if err != nil {
		appLog.Fatalf("Simulation failed: %v", err)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snapshot); err != nil {
			appLog.Fatalf("Failed to encode snapshot: %v", err)
		}
		return
	}

	fmt.Print(simulation.ConsoleReport(snapshot))
}

// newLogger keeps structured output off stdout so -json emits clean JSON.
func newLogger(cfg *config.Config, quiet bool) *logrus.Logger {
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.SetOutput(os.Stderr)
	if quiet {
		appLog.SetLevel(logrus.WarnLevel)
	}
	return appLog
}

func loadLeague(cfg *config.Config, appLog *logrus.Logger) *league.League {
	lg, err := league.NewLoader(appLog, cfg.League.DefaultColor).Load(cfg.League.File)
	if err != nil {
		appLog.Fatalf("Failed to load league: %v", err)
	}

	if cfg.League.SkillProjections != "" || cfg.League.QBProjections != "" {
		projections, err := league.LoadAllProjections(cfg.League.SkillProjections, cfg.League.QBProjections, appLog)
		if err != nil {
			appLog.Fatalf("Failed to load projections: %v", err)
		}
		if missing := lg.BindProjections(projections); len(missing) > 0 {
			appLog.WithField("players", missing).Warn("No projections found for some rostered players")
		}
	}
	if cfg.Simulation.PushValue > 0 {
		lg.SetPushValue(cfg.Simulation.PushValue)
	}
	return lg
}

func refreshOnce(ctx context.Context, cfg *config.Config, lg *league.League, appLog *logrus.Logger) {
	dsLogger := log.New(appLog.WriterLevel(logrus.DebugLevel), "datasource: ", 0)
	provider, err := datasource.NewFactory(dsLogger).NewProvider(cfg.DataSource)
	if err != nil {
		appLog.Fatalf("Failed to create score provider: %v", err)
	}

	refresher := service.NewRefresher(lg, provider, logger.NewRefreshLogger(appLog))
	report, err := refresher.Refresh(ctx)
	if err != nil {
		appLog.Fatalf("Live refresh failed: %v", err)
	}
	appLog.WithFields(logrus.Fields{
		"updated": report.Updated,
		"finals":  report.Finals,
	}).Info("Live scores refreshed")
}
