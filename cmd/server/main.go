// Package main provides the entry point for the Wildcard Sim API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/wildcard-sim/internal/api"
	"github.com/yourusername/wildcard-sim/internal/config"
	"github.com/yourusername/wildcard-sim/internal/database"
	"github.com/yourusername/wildcard-sim/internal/datasource"
	"github.com/yourusername/wildcard-sim/internal/health"
	"github.com/yourusername/wildcard-sim/internal/league"
	"github.com/yourusername/wildcard-sim/internal/logger"
	"github.com/yourusername/wildcard-sim/internal/metrics"
	"github.com/yourusername/wildcard-sim/internal/repository"
	"github.com/yourusername/wildcard-sim/internal/scheduler"
	"github.com/yourusername/wildcard-sim/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "wildcard-sim",
	Short: "Fantasy wildcard weekend win-probability server",
	Long: `Serves Monte Carlo win probabilities for a wildcard weekend fantasy league
over HTTP, with live score ingestion, manual corrections and a websocket feed.`,
	Run: func(cmd *cobra.Command, args []string) {
		run()
	},
}

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.History.Enabled && cfg.History.SecretsName != "" {
		if err := config.LoadSecretsFromAWS(cfg, cfg.History.SecretsRegion, cfg.History.SecretsName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"build_date":  BuildDate,
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Wildcard Sim starting")

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.InitRegistry()

	// League state
	lg, err := league.NewLoader(appLog, cfg.League.DefaultColor).Load(cfg.League.File)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load league")
	}

	if cfg.League.SkillProjections != "" || cfg.League.QBProjections != "" {
		projections, err := league.LoadAllProjections(cfg.League.SkillProjections, cfg.League.QBProjections, appLog)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to load projections")
		}
		if missing := lg.BindProjections(projections); len(missing) > 0 {
			appLog.WithField("players", missing).Warn("No projections found for some rostered players")
		}
	}
	if cfg.Simulation.PushValue > 0 {
		lg.SetPushValue(cfg.Simulation.PushValue)
	}

	// Live score provider
	dsLogger := log.New(appLog.WriterLevel(logrus.DebugLevel), "datasource: ", 0)
	provider, err := datasource.NewFactory(dsLogger).NewProvider(cfg.DataSource)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create score provider")
	}
	refresher := service.NewRefresher(lg, provider, logger.NewRefreshLogger(appLog))

	// Optional win-probability history store
	var (
		db       *database.DB
		recorder service.ResultRecorder
	)
	if cfg.History.Enabled {
		db, err = database.Initialize(context.Background(), cfg.History.Database)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to history database")
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to initialize repositories")
		}
		recorder = repos.History
		appLog.Info("Win-probability history store connected")
	}

	sims, err := service.NewSimulationService(lg, cfg.Simulation, recorder, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create simulation service")
	}

	apiServer := api.NewServer(cfg.Server, lg, sims, refresher, nil, appLog)

	// Ops server: health probes plus the metrics endpoint
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = metrics.Handler()
	}
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        fmt.Sprint(cfg.Metrics.Port),
		Logger:      appLog,
		Metrics:     metricsHandler,
		MetricsPath: cfg.Metrics.Path,
	}
	if db != nil {
		healthCfg.DB = db
	}
	healthServer := health.NewServer(healthCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start ops server")
	}

	var sched *scheduler.Scheduler
	if cfg.Refresh.Enabled {
		sched = scheduler.New(refresher, sims, apiServer.Hub(), appLog)
		if err := sched.ScheduleRefresh(cfg.Refresh.Schedule, cfg.Refresh.SimulateAfter); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule refresh job")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
	} else {
		appLog.Info("Live refresh disabled; scores update through the API only")
	}

	go func() {
		if err := apiServer.Start(); err != nil {
			appLog.WithError(err).Fatal("API server failed")
		}
	}()

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"address":  cfg.Server.Address(),
		"ops_port": cfg.Metrics.Port,
		"provider": provider.Name(),
		"trials":   cfg.Simulation.Trials,
		"history":  cfg.History.Enabled,
	}).Info("Wildcard Sim running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error stopping scheduler")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during API server shutdown")
	}

	appLog.Info("Wildcard Sim shut down successfully")
}
