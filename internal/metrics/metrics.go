// Package metrics provides the centralized Prometheus metrics registry for the simulator.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SimulationRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "simulation_runs_total",
		Help:      "Total number of completed simulation runs",
	})
	SimulationTrialsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "simulation_trials_total",
		Help:      "Total number of Monte Carlo trials executed",
	})
	SimulationErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "simulation_errors_total",
		Help:      "Total number of failed simulation runs",
	})
	ResultCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "result_cache_hits_total",
		Help:      "Total number of simulation result cache hits",
	})
	ResultCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "result_cache_misses_total",
		Help:      "Total number of simulation result cache misses",
	})
	RefreshCyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "refresh_cycles_total",
		Help:      "Total number of completed scoreboard refresh cycles",
	})
	RefreshErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "refresh_errors_total",
		Help:      "Total number of failed scoreboard refresh cycles",
	})
	GameUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "game_updates_total",
		Help:      "Total number of game state updates applied",
	})
	GameUpdatesRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "game_updates_rejected_total",
		Help:      "Total number of game state updates rejected",
	})
)

// Gauge metrics
var (
	LiveGames = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wildcard_sim",
		Name:      "live_games",
		Help:      "Number of games currently in progress",
	})
	FinalGames = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wildcard_sim",
		Name:      "final_games",
		Help:      "Number of games that have gone final",
	})
	OwnerWinProbability = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wildcard_sim",
		Name:      "owner_win_probability",
		Help:      "Latest simulated win probability for each owner",
	}, []string{"owner"})
)

// Histogram metrics
var (
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wildcard_sim",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of simulation runs in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wildcard_sim",
		Name:      "refresh_duration_seconds",
		Help:      "Duration of scoreboard refresh cycles in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(SimulationRunsTotal)
		registry.MustRegister(SimulationTrialsTotal)
		registry.MustRegister(SimulationErrorsTotal)
		registry.MustRegister(ResultCacheHitsTotal)
		registry.MustRegister(ResultCacheMissesTotal)
		registry.MustRegister(RefreshCyclesTotal)
		registry.MustRegister(RefreshErrorsTotal)
		registry.MustRegister(GameUpdatesTotal)
		registry.MustRegister(GameUpdatesRejectedTotal)

		// Register gauge metrics
		registry.MustRegister(LiveGames)
		registry.MustRegister(FinalGames)
		registry.MustRegister(OwnerWinProbability)

		// Register histogram metrics
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(RefreshDuration)

		// Register HTTP metrics
		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(ConnectedClients)
		registry.MustRegister(BroadcastsTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSimulation records a completed simulation run.
func RecordSimulation(trials int, durationSeconds float64) {
	SimulationRunsTotal.Inc()
	SimulationTrialsTotal.Add(float64(trials))
	SimulationDuration.Observe(durationSeconds)
}

// RecordSimulationError records a failed simulation run.
func RecordSimulationError() {
	SimulationErrorsTotal.Inc()
}

// RecordResultCacheHit records a simulation result served from cache.
func RecordResultCacheHit() {
	ResultCacheHitsTotal.Inc()
}

// RecordResultCacheMiss records a simulation result cache miss.
func RecordResultCacheMiss() {
	ResultCacheMissesTotal.Inc()
}

// RecordRefresh records a completed scoreboard refresh cycle.
func RecordRefresh(updated, rejected int, durationSeconds float64) {
	RefreshCyclesTotal.Inc()
	GameUpdatesTotal.Add(float64(updated))
	GameUpdatesRejectedTotal.Add(float64(rejected))
	RefreshDuration.Observe(durationSeconds)
}

// RecordRefreshError records a failed scoreboard refresh cycle.
func RecordRefreshError() {
	RefreshErrorsTotal.Inc()
}

// RecordGameUpdateRejected records a rejected game state update.
func RecordGameUpdateRejected() {
	GameUpdatesRejectedTotal.Inc()
}

// UpdateGameGauges updates the live and final game gauges.
func UpdateGameGauges(live, final int) {
	LiveGames.Set(float64(live))
	FinalGames.Set(float64(final))
}

// UpdateOwnerWinProbability updates the win probability gauge for an owner.
func UpdateOwnerWinProbability(owner string, probability float64) {
	OwnerWinProbability.WithLabelValues(owner).Set(probability)
}
