package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/railbot-go/internal/application/turns"
)

// TurnMetricsCollector records what the bot turn scheduler is doing: how
// turns end, how long they take, and how many games sit in the pending and
// queued sets.
type TurnMetricsCollector struct {
	turnsTotal   *prometheus.CounterVec
	turnDuration prometheus.Histogram
	pendingGames prometheus.Gauge
	queuedGames  prometheus.Gauge
}

// NewTurnMetricsCollector creates a new turn metrics collector
func NewTurnMetricsCollector() *TurnMetricsCollector {
	return &TurnMetricsCollector{
		turnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "bot_turns_total",
				Help:      "Bot turns by outcome (completed, failed, error, throttled)",
			},
			[]string{"outcome"},
		),
		turnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "bot_turn_duration_seconds",
				Help:      "Bot turn duration from scheduling to seat advance",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 3.0, 5.0, 10.0},
			},
		),
		pendingGames: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pending_games",
				Help:      "Games with a bot turn currently in flight",
			},
		),
		queuedGames: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queued_games",
				Help:      "Games whose bot turns wait for a human to reconnect",
			},
		),
	}
}

// Register registers all turn metrics with the Prometheus registry
func (c *TurnMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.turnsTotal,
		c.turnDuration,
		c.pendingGames,
		c.queuedGames,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// TurnFinished records one finished scheduler run
func (c *TurnMetricsCollector) TurnFinished(outcome string, seconds float64) {
	c.turnsTotal.WithLabelValues(outcome).Inc()
	c.turnDuration.Observe(seconds)
}

// SetPendingGames updates the in-flight gauge
func (c *TurnMetricsCollector) SetPendingGames(n int) {
	c.pendingGames.Set(float64(n))
}

// SetQueuedGames updates the waiting-for-humans gauge
func (c *TurnMetricsCollector) SetQueuedGames(n int) {
	c.queuedGames.Set(float64(n))
}

// Ensure TurnMetricsCollector implements the scheduler's metrics interface
var _ turns.SchedulerMetrics = (*TurnMetricsCollector)(nil)
