package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "railbot"
	// Subsystem for daemon metrics
	subsystem = "daemon"
)

// Registry is the global Prometheus registry for all metrics.
// Nil while metrics are disabled; collectors treat that as a no-op.
var Registry *prometheus.Registry

// InitRegistry initializes the Prometheus registry.
// Should be called once at application startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry.
// Returns nil if metrics are not initialized.
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}
