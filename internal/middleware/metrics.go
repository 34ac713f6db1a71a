package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "telework_redis_errors_total",
	Help: "Total number of Redis command errors",
}, []string{"command"})

// ReconciliationOps counts reconciliation engine operations by operation
// name and outcome (ok, invalid, conflict, not_found, illegal, error).
var ReconciliationOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "telework_reconciliation_operations_total",
	Help: "Total number of recurring-request reconciliation operations",
}, []string{"operation", "outcome"})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the fiber handler recording HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
