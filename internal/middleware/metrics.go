package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application-level counters in addition to the fiberprometheus HTTP metrics.
var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_cache_hits_total",
		Help: "Cache-aside hits by key prefix",
	}, []string{"prefix"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_cache_misses_total",
		Help: "Cache-aside misses by key prefix",
	}, []string{"prefix"})

	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_redis_errors_total",
		Help: "Redis command errors by command name",
	}, []string{"command"})
)

// InitMetrics creates the fiberprometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
