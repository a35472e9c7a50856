package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chuo_http_request_duration_seconds",
		Help:    "HTTP request latencies by path and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	sessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chuo_attendance_sessions_opened_total",
		Help: "Attendance sessions opened.",
	})

	joinAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chuo_attendance_join_attempts_total",
		Help: "Check-in attempts by outcome.",
	}, []string{"outcome"})
)

const (
	joinOutcomeOK        = "ok"
	joinOutcomeInvalid   = "invalid_code"
	joinOutcomeDuplicate = "duplicate"
	joinOutcomeError     = "error"
)

func requestMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			// observe once the response is committed so errored requests carry
			// the status resolved by the error handler, not the 200 default
			ctx.Response().After(func() {
				requestDuration.WithLabelValues(
					ctx.Request().Method,
					ctx.Path(),
					strconv.Itoa(ctx.Response().Status),
				).Observe(time.Since(start).Seconds())
			})
			return next(ctx)
		}
	}
}
