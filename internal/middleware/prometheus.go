package middleware

import (
	"strconv"
	"time"

	"photofolio/internal/metrics"

	"github.com/labstack/echo/v4"
)

// PrometheusMetrics считает запросы и их длительность по маршруту.
// Лейбл path — шаблон маршрута, а не сырой URI, чтобы /static/* и
// запросы с query-параметрами не плодили серии.
func PrometheusMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		route := c.Path()
		if route == "/metrics" {
			// Скрейпы самого прометея не инструментируем
			return next(c)
		}

		start := time.Now()
		err := next(c)
		elapsed := time.Since(start).Seconds()

		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request().Method,
			route,
			strconv.Itoa(c.Response().Status),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request().Method,
			route,
		).Observe(elapsed)

		return err
	}
}
