package mockbackend

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the per-server prometheus registry. A fresh registry per
// server keeps parallel test instances from fighting over collector names.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parkmock",
		Name:      "http_requests_total",
		Help:      "Requests served, labelled by route pattern and status.",
	}, []string{"route", "status"})
	registry.MustRegister(requests)
	return &metrics{registry: registry, requests: requests}
}

func (m *metrics) handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// middleware counts every request once the handler chain has written the
// response.
func (m *metrics) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)

		status := c.Response().Status
		if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
		}
		route := c.Request().Method + " " + c.Path()
		m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		return err
	}
}
