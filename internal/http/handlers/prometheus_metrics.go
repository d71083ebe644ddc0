package handlers

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/valyala/fasthttp"
)

var (
	requestsTotal      *prometheus.CounterVec
	scoreComputations  prometheus.Counter
	alertBreachesTotal *prometheus.CounterVec
	quickSessionsTotal prometheus.Counter
)

func InitPrometheusMetrics() {
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vendorscore",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served.",
		},
		[]string{"route", "method", "status"},
	)
	scoreComputations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vendorscore",
			Name:      "score_computations_total",
			Help:      "Total number of on-demand vendor score computations.",
		},
	)
	alertBreachesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vendorscore",
			Name:      "alert_breaches_total",
			Help:      "Total number of SLA threshold breaches detected.",
		},
		[]string{"alert_type"},
	)
	quickSessionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vendorscore",
			Name:      "quick_sessions_total",
			Help:      "Total number of quick comparison sessions created.",
		},
	)
	prometheus.MustRegister(requestsTotal, scoreComputations, alertBreachesTotal, quickSessionsTotal)
}

func observeRequest(route, method string, status int) {
	if requestsTotal == nil {
		return
	}
	requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

func observeScoreComputation() {
	if scoreComputations != nil {
		scoreComputations.Inc()
	}
}

func observeBreach(alertType string) {
	if alertBreachesTotal != nil {
		alertBreachesTotal.WithLabelValues(alertType).Inc()
	}
}

func observeQuickSession() {
	if quickSessionsTotal != nil {
		quickSessionsTotal.Inc()
	}
}

// MetricsHandler serves the Prometheus text exposition of all registered
// collectors. A "prefix" query parameter narrows the output to metric
// families whose name starts with it.
func MetricsHandler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		gathered, err := prometheus.DefaultGatherer.Gather()
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			ctx.SetBodyString("failed to gather metrics")
			return
		}

		metricFamilies := gathered
		if prefix := string(ctx.QueryArgs().Peek("prefix")); prefix != "" {
			filtered := make([]*dto.MetricFamily, 0, len(gathered))
			for _, mf := range gathered {
				if strings.HasPrefix(mf.GetName(), prefix) {
					filtered = append(filtered, mf)
				}
			}
			metricFamilies = filtered
		}

		var buf bytes.Buffer
		encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
		for _, mf := range metricFamilies {
			if err := encoder.Encode(mf); err != nil {
				ctx.SetStatusCode(fasthttp.StatusInternalServerError)
				ctx.SetBodyString("failed to encode metrics")
				return
			}
		}

		ctx.SetContentType(string(expfmt.FmtText))
		ctx.Response.Header.Set("Cache-Control", "no-store")
		ctx.SetBody(buf.Bytes())
	}
}
