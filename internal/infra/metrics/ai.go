package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiCallsLatencyMs,
		aiPromptTokensEstimated,
		aiFallbackAdvances,
		aiProvidersExhausted,
	)
}

var (
	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "Provider call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"provider", "success"},
	)

	aiPromptTokensEstimated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_prompt_tokens_estimated",
			Help: "Sum of estimated prompt tokens per provider (diagnostics only).",
		},
		[]string{"provider"},
	)

	aiFallbackAdvances = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_fallback_advances_total",
			Help: "Times the router advanced past a failing provider.",
		},
		[]string{"provider"},
	)

	aiProvidersExhausted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_providers_exhausted_total",
			Help: "Routed requests that fell through every provider.",
		},
	)
)

func ObserveProviderCall(provider string, latencyMs int, success bool) {
	aiCallsLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func AddPromptTokensEstimate(provider string, tokens int) {
	aiPromptTokensEstimated.WithLabelValues(norm(provider)).Add(float64(tokens))
}

func IncFallbackAdvance(provider string) {
	aiFallbackAdvances.WithLabelValues(norm(provider)).Inc()
}

func IncProvidersExhausted() { aiProvidersExhausted.Inc() }
