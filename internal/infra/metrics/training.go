package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		trainingSessionsTotal,
		trainingSessionsRunning,
		trainingPhaseDurationMs,
	)
}

var (
	trainingSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_sessions_total",
			Help: "Training sessions reaching a terminal state, labeled by status.",
		},
		[]string{"status"}, // 'completed', 'failed'
	)

	trainingSessionsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "training_sessions_running",
			Help: "Training sessions currently being orchestrated.",
		},
	)

	trainingPhaseDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "training_phase_duration_ms",
			Help:    "Duration of each pipeline phase in milliseconds.",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 15000, 60000},
		},
		[]string{"phase"},
	)
)

func IncTrainingSession(status string) {
	trainingSessionsTotal.WithLabelValues(norm(status)).Inc()
}

func TrainingSessionStarted()  { trainingSessionsRunning.Inc() }
func TrainingSessionFinished() { trainingSessionsRunning.Dec() }

func ObservePhaseDuration(phase string, ms int) {
	trainingPhaseDurationMs.WithLabelValues(norm(phase)).Observe(float64(ms))
}
