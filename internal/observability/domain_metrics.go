package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	questionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talk2db_questions_total",
			Help: "Total number of questions processed, by outcome.",
		},
		[]string{"outcome"},
	)
	attemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talk2db_attempts_total",
			Help: "Total number of synthesis attempts, by stage outcome.",
		},
		[]string{"stage", "status"},
	)
	questionDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "talk2db_question_duration_seconds",
			Help:    "End-to-end latency of one question through the correction loop.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
	)
	retrievalBreadth = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "talk2db_retrieval_breadth",
			Help:    "Schema facts requested per retrieval call.",
			Buckets: []float64{2, 4, 8, 16, 32, 64},
		},
	)
	chartsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talk2db_charts_total",
			Help: "Chart specs produced, by kind (including none).",
		},
		[]string{"kind"},
	)
	sessionResetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "talk2db_session_resets_total",
			Help: "Total number of cached-resource resets.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		questionsTotal,
		attemptsTotal,
		questionDurationSeconds,
		retrievalBreadth,
		chartsTotal,
		sessionResetsTotal,
	)
}

func ObserveQuestion(outcome string, elapsed time.Duration) {
	questionsTotal.WithLabelValues(outcome).Inc()
	questionDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveAttemptStage(stage, status string) {
	attemptsTotal.WithLabelValues(stage, status).Inc()
}

func ObserveRetrievalBreadth(k int) {
	retrievalBreadth.Observe(float64(k))
}

func ObserveChart(kind string) {
	chartsTotal.WithLabelValues(kind).Inc()
}

func IncrementSessionReset() {
	sessionResetsTotal.Inc()
}
