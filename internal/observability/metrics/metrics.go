package metrics

import "github.com/prometheus/client_golang/prometheus"

// RecommendMetrics exposes counters/histograms for the recommendation
// pipeline: questionnaire submissions, per-model fallback attempts and
// catalog match outcomes.
type RecommendMetrics struct {
	submissionsTotal *prometheus.CounterVec
	modelAttempts    *prometheus.CounterVec
	modelLatency     *prometheus.HistogramVec
	matchesTotal     *prometheus.CounterVec
}

func NewRecommendMetrics(reg prometheus.Registerer) *RecommendMetrics {
	m := &RecommendMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spa",
			Subsystem: "recommend",
			Name:      "submissions_total",
			Help:      "Total questionnaire submissions",
		}, []string{"status"}),
		modelAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spa",
			Subsystem: "recommend",
			Name:      "model_attempts_total",
			Help:      "Total per-model attempts in the fallback chain",
		}, []string{"model", "status"}),
		modelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spa",
			Subsystem: "recommend",
			Name:      "model_latency_seconds",
			Help:      "Latency of text-generation attempts",
			Buckets:   prometheus.DefBuckets,
		}, []string{"model"}),
		matchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spa",
			Subsystem: "matching",
			Name:      "matches_total",
			Help:      "Catalog match outcomes by tier (tier \"none\" is a miss)",
		}, []string{"tier"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.modelAttempts, m.modelLatency, m.matchesTotal)
	return m
}

// ObserveSubmission records a completed submission with its outcome.
func (m *RecommendMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

// ObserveAttempt implements llm.AttemptObserver.
func (m *RecommendMetrics) ObserveAttempt(model, status string, seconds float64) {
	if m == nil {
		return
	}
	m.modelAttempts.WithLabelValues(model, status).Inc()
	m.modelLatency.WithLabelValues(model).Observe(seconds)
}

// ObserveMatch records which tier resolved a mention, or a miss.
func (m *RecommendMetrics) ObserveMatch(tier string) {
	if m == nil {
		return
	}
	m.matchesTotal.WithLabelValues(tier).Inc()
}
