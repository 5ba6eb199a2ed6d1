package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/abe-mart/contextual/internal/analyzer"
)

// Исходы обработки окна
const (
	outcomeOK         = "ok"
	outcomeParseError = "parse_error"
	outcomeFailed     = "failed"
)

// Metrics - счётчики пайплайна. Nil-значение допустимо и ничего не делает.
type Metrics struct {
	windows       *prometheus.CounterVec
	parseFailures prometheus.Counter
	unresolved    prometheus.Counter
	duration      prometheus.Histogram
}

// NewMetrics регистрирует метрики в переданном реестре
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		windows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contextual",
			Name:      "windows_total",
			Help:      "Analyzed document windows by outcome.",
		}, []string{"outcome"}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "contextual",
			Name:      "parse_failures_total",
			Help:      "Classifier responses that matched no recognized shape.",
		}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "contextual",
			Name:      "unresolved_terms_total",
			Help:      "Terms whose surface form was not found in their window.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "contextual",
			Name:      "classify_duration_seconds",
			Help:      "Latency of a single classifier call.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}
	reg.MustRegister(m.windows, m.parseFailures, m.unresolved, m.duration)
	return m
}

func (m *Metrics) observe(report analyzer.Report, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(report.Duration.Seconds())
	switch {
	case err != nil:
		m.windows.WithLabelValues(outcomeFailed).Inc()
	case report.ParseErr != nil:
		m.windows.WithLabelValues(outcomeParseError).Inc()
		m.parseFailures.Inc()
	default:
		m.windows.WithLabelValues(outcomeOK).Inc()
		m.unresolved.Add(float64(report.Unresolved))
	}
}
