package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hiring"

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	stageTransitions = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_transitions_total",
		Help:      "Stage operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	providerDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_call_duration_seconds",
		Help:      "Analysis provider call latency by call kind.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"call", "outcome"})

	validatorOutcomes = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_validations_total",
		Help:      "Identity validation results.",
	}, []string{"result"})

	verdicts = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verdicts_total",
		Help:      "Generated verdicts by decision and confidence.",
	}, []string{"decision", "confidence"})

	reportExports = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_exports_total",
		Help:      "Rendered evaluation reports.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IncStageTransition counts a stage operation with outcome "ok" or an error kind.
func IncStageTransition(operation, outcome string) {
	stageTransitions.WithLabelValues(operation, outcome).Inc()
}

// ObserveProviderCall records the latency of one analysis provider call.
func ObserveProviderCall(call string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	providerDuration.WithLabelValues(call, outcome).Observe(d.Seconds())
}

// IncValidation counts an identity validation result.
func IncValidation(result string) {
	validatorOutcomes.WithLabelValues(result).Inc()
}

// IncVerdict counts a generated verdict.
func IncVerdict(decision, confidence string) {
	verdicts.WithLabelValues(decision, confidence).Inc()
}

// IncReportExport counts a rendered report.
func IncReportExport() {
	reportExports.Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
