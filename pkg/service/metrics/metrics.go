package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics records nothing.
type Metrics struct {
	RiskEvaluations   *prometheus.CounterVec
	InvalidInputs     prometheus.Counter
	DriftedRecords    prometheus.Gauge
	AuditRuns         *prometheus.CounterVec
	SurveySubmissions prometheus.Counter
	HTTPDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RiskEvaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hra_risk_evaluations_total",
				Help: "Total number of successful risk evaluations by risk code.",
			},
			[]string{"code"},
		),
		InvalidInputs: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hra_risk_invalid_inputs_total",
				Help: "Total number of risk evaluations rejected for invalid likelihood or severity.",
			},
		),
		DriftedRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hra_risk_drifted_records",
				Help: "Number of stored HRA records whose derived risk fields disagree with the matrix, as of the last audit.",
			},
		),
		AuditRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hra_risk_audit_runs_total",
				Help: "Total number of risk consistency audits.",
			},
			[]string{"result"},
		),
		SurveySubmissions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hra_survey_submissions_total",
				Help: "Total number of accepted daily job surveys.",
			},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hra_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// RecordEvaluation counts an evaluation outcome. code is empty for invalid input.
func (m *Metrics) RecordEvaluation(code types.RiskCode) {
	if m == nil {
		return
	}
	if code == "" {
		m.InvalidInputs.Inc()
		return
	}
	m.RiskEvaluations.WithLabelValues(string(code)).Inc()
}

// RecordAudit stores the result of a consistency audit
func (m *Metrics) RecordAudit(drifted int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.AuditRuns.WithLabelValues("error").Inc()
		return
	}
	m.AuditRuns.WithLabelValues("ok").Inc()
	m.DriftedRecords.Set(float64(drifted))
}

func (m *Metrics) RecordSurveySubmission() {
	if m == nil {
		return
	}
	m.SurveySubmissions.Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
