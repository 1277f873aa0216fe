package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	auditLogsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "legalaid_audit_logs_written_total",
		Help: "Total number of audit log entries written, by target type and action",
	}, []string{"target_type", "action"})

	auditNoteFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "legalaid_audit_note_fallbacks_total",
		Help: "Total number of audit notes that fell back to the entity type name",
	})

	caseNumbersIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "legalaid_case_numbers_issued_total",
		Help: "Total number of case numbers issued, by case office code",
	}, []string{"case_office_code"})

	reportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "legalaid_report_duration_seconds",
		Help:    "Duration of summary report generation",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"kind"})

	reportCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "legalaid_report_cache_hits_total",
		Help: "Total number of summary reports served from cache",
	}, []string{"kind"})
)

// observeReport records the duration of a report run.
// Call with time.Now() at the start of the operation.
func observeReport(kind string, start time.Time) {
	reportDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
