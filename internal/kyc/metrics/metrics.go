package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the kyc module: entry creation counts
// and per-operation durations.
type Metrics struct {
	EntriesCreated prometheus.Counter
	EntriesDeleted prometheus.Counter
	CreateDuration prometheus.Histogram
	GetDuration    prometheus.Histogram
	UpdateDuration prometheus.Histogram
	DeleteDuration prometheus.Histogram
}

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// New creates a Metrics instance with all kyc module metrics registered.
func New() *Metrics {
	return &Metrics{
		EntriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kyc_entries_created_total",
			Help: "Total number of KYC entries created",
		}),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kyc_entries_deleted_total",
			Help: "Total number of KYC entries deleted",
		}),
		CreateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_create_duration_seconds",
			Help:    "Duration of Create operations",
			Buckets: durationBuckets,
		}),
		GetDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_get_duration_seconds",
			Help:    "Duration of GetByEmail operations",
			Buckets: durationBuckets,
		}),
		UpdateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_update_status_duration_seconds",
			Help:    "Duration of UpdateStatus operations",
			Buckets: durationBuckets,
		}),
		DeleteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_delete_duration_seconds",
			Help:    "Duration of DeleteByEmail operations",
			Buckets: durationBuckets,
		}),
	}
}

// IncrementEntriesCreated records a successful entry creation.
func (m *Metrics) IncrementEntriesCreated() {
	m.EntriesCreated.Inc()
}

// IncrementEntriesDeleted records a successful entry deletion.
func (m *Metrics) IncrementEntriesDeleted() {
	m.EntriesDeleted.Inc()
}

// ObserveCreate records the duration of a Create operation. Call with
// time.Now() captured at the start of the operation.
func (m *Metrics) ObserveCreate(start time.Time) {
	m.CreateDuration.Observe(time.Since(start).Seconds())
}

// ObserveGet records the duration of a GetByEmail operation.
func (m *Metrics) ObserveGet(start time.Time) {
	m.GetDuration.Observe(time.Since(start).Seconds())
}

// ObserveUpdate records the duration of an UpdateStatus operation.
func (m *Metrics) ObserveUpdate(start time.Time) {
	m.UpdateDuration.Observe(time.Since(start).Seconds())
}

// ObserveDelete records the duration of a DeleteByEmail operation.
func (m *Metrics) ObserveDelete(start time.Time) {
	m.DeleteDuration.Observe(time.Since(start).Seconds())
}
