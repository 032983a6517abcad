package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "invoicer_store_records",
		Help: "Number of records held in memory per entity store",
	}, []string{"entity"})

	storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicer_store_operations_total",
		Help: "Count of store operations by entity, operation and result",
	}, []string{"entity", "op", "result"})

	persistDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoicer_store_persist_duration_seconds",
		Help:    "Duration of whole-collection writes to the backing store",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoicer_query_duration_seconds",
		Help:    "Duration of aggregation queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})
)

// SetRecords sets the in-memory record gauge for an entity.
func SetRecords(entity string, count int) {
	if count < 0 {
		count = 0
	}
	storeRecords.WithLabelValues(entity).Set(float64(count))
}

// ObserveOperation counts a store operation. result is "ok" or an error kind.
func ObserveOperation(entity, op, result string) {
	storeOperations.WithLabelValues(entity, op, result).Inc()
}

// ObservePersist records how long a collection write took.
func ObservePersist(entity string, duration time.Duration) {
	persistDuration.WithLabelValues(entity).Observe(duration.Seconds())
}

// ObserveQuery records the duration of an aggregation query.
func ObserveQuery(query string, duration time.Duration) {
	queryDuration.WithLabelValues(query).Observe(duration.Seconds())
}
