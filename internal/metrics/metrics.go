package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MigrationRowsTotal tracks migrated rows by table and outcome
	MigrationRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "migration_rows_total",
			Help: "Total number of source rows processed per target table",
		},
		[]string{"table", "outcome"}, // "inserted", "updated", "unchanged", "skipped", "errored"
	)

	// MigrationStageDuration tracks per-stage wall time
	MigrationStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "migration_stage_duration_seconds",
			Help:    "Duration of migration stages in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"table"},
	)

	// MySQLOperationsTotal tracks target-store statements
	MySQLOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mysql_operations_total",
			Help: "Total number of MySQL operations",
		},
		[]string{"operation", "status"}, // "upsert", "query", "commit", "success", "error"
	)

	// MySQLOperationDuration tracks target-store statement duration
	MySQLOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mysql_operation_duration_seconds",
			Help:    "Duration of MySQL operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// SourceRowsTotal tracks rows read from each source
	SourceRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_rows_total",
			Help: "Total number of rows read from migration sources",
		},
		[]string{"source", "entity"}, // "excel", "mssql"
	)

	// NameLookupsTotal tracks name-index resolution attempts
	NameLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "name_lookups_total",
			Help: "Total number of name-index lookups",
		},
		[]string{"entity", "status"}, // "hit", "miss"
	)

	// NameIndexCollisions tracks normalized-name collisions per built index
	NameIndexCollisions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "name_index_collisions",
			Help: "Normalized full-name collisions in the most recent name index build",
		},
		[]string{"entity"},
	)

	GoMemstatsAllocBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "migrate_go_memstats_alloc_bytes",
			Help: "Number of bytes allocated and still in use by the migration process",
		},
		[]string{"service"},
	)

	GoMemstatsSysBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "migrate_go_memstats_sys_bytes",
			Help: "Number of bytes obtained from system by the migration process",
		},
		[]string{"service"},
	)
)

// RecordRowOutcome records the outcome of one processed row
func RecordRowOutcome(table, outcome string) {
	MigrationRowsTotal.WithLabelValues(table, outcome).Inc()
}

// RecordStageDuration records the wall time of a completed stage
func RecordStageDuration(table string, d time.Duration) {
	MigrationStageDuration.WithLabelValues(table).Observe(d.Seconds())
}

// RecordMySQLOperation records a target-store operation
func RecordMySQLOperation(operation, status string) {
	MySQLOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordMySQLOperationDuration records target-store operation duration
func RecordMySQLOperationDuration(operation string, d time.Duration) {
	MySQLOperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordSourceRows records rows read from a source
func RecordSourceRows(source, entity string, n int) {
	SourceRowsTotal.WithLabelValues(source, entity).Add(float64(n))
}

// RecordNameLookup records a name-index lookup result
func RecordNameLookup(entity string, hit bool) {
	status := "miss"
	if hit {
		status = "hit"
	}
	NameLookupsTotal.WithLabelValues(entity, status).Inc()
}

// RecordNameIndexCollisions records collisions observed while building an index
func RecordNameIndexCollisions(entity string, n int) {
	NameIndexCollisions.WithLabelValues(entity).Set(float64(n))
}

// UpdateRuntimeMetrics updates Go runtime metrics with service label
func UpdateRuntimeMetrics(serviceName string) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	GoMemstatsAllocBytes.WithLabelValues(serviceName).Set(float64(m.Alloc))
	GoMemstatsSysBytes.WithLabelValues(serviceName).Set(float64(m.Sys))
}

// StartRuntimeMetricsCollection starts a goroutine to refresh runtime metrics
func StartRuntimeMetricsCollection(serviceName string) {
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			UpdateRuntimeMetrics(serviceName)
		}
	}()
}
