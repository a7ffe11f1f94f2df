// Package metrics exposes Prometheus instrumentation for the catalog.
//
// Collectors are registered on the default registry at init via promauto.
// The CLI does not serve them; embedders that mount promhttp get them for free.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"assetcatalog/internal/domain"
)

// Outcome labels for OperationsTotal
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeNotFound   = "not_found"
	OutcomeStorage    = "storage"
	OutcomeError      = "error"
)

// Result labels for AssetDeletions
const (
	DeletionDeleted = "deleted"
	DeletionMissing = "missing"
	DeletionFailed  = "failed"
)

var (
	// Coordinator Metrics
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_operations_total",
			Help: "Total number of catalog operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_operation_duration_seconds",
			Help:    "Duration of catalog operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CompensationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_compensations_total",
			Help: "Total number of failed writes whose uploaded assets were removed",
		},
		[]string{"operation"},
	)

	// Asset Store Metrics
	AssetDeletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_asset_deletions_total",
			Help: "Total number of asset deletion attempts by result",
		},
		[]string{"result"}, // "deleted", "missing", "failed"
	)
)

// RecordOperation records one coordinator call and its outcome
func RecordOperation(operation string, duration time.Duration, err error) {
	OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	OperationsTotal.WithLabelValues(operation, outcomeOf(err)).Inc()
}

// RecordCompensation records a compensating cleanup after a failed write
func RecordCompensation(operation string) {
	CompensationsTotal.WithLabelValues(operation).Inc()
}

// RecordAssetDeletion records the result of a single unlink
func RecordAssetDeletion(result string) {
	AssetDeletions.WithLabelValues(result).Inc()
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return OutcomeValidation
	case domain.KindNotFound:
		return OutcomeNotFound
	case domain.KindStorage:
		return OutcomeStorage
	default:
		return OutcomeError
	}
}
