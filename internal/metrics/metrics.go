// Package metrics exposes the Prometheus collectors of the bidding and settlement pipeline.
package metrics

import (
	"errors"

	"auction-settlement/internal/biddingerrors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auction"

var (
	// BidMutations counts bid API operations by operation and result class
	BidMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bids",
		Name:      "mutations_total",
		Help:      "Bid store operations by operation and result.",
	}, []string{"operation", "result"})

	// Sweeps counts settlement sweeps by result (completed, failed, skipped)
	Sweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "settlement",
		Name:      "sweeps_total",
		Help:      "Settlement sweeps by result.",
	}, []string{"result"})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "settlement",
		Name:      "sweep_duration_seconds",
		Help:      "Wall time of a settlement sweep, from product query to full drain.",
		Buckets:   prometheus.DefBuckets,
	})

	ExpiredProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "settlement",
		Name:      "expired_products",
		Help:      "Expired products returned to the last sweep.",
	})

	// Settlements counts per-product outcomes (settled, no_bids, duplicate, failed)
	Settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "settlement",
		Name:      "products_total",
		Help:      "Per-product settlement outcomes.",
	}, []string{"outcome", "stage"})

	// Notifications counts winner notification attempts by result
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notification",
		Name:      "winner_events_total",
		Help:      "Winner notifications by result.",
	}, []string{"result"})
)

// ResultLabel classifies an error into a low-cardinality label
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, biddingerrors.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, biddingerrors.ErrNotFound), errors.Is(err, biddingerrors.ErrNoBids):
		return "not_found"
	case errors.Is(err, biddingerrors.ErrConflictingUpdate):
		return "conflict"
	case errors.Is(err, biddingerrors.ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "error"
	}
}

// ObserveBidMutation records the result of one bid store operation
func ObserveBidMutation(operation string, err error) {
	BidMutations.WithLabelValues(operation, ResultLabel(err)).Inc()
}
