package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"auction-tracker/internal/auctionerrors"
)

// Metric names are stable: dashboards and alerts depend on them.
const (
	bidAcceptedName  = "auction_bids_accepted_total"
	bidRejectedName  = "auction_bids_rejected_total"
	sweepFailureName = "auction_sweep_failures_total"

	reasonLabel = "reason"
)

// Recorder is the sink the core reports counters to.
type Recorder interface {
	BidAccepted()
	BidRejected(reason auctionerrors.RejectReason)
	SweepFailure()
}

// PrometheusRecorder implements Recorder on a prometheus registry.
type PrometheusRecorder struct {
	bidsAccepted  prometheus.Counter
	bidsRejected  *prometheus.CounterVec
	sweepFailures prometheus.Counter
}

// NewPrometheusRecorder registers the auction counters on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		bidsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: bidAcceptedName,
			Help: "Number of accepted bids.",
		}),
		bidsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: bidRejectedName,
			Help: "Number of rejected bids, labeled by rejection reason.",
		}, []string{reasonLabel}),
		sweepFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: sweepFailureName,
			Help: "Number of auctions the sweeper failed to transition.",
		}),
	}
}

func (r *PrometheusRecorder) BidAccepted() {
	r.bidsAccepted.Inc()
}

func (r *PrometheusRecorder) BidRejected(reason auctionerrors.RejectReason) {
	r.bidsRejected.WithLabelValues(string(reason)).Inc()
}

func (r *PrometheusRecorder) SweepFailure() {
	r.sweepFailures.Inc()
}

// NopRecorder discards all counters. Used in tests.
type NopRecorder struct{}

func (NopRecorder) BidAccepted() {}

func (NopRecorder) BidRejected(_ auctionerrors.RejectReason) {}

func (NopRecorder) SweepFailure() {}
