package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "ae_conditions_"

// Result labels.
const (
	ResultNotified  = "notified"
	ResultBaseline  = "baseline"
	ResultRefreshed = "refreshed"
	ResultUnchanged = "unchanged"
	ResultRejected  = "rejected"
	ResultSuccess   = "success"
	ResultError     = "error"
)

// Metrics holds the engine collectors.
type Metrics struct {
	stateChanges    *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	acknowledgments *prometheus.CounterVec
	deliveryErrors  *prometheus.CounterVec
	trackedStates   prometheus.Gauge
	batchLatency    prometheus.Histogram
}

// New creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		stateChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "state_changes_total",
				Help: "Processed condition state change requests by result",
			},
			[]string{"result"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_total",
				Help: "Emitted notifications by type",
			},
			[]string{"type"},
		),
		acknowledgments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "acknowledgments_total",
				Help: "Acknowledgment attempts by result",
			},
			[]string{"result"},
		),
		deliveryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "delivery_errors_total",
				Help: "Sink failures by type",
			},
			[]string{"type"},
		),
		trackedStates: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "tracked_conditions",
				Help: "Conditions with a recorded state",
			},
		),
		batchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "batch_latency_seconds",
				Help:    "State change batch processing latency in seconds",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),
	}

	if reg == nil {
		return m, nil
	}

	var err error

	if m.stateChanges, err = register(reg, m.stateChanges); err != nil {
		return nil, err
	}

	if m.notifications, err = register(reg, m.notifications); err != nil {
		return nil, err
	}

	if m.acknowledgments, err = register(reg, m.acknowledgments); err != nil {
		return nil, err
	}

	if m.deliveryErrors, err = register(reg, m.deliveryErrors); err != nil {
		return nil, err
	}

	if m.trackedStates, err = register(reg, m.trackedStates); err != nil {
		return nil, err
	}

	if m.batchLatency, err = register(reg, m.batchLatency); err != nil {
		return nil, err
	}

	return m, nil
}

// register registers c, reusing the collector already registered under the same descriptor.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing, nil
		}
	}

	return c, fmt.Errorf("register collector: %w", err)
}

// IncStateChange counts one processed request.
func (m *Metrics) IncStateChange(result string) {
	if m == nil {
		return
	}

	m.stateChanges.WithLabelValues(result).Inc()
}

// IncNotification counts one emitted record of the given type.
func (m *Metrics) IncNotification(kind string) {
	if m == nil {
		return
	}

	m.notifications.WithLabelValues(kind).Inc()
}

// IncAcknowledgment counts one acknowledgment attempt.
func (m *Metrics) IncAcknowledgment(result string) {
	if m == nil {
		return
	}

	m.acknowledgments.WithLabelValues(result).Inc()
}

// IncDeliveryError counts one sink failure.
func (m *Metrics) IncDeliveryError(kind string) {
	if m == nil {
		return
	}

	m.deliveryErrors.WithLabelValues(kind).Inc()
}

// IncTracked records a newly tracked condition.
func (m *Metrics) IncTracked() {
	if m == nil {
		return
	}

	m.trackedStates.Inc()
}

// ObserveBatch records how long a batch took.
func (m *Metrics) ObserveBatch(duration time.Duration) {
	if m == nil {
		return
	}

	m.batchLatency.Observe(duration.Seconds())
}
