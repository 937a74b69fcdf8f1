package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/domain/catalog"
	"github.com/oshokin/ae-conditions/internal/domain/variant"
	"github.com/oshokin/ae-conditions/internal/logger"
	"github.com/oshokin/ae-conditions/internal/metrics"
)

// shardCount is the number of lock shards. Conditions in different shards never contend.
const shardCount = 64

// Record types used for metric labels.
const (
	recordCondition = "condition"
	recordEvent     = "event"
	recordAck       = "ack"
)

// ConditionSink receives a notification for every real transition.
type ConditionSink interface {
	PublishCondition(ctx context.Context, n *alarm.Notification) error
}

// EventSink receives simple and tracking events.
type EventSink interface {
	PublishEvent(ctx context.Context, e *alarm.Event) error
}

// AckSink receives a confirmation for every successful acknowledgment.
type AckSink interface {
	PublishAck(ctx context.Context, a *alarm.AckConfirmation) error
}

// AckNotifier is consulted before an acknowledgment is confirmed.
// Returning an error rejects the acknowledgment.
type AckNotifier interface {
	OnAckNotification(ctx context.Context, conditionID, subConditionID uint32) error
}

// Result is the outcome of one state change request.
type Result struct {
	// Notification is set when the request was a real transition.
	Notification *alarm.Notification
	// Err is set when the request was rejected. The state is then unchanged.
	Err error
	// ConditionID echoes the request.
	ConditionID uint32
}

// Engine holds one live state per condition and turns state change requests into notifications.
//
// Requests for the same condition are serialized by a shard lock; requests for
// conditions in different shards run in parallel. Sinks and the ack notifier
// are called while the shard lock is held and must not call back into the engine.
type Engine struct {
	catalog       *catalog.Catalog
	conditionSink ConditionSink
	eventSink     EventSink
	ackSink       AckSink
	ackNotifier   AckNotifier
	metrics       *metrics.Metrics
	now           func() time.Time
	newID         func() string
	shards        [shardCount]shard
}

type shard struct {
	states map[uint32]*alarm.ConditionState
	mu     sync.Mutex
}

// Option configures engine behaviour.
type Option func(*Engine)

// WithConditionSink sets the receiver of condition notifications.
func WithConditionSink(sink ConditionSink) Option {
	return func(e *Engine) {
		e.conditionSink = sink
	}
}

// WithEventSink sets the receiver of simple and tracking events.
func WithEventSink(sink EventSink) Option {
	return func(e *Engine) {
		e.eventSink = sink
	}
}

// WithAckSink sets the receiver of acknowledgment confirmations.
func WithAckSink(sink AckSink) Option {
	return func(e *Engine) {
		e.ackSink = sink
	}
}

// WithAckNotifier sets the acknowledgment hook.
func WithAckNotifier(notifier AckNotifier) Option {
	return func(e *Engine) {
		e.ackNotifier = notifier
	}
}

// WithMetrics sets the collectors updated by the engine.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock sets the time source used for requests without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator sets the generator of event identifiers.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

var errCatalogRequired = errors.New("catalog must be provided")

// New creates an engine over cat and seals the catalog.
func New(cat *catalog.Catalog, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, errCatalogRequired
	}

	cat.Seal()

	e := &Engine{
		catalog: cat,
		now:     time.Now,
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}

	for i := range e.shards {
		e.shards[i].states = make(map[uint32]*alarm.ConditionState)
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Catalog returns the sealed catalog the engine resolves conditions against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// State returns a copy of the recorded state of a condition.
// The second result is false until the first request for the condition was processed.
func (e *Engine) State(conditionID uint32) (alarm.ConditionState, bool) {
	sh := e.shardFor(conditionID)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	state, ok := sh.states[conditionID]
	if !ok {
		return alarm.ConditionState{}, false
	}

	return *state.Clone(), true
}

// States returns copies of all recorded states in catalog order.
func (e *Engine) States() []alarm.ConditionState {
	ids := e.catalog.ConditionIDs()
	states := make([]alarm.ConditionState, 0, len(ids))

	for _, id := range ids {
		if state, ok := e.State(id); ok {
			states = append(states, state)
		}
	}

	return states
}

func (e *Engine) shardFor(conditionID uint32) *shard {
	return &e.shards[conditionID%shardCount]
}

func (e *Engine) timestamp(ts time.Time) time.Time {
	if ts.IsZero() {
		return e.now()
	}

	return ts
}

// attributeValues returns a private copy of values, or the category defaults
// when values is nil. Mismatches with the category are logged, not rejected.
func (e *Engine) attributeValues(ctx context.Context, category *catalog.Category, values []variant.Value) []variant.Value {
	if values == nil {
		defaults := make([]variant.Value, len(category.Attributes))
		for i, attr := range category.Attributes {
			defaults[i] = attr.Default
		}

		return defaults
	}

	if len(values) != len(category.Attributes) {
		logger.WarnKV(ctx, "Attribute count does not match category",
			"category_id", category.ID,
			"expected", len(category.Attributes),
			"got", len(values))
	}

	for i := range min(len(values), len(category.Attributes)) {
		want := category.Attributes[i].Default.Kind()
		if values[i] == nil || values[i].Kind() != want {
			logger.WarnKV(ctx, "Attribute kind does not match category",
				"category_id", category.ID,
				"attribute_id", category.Attributes[i].ID,
				"expected", want.String())
		}
	}

	return append([]variant.Value(nil), values...)
}
