package alarm

import (
	"time"

	"github.com/oshokin/ae-conditions/internal/domain/quality"
	"github.com/oshokin/ae-conditions/internal/domain/variant"
)

// Actor identifies who performed an action in the system.
type Actor struct {
	// Hostname is the machine name where the action was performed.
	Hostname string
	// Username is the operator or client that triggered the action.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String renders the actor as "user@host".
func (a *Actor) String() string {
	if a == nil {
		return ""
	}

	if a.Hostname == "" {
		return a.Username
	}

	return a.Username + "@" + a.Hostname
}

// ConditionState is the live record kept for one condition binding.
type ConditionState struct {
	// Timestamp is the time of the last processed request.
	Timestamp time.Time
	// Message is the catalog default message for the current state.
	Message string
	// AttributeValues follows the attribute order of the owning category.
	AttributeValues []variant.Value
	// ConditionID is the binding this state belongs to.
	ConditionID uint32
	// SubConditionID is the current sub-condition of a multi-state binding, 0 otherwise.
	SubConditionID uint32
	// Severity is the catalog default severity for the current state.
	Severity int
	// Quality is the quality of the last processed request.
	Quality quality.Quality
	// Active reports whether the condition is in alarm.
	Active bool
	// AckRequired is the catalog default ack-required flag for the current state.
	AckRequired bool
	// Acknowledged reports that no acknowledgment is pending.
	Acknowledged bool
}

// Clone returns a copy of the state to avoid leaking internal references.
func (s *ConditionState) Clone() *ConditionState {
	cloned := *s
	cloned.AttributeValues = append([]variant.Value(nil), s.AttributeValues...)

	return &cloned
}

// StateChange is one proposed state for a condition, as submitted by the data source.
type StateChange struct {
	// Timestamp is the time of the change; the engine clock is used when zero.
	Timestamp time.Time
	// Message overrides the catalog default message for this notification only.
	Message *string
	// Severity overrides the catalog default severity for this notification only.
	Severity *int
	// AckRequired overrides the catalog default ack-required flag for this notification only.
	AckRequired *bool
	// AttributeValues follows the attribute order of the owning category.
	// Nil means the category defaults.
	AttributeValues []variant.Value
	// ConditionID is the binding returned by the catalog.
	ConditionID uint32
	// SubConditionID names the sub-condition of a multi-state binding, 0 for none.
	SubConditionID uint32
	// Quality is the quality of the data behind the condition.
	Quality quality.Quality
	// Active is the proposed activation state.
	Active bool
	// Force asks for a notification even if active and sub-condition are unchanged.
	// It is ignored for the first request of a condition.
	Force bool
}

// Notification is emitted for every real transition of a condition.
type Notification struct {
	// Timestamp is the time of the transition.
	Timestamp time.Time
	// EventID uniquely identifies this notification.
	EventID string
	// Message is the effective message, override or catalog default.
	Message string
	// ConditionText is the catalog condition text of the current state.
	ConditionText string
	// AttributeValues follows the attribute order of the owning category.
	AttributeValues []variant.Value
	// ConditionID is the binding that changed.
	ConditionID uint32
	// SourceID is the event source of the binding.
	SourceID uint32
	// CategoryID is the category of the binding's definition.
	CategoryID uint32
	// SubConditionID is the current sub-condition, 0 for single-state bindings.
	SubConditionID uint32
	// Severity is the effective severity, override or catalog default.
	Severity int
	// Quality is the quality carried by the request.
	Quality quality.Quality
	// Active is the new activation state.
	Active bool
	// AckRequired is the effective ack-required flag.
	AckRequired bool
}

// AckConfirmation is produced after a successful acknowledgment.
type AckConfirmation struct {
	// Timestamp is the time of the acknowledgment.
	Timestamp time.Time
	// Actor performed the acknowledgment, nil for internal acknowledgments.
	Actor *Actor
	// EventID uniquely identifies this confirmation.
	EventID string
	// Comment is the optional comment supplied with the acknowledgment.
	Comment string
	// ConditionID is the acknowledged binding.
	ConditionID uint32
	// SubConditionID is the sub-condition current at acknowledgment time.
	SubConditionID uint32
}

// EventKind distinguishes events that are not bound to a condition.
type EventKind uint8

// Event kinds.
const (
	EventSimple EventKind = iota + 1
	EventTracking
)

// String returns the lowercase name of k.
func (k EventKind) String() string {
	switch k {
	case EventSimple:
		return "simple"
	case EventTracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// Event is a simple or tracking event.
type Event struct {
	// Timestamp is the occurrence time; the engine clock is used when zero.
	Timestamp time.Time
	// Actor initiated a tracking event; unused for simple events.
	Actor *Actor
	// EventID uniquely identifies this event. Set by the engine.
	EventID string
	// Message describes the event.
	Message string
	// AttributeValues follows the attribute order of the category.
	AttributeValues []variant.Value
	// CategoryID is the category of the event.
	CategoryID uint32
	// SourceID is the object that generated the event.
	SourceID uint32
	// Severity is the urgency in 1..1000.
	Severity int
	// Kind is simple or tracking.
	Kind EventKind
}
