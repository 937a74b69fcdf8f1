package script

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidScript is returned for scripts whose steps cannot be replayed.
var ErrInvalidScript = errors.New("invalid script")

// StepKind tells what a step submits to the engine.
type StepKind uint8

// Step kinds.
const (
	StepChanges StepKind = iota + 1
	StepAck
	StepSimple
	StepTracking
)

// String returns the lowercase name of k.
func (k StepKind) String() string {
	switch k {
	case StepChanges:
		return "changes"
	case StepAck:
		return "ack"
	case StepSimple:
		return "simple"
	case StepTracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// Script is an ordered list of steps.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one of its fields.
type Step struct {
	// Ack acknowledges a condition.
	Ack *Ack `yaml:"ack,omitempty"`
	// Simple generates a simple event.
	Simple *Event `yaml:"simple,omitempty"`
	// Tracking generates a tracking event.
	Tracking *Event `yaml:"tracking,omitempty"`
	// Changes is submitted to the engine as one batch.
	Changes []Change `yaml:"changes,omitempty"`
}

// Change is the YAML form of a condition state change.
type Change struct {
	Timestamp   *time.Time `yaml:"timestamp,omitempty"`
	Message     *string    `yaml:"message,omitempty"`
	Severity    *int       `yaml:"severity,omitempty"`
	AckRequired *bool      `yaml:"ack_required,omitempty"`
	Quality     *Quality   `yaml:"quality,omitempty"`
	// Attributes are converted to the kinds of the category defaults.
	Attributes   []any  `yaml:"attributes,omitempty"`
	Condition    uint32 `yaml:"condition"`
	SubCondition uint32 `yaml:"sub_condition,omitempty"`
	Active       bool   `yaml:"active"`
	Force        bool   `yaml:"force,omitempty"`
}

// Quality is either a raw code or a status, limit and vendor triple.
// An empty quality is Good.
type Quality struct {
	Code   *int16 `yaml:"code,omitempty"`
	Status string `yaml:"status,omitempty"`
	Limit  string `yaml:"limit,omitempty"`
	Vendor uint8  `yaml:"vendor,omitempty"`
}

// Ack acknowledges a condition.
type Ack struct {
	// Actor defaults to the current user when empty.
	Actor     *Actor `yaml:"actor,omitempty"`
	Comment   string `yaml:"comment,omitempty"`
	Condition uint32 `yaml:"condition"`
}

// Event is the YAML form of a simple or tracking event.
type Event struct {
	Timestamp *time.Time `yaml:"timestamp,omitempty"`
	// Actor is used by tracking events and defaults to the current user when empty.
	Actor      *Actor `yaml:"actor,omitempty"`
	Message    string `yaml:"message"`
	Attributes []any  `yaml:"attributes,omitempty"`
	Category   uint32 `yaml:"category"`
	Source     uint32 `yaml:"source"`
	Severity   int    `yaml:"severity,omitempty"`
}

// Actor identifies an operator.
type Actor struct {
	Hostname string `yaml:"hostname,omitempty"`
	Username string `yaml:"username"`
}

// Kind reports which field of the step is set.
func (s *Step) Kind() (StepKind, error) {
	var (
		kind StepKind
		set  int
	)

	if len(s.Changes) > 0 {
		kind, set = StepChanges, set+1
	}

	if s.Ack != nil {
		kind, set = StepAck, set+1
	}

	if s.Simple != nil {
		kind, set = StepSimple, set+1
	}

	if s.Tracking != nil {
		kind, set = StepTracking, set+1
	}

	if set != 1 {
		return 0, fmt.Errorf("%w: step must hold exactly one of changes, ack, simple or tracking, got %d", ErrInvalidScript, set)
	}

	return kind, nil
}

// Validate checks that every step holds exactly one request kind.
func (s *Script) Validate() error {
	for i := range s.Steps {
		if _, err := s.Steps[i].Kind(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return nil
}
