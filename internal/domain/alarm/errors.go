package alarm

import "errors"

// Registration errors. They are configuration errors and fatal to startup.
var (
	// ErrDuplicateID is returned when an identifier is already registered in its scope.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrDuplicateName is returned when a condition definition name is already used.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInvalidID is returned for reserved identifiers.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidDefault is returned when an attribute is registered without a default value.
	ErrInvalidDefault = errors.New("invalid attribute default")
	// ErrUnknownCategory is returned when a category is absent or has the wrong kind.
	ErrUnknownCategory = errors.New("unknown event category")
	// ErrUnknownConditionDefinition is returned when a condition definition is absent
	// or is not of the required kind.
	ErrUnknownConditionDefinition = errors.New("unknown condition definition")
	// ErrUnknownParent is returned when an area references an unregistered parent.
	ErrUnknownParent = errors.New("unknown parent area")
	// ErrUnknownArea is returned when an area is absent.
	ErrUnknownArea = errors.New("unknown area")
	// ErrUnknownSource is returned when an event source is absent.
	ErrUnknownSource = errors.New("unknown event source")
	// ErrNotShared is returned when a non-shared source is added to a second area.
	ErrNotShared = errors.New("event source is not shared")
	// ErrSealed is returned when the catalog is modified after it was sealed.
	ErrSealed = errors.New("catalog is sealed")
)

// Runtime errors. They fail a single request and never the process.
var (
	// ErrUnknownCondition is returned for condition ids the catalog did not bind.
	ErrUnknownCondition = errors.New("unknown condition")
	// ErrUnknownSubCondition is returned when a sub-condition is not owned by the definition.
	ErrUnknownSubCondition = errors.New("unknown sub-condition")
	// ErrNotAcknowledgeable is returned when a condition has no pending acknowledgment.
	ErrNotAcknowledgeable = errors.New("condition is not acknowledgeable")
)
