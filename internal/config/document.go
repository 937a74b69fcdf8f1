package config

import "github.com/oshokin/ae-conditions/internal/domain/catalog"

// Document is the YAML form of a catalog.
// Sections are registered in field order.
type Document struct {
	Categories  []CategorySpec   `yaml:"categories"`
	Definitions []DefinitionSpec `yaml:"definitions"`
	Areas       []AreaSpec       `yaml:"areas,omitempty"`
	Sources     []SourceSpec     `yaml:"sources"`
	Conditions  []ConditionSpec  `yaml:"conditions"`
}

// CategorySpec describes an event category and its attributes.
type CategorySpec struct {
	// Kind is simple, tracking or condition.
	Kind        string          `yaml:"kind"`
	Description string          `yaml:"description"`
	Attributes  []AttributeSpec `yaml:"attributes,omitempty"`
	ID          catalog.ID      `yaml:"id"`
}

// AttributeSpec describes a vendor attribute and its default value.
type AttributeSpec struct {
	// Value is converted to Type. A missing value means the zero value.
	// For arrays it must be a sequence.
	Value       any    `yaml:"value,omitempty"`
	Description string `yaml:"description"`
	// Type is a scalar kind name, the element kind when Array is set.
	Type  string     `yaml:"type"`
	ID    catalog.ID `yaml:"id"`
	Array bool       `yaml:"array,omitempty"`
}

// DefinitionSpec describes a condition definition.
// Single-state definitions carry their own defaults, multi-state ones list sub-conditions.
type DefinitionSpec struct {
	Name string `yaml:"name"`
	// Kind is single_state or multi_state.
	Kind          string             `yaml:"kind"`
	ConditionText string             `yaml:"condition_text,omitempty"`
	Message       string             `yaml:"message,omitempty"`
	SubConditions []SubConditionSpec `yaml:"sub_conditions,omitempty"`
	Severity      int                `yaml:"severity,omitempty"`
	ID            catalog.ID         `yaml:"id"`
	Category      catalog.ID         `yaml:"category"`
	AckRequired   bool               `yaml:"ack_required,omitempty"`
}

// SubConditionSpec describes one state of a multi-state definition.
type SubConditionSpec struct {
	Name          string     `yaml:"name"`
	ConditionText string     `yaml:"condition_text"`
	Message       string     `yaml:"message"`
	Severity      int        `yaml:"severity"`
	ID            catalog.ID `yaml:"id"`
	AckRequired   bool       `yaml:"ack_required,omitempty"`
}

// AreaSpec describes an area and, recursively, its child areas.
// Top-level entries are children of the root area.
type AreaSpec struct {
	Name  string     `yaml:"name"`
	Areas []AreaSpec `yaml:"areas,omitempty"`
	ID    catalog.ID `yaml:"id"`
}

// SourceSpec describes an event source.
// The first area is the primary membership; further areas require Shared.
// An empty list places the source in the root area.
type SourceSpec struct {
	Name   string       `yaml:"name"`
	Areas  []catalog.ID `yaml:"areas,omitempty"`
	ID     catalog.ID   `yaml:"id"`
	Shared bool         `yaml:"shared,omitempty"`
}

// ConditionSpec binds a source to a definition.
type ConditionSpec struct {
	ID         catalog.ID `yaml:"id"`
	Source     catalog.ID `yaml:"source"`
	Definition catalog.ID `yaml:"definition"`
}
