package catalog

import (
	"fmt"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/domain/variant"
)

// ID identifies catalog entities. Identifiers are unique per entity type.
type ID = uint32

// RootArea is the sentinel parent of top-level areas. It is never registered.
const RootArea ID = 0xFFFFFFFE

// Severity bounds. Out of range severities are clamped.
const (
	MinSeverity = 1
	MaxSeverity = 1000
)

// CategoryKind classifies event categories.
type CategoryKind uint8

// Category kinds.
const (
	CategorySimple CategoryKind = iota + 1
	CategoryTracking
	CategoryCondition
)

// String returns the lowercase name of k.
func (k CategoryKind) String() string {
	switch k {
	case CategorySimple:
		return "simple"
	case CategoryTracking:
		return "tracking"
	case CategoryCondition:
		return "condition"
	default:
		return fmt.Sprintf("category_kind(%d)", uint8(k))
	}
}

// DefinitionKind tells single-state definitions from multi-state ones.
type DefinitionKind uint8

// Definition kinds.
const (
	SingleState DefinitionKind = iota + 1
	MultiState
)

// String returns the lowercase name of k.
func (k DefinitionKind) String() string {
	switch k {
	case SingleState:
		return "single_state"
	case MultiState:
		return "multi_state"
	default:
		return fmt.Sprintf("definition_kind(%d)", uint8(k))
	}
}

// ParseCategoryKind maps a lowercase category kind name to a CategoryKind.
func ParseCategoryKind(s string) (CategoryKind, bool) {
	for _, k := range []CategoryKind{CategorySimple, CategoryTracking, CategoryCondition} {
		if k.String() == s {
			return k, true
		}
	}

	return 0, false
}

// ParseDefinitionKind maps a lowercase definition kind name to a DefinitionKind.
func ParseDefinitionKind(s string) (DefinitionKind, bool) {
	switch s {
	case SingleState.String():
		return SingleState, true
	case MultiState.String():
		return MultiState, true
	default:
		return 0, false
	}
}

// Attribute is a vendor specific attribute of a category.
type Attribute struct {
	// Default is the value used when a request omits the attribute. Its kind is the attribute type.
	Default     variant.Value
	Description string
	ID          ID
}

// Category groups events and the attributes they carry.
type Category struct {
	Description string
	Attributes  []Attribute
	ID          ID
	Kind        CategoryKind
}

// Defaults are the values a notification gets unless the request overrides them.
type Defaults struct {
	ConditionText string
	Message       string
	Severity      int
	AckRequired   bool
}

// SubCondition is one mutually exclusive level of a multi-state definition.
type SubCondition struct {
	Name string
	Defaults
	ID ID
}

// Definition describes the behavior of a class of conditions.
type Definition struct {
	Name string
	// SubConditions is set for multi-state definitions only.
	SubConditions []SubCondition
	// Defaults is set for single-state definitions only.
	Defaults
	ID         ID
	CategoryID ID
	Kind       DefinitionKind
}

// SubCondition returns the sub-condition with the given id.
func (d *Definition) SubCondition(id ID) (SubCondition, bool) {
	for _, sc := range d.SubConditions {
		if sc.ID == id {
			return sc, true
		}
	}

	return SubCondition{}, false
}

// Area is a node of the process area tree.
type Area struct {
	Name     string
	ID       ID
	ParentID ID
}

// Source is an object that generates events.
type Source struct {
	Name string
	// Areas lists the areas the source belongs to, in registration order.
	Areas  []ID
	ID     ID
	Shared bool
}

// Condition binds one source to one condition definition.
type Condition struct {
	ID           ID
	SourceID     ID
	DefinitionID ID
}

// Binding is a condition resolved against its definition and category.
type Binding struct {
	Condition  Condition
	Definition Definition
	Category   Category
}

// Catalog is the registry of categories, definitions, areas, sources and
// conditions. It is built by one goroutine and read concurrently once sealed.
// Values returned by lookups share slices with the catalog and must not be modified.
type Catalog struct {
	categories      map[ID]*Category
	definitions     map[ID]*Definition
	definitionNames map[string]ID
	areas           map[ID]*Area
	sources         map[ID]*Source
	conditions      map[ID]*Condition
	topology        *topology

	categoryOrder   []ID
	definitionOrder []ID
	areaOrder       []ID
	sourceOrder     []ID
	conditionOrder  []ID

	sealed bool
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		categories:      make(map[ID]*Category),
		definitions:     make(map[ID]*Definition),
		definitionNames: make(map[string]ID),
		areas:           make(map[ID]*Area),
		sources:         make(map[ID]*Source),
		conditions:      make(map[ID]*Condition),
		topology:        newTopology(),
	}
}

// Seal freezes the catalog. Any later registration fails with alarm.ErrSealed.
func (c *Catalog) Seal() {
	c.sealed = true
}

// AddEventCategory registers a category.
func (c *Catalog) AddEventCategory(id ID, kind CategoryKind, description string) error {
	if c.sealed {
		return alarm.ErrSealed
	}

	if kind < CategorySimple || kind > CategoryCondition {
		return fmt.Errorf("%w: category %#x has kind %s", alarm.ErrUnknownCategory, id, kind)
	}

	if _, ok := c.categories[id]; ok {
		return fmt.Errorf("%w: category %#x", alarm.ErrDuplicateID, id)
	}

	c.categories[id] = &Category{
		Description: description,
		ID:          id,
		Kind:        kind,
	}
	c.categoryOrder = append(c.categoryOrder, id)

	return nil
}

// AddEventAttribute appends an attribute to a category. The default value also fixes its type.
func (c *Catalog) AddEventAttribute(categoryID, attributeID ID, description string, defaultValue variant.Value) error {
	if c.sealed {
		return alarm.ErrSealed
	}

	category, ok := c.categories[categoryID]
	if !ok {
		return fmt.Errorf("%w: category %#x", alarm.ErrUnknownCategory, categoryID)
	}

	for _, attr := range category.Attributes {
		if attr.ID == attributeID {
			return fmt.Errorf("%w: attribute %#x in category %#x", alarm.ErrDuplicateID, attributeID, categoryID)
		}
	}

	if defaultValue == nil {
		return fmt.Errorf("%w: attribute %#x", alarm.ErrInvalidDefault, attributeID)
	}

	category.Attributes = append(category.Attributes, Attribute{
		Default:     defaultValue,
		Description: description,
		ID:          attributeID,
	})

	return nil
}

// AddSingleStateConditionDefinition registers a definition that carries its own defaults.
// Severity is clamped to MinSeverity..MaxSeverity.
func (c *Catalog) AddSingleStateConditionDefinition(
	categoryID, id ID,
	name, conditionText string,
	severity int,
	message string,
	ackRequired bool,
) error {
	if err := c.checkDefinition(categoryID, id, name); err != nil {
		return err
	}

	c.insertDefinition(&Definition{
		Name: name,
		Defaults: Defaults{
			ConditionText: conditionText,
			Message:       message,
			Severity:      ClampSeverity(severity),
			AckRequired:   ackRequired,
		},
		ID:         id,
		CategoryID: categoryID,
		Kind:       SingleState,
	})

	return nil
}

// AddMultiStateConditionDefinition registers a definition whose defaults live in its sub-conditions.
func (c *Catalog) AddMultiStateConditionDefinition(categoryID, id ID, name string) error {
	if err := c.checkDefinition(categoryID, id, name); err != nil {
		return err
	}

	c.insertDefinition(&Definition{
		Name:       name,
		ID:         id,
		CategoryID: categoryID,
		Kind:       MultiState,
	})

	return nil
}

// AddSubConditionDefinition appends a sub-condition to a multi-state definition.
// Severity is clamped to MinSeverity..MaxSeverity.
func (c *Catalog) AddSubConditionDefinition(
	definitionID, subConditionID ID,
	name, conditionText string,
	severity int,
	message string,
	ackRequired bool,
) error {
	if c.sealed {
		return alarm.ErrSealed
	}

	definition, ok := c.definitions[definitionID]
	if !ok {
		return fmt.Errorf("%w: definition %#x", alarm.ErrUnknownConditionDefinition, definitionID)
	}

	if definition.Kind != MultiState {
		return fmt.Errorf("%w: definition %#x is not multi-state", alarm.ErrUnknownConditionDefinition, definitionID)
	}

	if subConditionID == 0 {
		return fmt.Errorf("%w: sub-condition id 0 is reserved", alarm.ErrInvalidID)
	}

	if _, ok := definition.SubCondition(subConditionID); ok {
		return fmt.Errorf("%w: sub-condition %#x in definition %#x", alarm.ErrDuplicateID, subConditionID, definitionID)
	}

	definition.SubConditions = append(definition.SubConditions, SubCondition{
		Name: name,
		Defaults: Defaults{
			ConditionText: conditionText,
			Message:       message,
			Severity:      ClampSeverity(severity),
			AckRequired:   ackRequired,
		},
		ID: subConditionID,
	})

	return nil
}

// AddArea registers an area under RootArea or a previously added area.
func (c *Catalog) AddArea(parentID, areaID ID, name string) error {
	if c.sealed {
		return alarm.ErrSealed
	}

	if parentID != RootArea {
		if _, ok := c.areas[parentID]; !ok {
			return fmt.Errorf("%w: area %#x", alarm.ErrUnknownParent, parentID)
		}
	}

	if areaID == RootArea {
		return fmt.Errorf("%w: area id %#x is the root sentinel", alarm.ErrInvalidID, areaID)
	}

	if _, ok := c.areas[areaID]; ok {
		return fmt.Errorf("%w: area %#x", alarm.ErrDuplicateID, areaID)
	}

	c.areas[areaID] = &Area{
		Name:     name,
		ID:       areaID,
		ParentID: parentID,
	}
	c.areaOrder = append(c.areaOrder, areaID)
	c.topology.addChild(parentID, areaID)

	return nil
}

// AddSource registers a source as a member of one area.
func (c *Catalog) AddSource(areaID, sourceID ID, name string, shared bool) error {
	if c.sealed {
		return alarm.ErrSealed
	}

	if !c.hasArea(areaID) {
		return fmt.Errorf("%w: area %#x", alarm.ErrUnknownArea, areaID)
	}

	if _, ok := c.sources[sourceID]; ok {
		return fmt.Errorf("%w: source %#x", alarm.ErrDuplicateID, sourceID)
	}

	c.sources[sourceID] = &Source{
		Name:   name,
		Areas:  []ID{areaID},
		ID:     sourceID,
		Shared: shared,
	}
	c.sourceOrder = append(c.sourceOrder, sourceID)
	c.topology.addSource(areaID, sourceID)

	return nil
}

// AddExistingSource adds a shared source to one more area.
func (c *Catalog) AddExistingSource(areaID, sourceID ID) error {
	if c.sealed {
		return alarm.ErrSealed
	}

	if !c.hasArea(areaID) {
		return fmt.Errorf("%w: area %#x", alarm.ErrUnknownArea, areaID)
	}

	source, ok := c.sources[sourceID]
	if !ok {
		return fmt.Errorf("%w: source %#x", alarm.ErrUnknownSource, sourceID)
	}

	if !source.Shared {
		return fmt.Errorf("%w: source %#x", alarm.ErrNotShared, sourceID)
	}

	for _, member := range source.Areas {
		if member == areaID {
			return fmt.Errorf("%w: source %#x is already in area %#x", alarm.ErrDuplicateID, sourceID, areaID)
		}
	}

	source.Areas = append(source.Areas, areaID)
	c.topology.addSource(areaID, sourceID)

	return nil
}

// AddCondition binds a source to a definition under a new condition id.
func (c *Catalog) AddCondition(sourceID, definitionID, conditionID ID) error {
	if c.sealed {
		return alarm.ErrSealed
	}

	if _, ok := c.sources[sourceID]; !ok {
		return fmt.Errorf("%w: source %#x", alarm.ErrUnknownSource, sourceID)
	}

	definition, ok := c.definitions[definitionID]
	if !ok {
		return fmt.Errorf("%w: definition %#x", alarm.ErrUnknownConditionDefinition, definitionID)
	}

	if definition.Kind == MultiState && len(definition.SubConditions) == 0 {
		return fmt.Errorf(
			"%w: multi-state definition %#x has no sub-conditions",
			alarm.ErrUnknownConditionDefinition,
			definitionID,
		)
	}

	if _, ok := c.conditions[conditionID]; ok {
		return fmt.Errorf("%w: condition %#x", alarm.ErrDuplicateID, conditionID)
	}

	c.conditions[conditionID] = &Condition{
		ID:           conditionID,
		SourceID:     sourceID,
		DefinitionID: definitionID,
	}
	c.conditionOrder = append(c.conditionOrder, conditionID)
	c.topology.addCondition(sourceID, conditionID)

	return nil
}

// Category returns the category with the given id.
func (c *Catalog) Category(id ID) (Category, bool) {
	category, ok := c.categories[id]
	if !ok {
		return Category{}, false
	}

	return *category, true
}

// Definition returns the condition definition with the given id.
func (c *Catalog) Definition(id ID) (Definition, bool) {
	definition, ok := c.definitions[id]
	if !ok {
		return Definition{}, false
	}

	return *definition, true
}

// Area returns the area with the given id.
func (c *Catalog) Area(id ID) (Area, bool) {
	area, ok := c.areas[id]
	if !ok {
		return Area{}, false
	}

	return *area, true
}

// Source returns the source with the given id.
func (c *Catalog) Source(id ID) (Source, bool) {
	source, ok := c.sources[id]
	if !ok {
		return Source{}, false
	}

	return *source, true
}

// Condition returns the condition binding with the given id.
func (c *Catalog) Condition(id ID) (Condition, bool) {
	condition, ok := c.conditions[id]
	if !ok {
		return Condition{}, false
	}

	return *condition, true
}

// Binding resolves a condition together with its definition and category.
func (c *Catalog) Binding(conditionID ID) (Binding, bool) {
	condition, ok := c.conditions[conditionID]
	if !ok {
		return Binding{}, false
	}

	definition := c.definitions[condition.DefinitionID]
	category := c.categories[definition.CategoryID]

	return Binding{
		Condition:  *condition,
		Definition: *definition,
		Category:   *category,
	}, true
}

// ConditionIDs returns every condition id in registration order.
func (c *Catalog) ConditionIDs() []ID {
	return append([]ID(nil), c.conditionOrder...)
}

// ClampSeverity limits severity to MinSeverity..MaxSeverity.
func ClampSeverity(severity int) int {
	return min(max(severity, MinSeverity), MaxSeverity)
}

func (c *Catalog) checkDefinition(categoryID, id ID, name string) error {
	if c.sealed {
		return alarm.ErrSealed
	}

	category, ok := c.categories[categoryID]
	if !ok {
		return fmt.Errorf("%w: category %#x", alarm.ErrUnknownCategory, categoryID)
	}

	if category.Kind != CategoryCondition {
		return fmt.Errorf("%w: category %#x is a %s category", alarm.ErrUnknownCategory, categoryID, category.Kind)
	}

	if _, ok := c.definitions[id]; ok {
		return fmt.Errorf("%w: definition %#x", alarm.ErrDuplicateID, id)
	}

	if _, ok := c.definitionNames[name]; ok {
		return fmt.Errorf("%w: definition %q", alarm.ErrDuplicateName, name)
	}

	return nil
}

func (c *Catalog) insertDefinition(definition *Definition) {
	c.definitions[definition.ID] = definition
	c.definitionNames[definition.Name] = definition.ID
	c.definitionOrder = append(c.definitionOrder, definition.ID)
}

func (c *Catalog) hasArea(id ID) bool {
	if id == RootArea {
		return true
	}

	_, ok := c.areas[id]

	return ok
}
