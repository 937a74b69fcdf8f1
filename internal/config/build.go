package config

import (
	"errors"
	"fmt"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/domain/catalog"
	"github.com/oshokin/ae-conditions/internal/domain/variant"
)

// ErrInvalidDocument is returned for document entries that cannot be mapped to catalog calls.
var ErrInvalidDocument = errors.New("invalid catalog document")

// BuildCatalog registers the document into a new catalog.
// It stops at the first failing entry and returns its error.
// The returned catalog is not sealed.
func BuildCatalog(doc *Document) (*catalog.Catalog, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is not set", ErrInvalidDocument)
	}

	c := catalog.New()

	steps := []func(*catalog.Catalog) error{
		doc.registerCategories,
		doc.registerDefinitions,
		doc.registerAreas,
		doc.registerSources,
		doc.registerConditions,
	}

	for _, step := range steps {
		if err := step(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (d *Document) registerCategories(c *catalog.Catalog) error {
	for _, category := range d.Categories {
		kind, ok := catalog.ParseCategoryKind(category.Kind)
		if !ok {
			return fmt.Errorf("%w: category %#x has unknown kind %q", ErrInvalidDocument, category.ID, category.Kind)
		}

		if err := c.AddEventCategory(category.ID, kind, category.Description); err != nil {
			return fmt.Errorf("category %#x: %w", category.ID, err)
		}

		for _, attribute := range category.Attributes {
			value, err := attribute.defaultValue()
			if err != nil {
				return fmt.Errorf("%w: attribute %#x of category %#x: %w",
					alarm.ErrInvalidDefault, attribute.ID, category.ID, err)
			}

			err = c.AddEventAttribute(category.ID, attribute.ID, attribute.Description, value)
			if err != nil {
				return fmt.Errorf("attribute %#x of category %#x: %w", attribute.ID, category.ID, err)
			}
		}
	}

	return nil
}

func (d *Document) registerDefinitions(c *catalog.Catalog) error {
	for _, definition := range d.Definitions {
		kind, ok := catalog.ParseDefinitionKind(definition.Kind)
		if !ok {
			return fmt.Errorf("%w: definition %#x has unknown kind %q",
				ErrInvalidDocument, definition.ID, definition.Kind)
		}

		if err := definition.register(c, kind); err != nil {
			return fmt.Errorf("definition %#x: %w", definition.ID, err)
		}
	}

	return nil
}

func (d *DefinitionSpec) register(c *catalog.Catalog, kind catalog.DefinitionKind) error {
	if kind == catalog.SingleState {
		if len(d.SubConditions) > 0 {
			return fmt.Errorf("%w: single-state definition lists sub-conditions", ErrInvalidDocument)
		}

		return c.AddSingleStateConditionDefinition(
			d.Category, d.ID, d.Name, d.ConditionText, d.Severity, d.Message, d.AckRequired)
	}

	if err := c.AddMultiStateConditionDefinition(d.Category, d.ID, d.Name); err != nil {
		return err
	}

	for _, sub := range d.SubConditions {
		err := c.AddSubConditionDefinition(
			d.ID, sub.ID, sub.Name, sub.ConditionText, sub.Severity, sub.Message, sub.AckRequired)
		if err != nil {
			return fmt.Errorf("sub-condition %#x: %w", sub.ID, err)
		}
	}

	return nil
}

func (d *Document) registerAreas(c *catalog.Catalog) error {
	return registerAreaTree(c, catalog.RootArea, d.Areas)
}

func registerAreaTree(c *catalog.Catalog, parentID catalog.ID, areas []AreaSpec) error {
	for _, area := range areas {
		if err := c.AddArea(parentID, area.ID, area.Name); err != nil {
			return fmt.Errorf("area %#x: %w", area.ID, err)
		}

		if err := registerAreaTree(c, area.ID, area.Areas); err != nil {
			return err
		}
	}

	return nil
}

func (d *Document) registerSources(c *catalog.Catalog) error {
	for _, source := range d.Sources {
		areas := source.Areas
		if len(areas) == 0 {
			areas = []catalog.ID{catalog.RootArea}
		}

		if err := c.AddSource(areas[0], source.ID, source.Name, source.Shared); err != nil {
			return fmt.Errorf("source %#x: %w", source.ID, err)
		}

		for _, areaID := range areas[1:] {
			if err := c.AddExistingSource(areaID, source.ID); err != nil {
				return fmt.Errorf("source %#x in area %#x: %w", source.ID, areaID, err)
			}
		}
	}

	return nil
}

func (d *Document) registerConditions(c *catalog.Catalog) error {
	for _, condition := range d.Conditions {
		if err := c.AddCondition(condition.Source, condition.Definition, condition.ID); err != nil {
			return fmt.Errorf("condition %#x: %w", condition.ID, err)
		}
	}

	return nil
}

//nolint:ireturn // Value is the variant sum type.
func (a *AttributeSpec) defaultValue() (variant.Value, error) {
	kind, err := variant.ParseKind(a.Type)
	if err != nil {
		return nil, err
	}

	if !a.Array {
		return variant.Convert(kind, a.Value)
	}

	var items []any

	if a.Value != nil {
		var ok bool

		items, ok = a.Value.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: array value must be a sequence, got %T", variant.ErrConvert, a.Value)
		}
	}

	return variant.ConvertArray(kind, items)
}

// FromCatalog renders a catalog as a document that BuildCatalog turns back into an equivalent catalog.
func FromCatalog(c *catalog.Catalog) Document {
	snapshot := c.Snapshot()

	doc := Document{
		Categories:  make([]CategorySpec, 0, len(snapshot.Categories)),
		Definitions: make([]DefinitionSpec, 0, len(snapshot.Definitions)),
		Areas:       areaTree(&snapshot, catalog.RootArea),
		Sources:     make([]SourceSpec, 0, len(snapshot.Sources)),
		Conditions:  make([]ConditionSpec, 0, len(snapshot.Conditions)),
	}

	for _, category := range snapshot.Categories {
		spec := CategorySpec{
			Kind:        category.Kind.String(),
			Description: category.Description,
			ID:          category.ID,
		}

		for _, attribute := range category.Attributes {
			spec.Attributes = append(spec.Attributes, attributeSpec(&attribute))
		}

		doc.Categories = append(doc.Categories, spec)
	}

	for _, definition := range snapshot.Definitions {
		spec := DefinitionSpec{
			Name:          definition.Name,
			Kind:          definition.Kind.String(),
			ConditionText: definition.ConditionText,
			Message:       definition.Message,
			Severity:      definition.Severity,
			ID:            definition.ID,
			Category:      definition.CategoryID,
			AckRequired:   definition.AckRequired,
		}

		for _, sub := range definition.SubConditions {
			spec.SubConditions = append(spec.SubConditions, SubConditionSpec{
				Name:          sub.Name,
				ConditionText: sub.ConditionText,
				Message:       sub.Message,
				Severity:      sub.Severity,
				ID:            sub.ID,
				AckRequired:   sub.AckRequired,
			})
		}

		doc.Definitions = append(doc.Definitions, spec)
	}

	for _, source := range snapshot.Sources {
		doc.Sources = append(doc.Sources, SourceSpec{
			Name:   source.Name,
			Areas:  source.Areas,
			ID:     source.ID,
			Shared: source.Shared,
		})
	}

	for _, condition := range snapshot.Conditions {
		doc.Conditions = append(doc.Conditions, ConditionSpec{
			ID:         condition.ID,
			Source:     condition.SourceID,
			Definition: condition.DefinitionID,
		})
	}

	return doc
}

func attributeSpec(attribute *catalog.Attribute) AttributeSpec {
	spec := AttributeSpec{
		Value:       variant.Native(attribute.Default),
		Description: attribute.Description,
		Type:        attribute.Default.Kind().String(),
		ID:          attribute.ID,
	}

	if array, ok := attribute.Default.(variant.Array); ok {
		spec.Type = array.Elem().String()
		spec.Array = true
	}

	return spec
}

func areaTree(snapshot *catalog.Snapshot, parentID catalog.ID) []AreaSpec {
	names := make(map[catalog.ID]string, len(snapshot.Areas))
	for _, area := range snapshot.Areas {
		names[area.ID] = area.Name
	}

	return areaSubtree(snapshot.Children, names, parentID)
}

func areaSubtree(children map[catalog.ID][]catalog.ID, names map[catalog.ID]string, parentID catalog.ID) []AreaSpec {
	ids := children[parentID]
	if len(ids) == 0 {
		return nil
	}

	areas := make([]AreaSpec, 0, len(ids))
	for _, id := range ids {
		areas = append(areas, AreaSpec{
			Name:  names[id],
			Areas: areaSubtree(children, names, id),
			ID:    id,
		})
	}

	return areas
}
