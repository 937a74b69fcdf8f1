package catalog

// Snapshot is a deep copy of everything registered in a catalog, in
// registration order. Two snapshots compare equal iff the catalogs hold the
// same entities and topology.
type Snapshot struct {
	Children    map[ID][]ID
	Members     map[ID][]ID
	Bindings    map[ID][]ID
	Categories  []Category
	Definitions []Definition
	Areas       []Area
	Sources     []Source
	Conditions  []Condition
}

// Snapshot returns a deep copy of the catalog contents.
func (c *Catalog) Snapshot() Snapshot {
	snapshot := Snapshot{
		Children:    cloneIndex(c.topology.children),
		Members:     cloneIndex(c.topology.sources),
		Bindings:    cloneIndex(c.topology.conditions),
		Categories:  make([]Category, 0, len(c.categoryOrder)),
		Definitions: make([]Definition, 0, len(c.definitionOrder)),
		Areas:       make([]Area, 0, len(c.areaOrder)),
		Sources:     make([]Source, 0, len(c.sourceOrder)),
		Conditions:  make([]Condition, 0, len(c.conditionOrder)),
	}

	for _, id := range c.categoryOrder {
		category := *c.categories[id]
		category.Attributes = append([]Attribute(nil), category.Attributes...)
		snapshot.Categories = append(snapshot.Categories, category)
	}

	for _, id := range c.definitionOrder {
		definition := *c.definitions[id]
		definition.SubConditions = append([]SubCondition(nil), definition.SubConditions...)
		snapshot.Definitions = append(snapshot.Definitions, definition)
	}

	for _, id := range c.areaOrder {
		snapshot.Areas = append(snapshot.Areas, *c.areas[id])
	}

	for _, id := range c.sourceOrder {
		source := *c.sources[id]
		source.Areas = cloneIDs(source.Areas)
		snapshot.Sources = append(snapshot.Sources, source)
	}

	for _, id := range c.conditionOrder {
		snapshot.Conditions = append(snapshot.Conditions, *c.conditions[id])
	}

	return snapshot
}

func cloneIndex(index map[ID][]ID) map[ID][]ID {
	cloned := make(map[ID][]ID, len(index))
	for key, ids := range index {
		cloned[key] = cloneIDs(ids)
	}

	return cloned
}
