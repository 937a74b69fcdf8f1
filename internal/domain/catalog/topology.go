package catalog

import "strings"

// topology holds the derived area and source views. It is updated by every
// successful registration, so queries never rebuild it.
type topology struct {
	children   map[ID][]ID
	sources    map[ID][]ID
	conditions map[ID][]ID
}

func newTopology() *topology {
	return &topology{
		children:   make(map[ID][]ID),
		sources:    make(map[ID][]ID),
		conditions: make(map[ID][]ID),
	}
}

func (t *topology) addChild(parentID, areaID ID) {
	t.children[parentID] = append(t.children[parentID], areaID)
}

func (t *topology) addSource(areaID, sourceID ID) {
	t.sources[areaID] = append(t.sources[areaID], sourceID)
}

func (t *topology) addCondition(sourceID, conditionID ID) {
	t.conditions[sourceID] = append(t.conditions[sourceID], conditionID)
}

// ChildrenOf returns the direct child areas of an area, RootArea included.
// Unknown ids yield an empty result.
func (c *Catalog) ChildrenOf(areaID ID) []ID {
	return cloneIDs(c.topology.children[areaID])
}

// SourcesOf returns the sources that are members of an area.
func (c *Catalog) SourcesOf(areaID ID) []ID {
	return cloneIDs(c.topology.sources[areaID])
}

// ConditionsOf returns the conditions bound to a source.
func (c *Catalog) ConditionsOf(sourceID ID) []ID {
	return cloneIDs(c.topology.conditions[sourceID])
}

// AreasOf returns the areas a source belongs to.
func (c *Catalog) AreasOf(sourceID ID) []ID {
	source, ok := c.sources[sourceID]
	if !ok {
		return []ID{}
	}

	return cloneIDs(source.Areas)
}

// AreaPath returns the dot separated names from the top-level area down to areaID.
// It returns an empty string for RootArea and unknown ids.
func (c *Catalog) AreaPath(areaID ID) string {
	var names []string

	for id := areaID; id != RootArea; {
		area, ok := c.areas[id]
		if !ok {
			break
		}

		names = append(names, area.Name)
		id = area.ParentID
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	return strings.Join(names, ".")
}

func cloneIDs(ids []ID) []ID {
	return append(make([]ID, 0, len(ids)), ids...)
}
