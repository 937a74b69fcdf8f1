package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/domain/variant"
)

const (
	catDeviceFailure ID = 0x100
	catSysConfig     ID = 0x200
	catLevel         ID = 0x300
	catSysFail       ID = 0x301

	attrLevelCV    ID = 0x400
	attrErrorCode  ID = 0x401
	attrDeviceName ID = 0x402

	defPVLevelRamp ID = 0x500
	defHiLevelTank ID = 0x502
	defSysFailTemp ID = 0x504

	subLoLo ID = 0x550
	subLo   ID = 0x551
	subHi   ID = 0x552
	subHiHi ID = 0x553

	areaNorth       ID = 0x600
	areaNorthDevice ID = 0x601
	areaSouth       ID = 0x602
	areaSouthDevice ID = 0x603

	srcNetworkAdapter ID = 0x701
	srcTank1          ID = 0x705
	srcTank2          ID = 0x706
	srcMulti          ID = 0x709

	condTank1Overflow ID = 0x800
	condTank2Overflow ID = 0x801
	condWaterLevel    ID = 0x804
)

// newPlantCatalog registers a small plant in the documented order.
func newPlantCatalog(t *testing.T) *Catalog {
	t.Helper()

	c := New()

	require.NoError(t, c.AddEventCategory(catDeviceFailure, CategorySimple, "Device Failure"))
	require.NoError(t, c.AddEventCategory(catSysConfig, CategoryTracking, "System Configuration"))
	require.NoError(t, c.AddEventCategory(catLevel, CategoryCondition, "Level"))
	require.NoError(t, c.AddEventCategory(catSysFail, CategoryCondition, "System Failure"))

	require.NoError(t, c.AddEventAttribute(catLevel, attrLevelCV, "Current Value", variant.Int32(0)))
	require.NoError(t, c.AddEventAttribute(catDeviceFailure, attrErrorCode, "Error Code", variant.Int32(0)))
	require.NoError(t, c.AddEventAttribute(catDeviceFailure, attrDeviceName, "Device Name", variant.String("")))

	require.NoError(t, c.AddSingleStateConditionDefinition(
		catSysFail, defSysFailTemp, "SYSTEM_FAILURE Temperature", "temp > 100", 100, "Excess Temperature", false))
	require.NoError(t, c.AddSingleStateConditionDefinition(
		catLevel, defHiLevelTank, "HI Tank", "level > 80", 100, "Overflow", true))
	require.NoError(t, c.AddMultiStateConditionDefinition(catLevel, defPVLevelRamp, "PVLEVEL Ramp"))

	require.NoError(t, c.AddSubConditionDefinition(defPVLevelRamp, subLoLo, "LO_LO", "Ramp < 15", 400, "Low Low Alarm", false))
	require.NoError(t, c.AddSubConditionDefinition(defPVLevelRamp, subLo, "LO", "Ramp < 25", 100, "Low Alarm", false))
	require.NoError(t, c.AddSubConditionDefinition(defPVLevelRamp, subHi, "HI", "Ramp > 75", 100, "High Alarm", false))
	require.NoError(t, c.AddSubConditionDefinition(defPVLevelRamp, subHiHi, "HI_HI", "Ramp > 85", 400, "High High Alarm", false))

	require.NoError(t, c.AddArea(RootArea, areaNorth, "PlantNorth"))
	require.NoError(t, c.AddArea(areaNorth, areaNorthDevice, "Device1"))
	require.NoError(t, c.AddArea(RootArea, areaSouth, "PlantSouth"))
	require.NoError(t, c.AddArea(areaSouth, areaSouthDevice, "Device1"))

	require.NoError(t, c.AddSource(RootArea, srcNetworkAdapter, "Network Adapter", false))
	require.NoError(t, c.AddSource(RootArea, srcTank1, "Level Sensor Tank 1", false))
	require.NoError(t, c.AddSource(RootArea, srcTank2, "Level Sensor Tank 2", false))
	require.NoError(t, c.AddSource(RootArea, srcMulti, "Multiple Used Source", true))
	require.NoError(t, c.AddExistingSource(areaNorthDevice, srcMulti))
	require.NoError(t, c.AddExistingSource(areaSouthDevice, srcMulti))

	require.NoError(t, c.AddCondition(srcMulti, defHiLevelTank, condTank1Overflow))
	require.NoError(t, c.AddCondition(srcTank2, defHiLevelTank, condTank2Overflow))
	require.NoError(t, c.AddCondition(srcTank1, defPVLevelRamp, condWaterLevel))

	return c
}

// TestCatalog_Lookups verifies registered entities are returned with their data.
func TestCatalog_Lookups(t *testing.T) {
	t.Parallel()

	c := newPlantCatalog(t)

	category, ok := c.Category(catDeviceFailure)
	require.True(t, ok)
	require.Equal(t, CategorySimple, category.Kind)
	require.Len(t, category.Attributes, 2)
	require.Equal(t, variant.KindString, category.Attributes[1].Default.Kind())

	definition, ok := c.Definition(defPVLevelRamp)
	require.True(t, ok)
	require.Equal(t, MultiState, definition.Kind)
	require.Len(t, definition.SubConditions, 4)

	sub, ok := definition.SubCondition(subHiHi)
	require.True(t, ok)
	require.Equal(t, 400, sub.Severity)
	require.Equal(t, "High High Alarm", sub.Message)

	_, ok = definition.SubCondition(0x999)
	require.False(t, ok)

	binding, ok := c.Binding(condTank1Overflow)
	require.True(t, ok)
	require.Equal(t, srcMulti, binding.Condition.SourceID)
	require.Equal(t, "Overflow", binding.Definition.Message)
	require.True(t, binding.Definition.AckRequired)
	require.Equal(t, catLevel, binding.Category.ID)

	_, ok = c.Binding(0x999)
	require.False(t, ok)

	require.Equal(t, []ID{condTank1Overflow, condTank2Overflow, condWaterLevel}, c.ConditionIDs())
}

// TestCatalog_Topology verifies the derived area and source views.
func TestCatalog_Topology(t *testing.T) {
	t.Parallel()

	c := newPlantCatalog(t)

	require.Equal(t, []ID{areaNorth, areaSouth}, c.ChildrenOf(RootArea))
	require.Equal(t, []ID{areaNorthDevice}, c.ChildrenOf(areaNorth))
	require.Empty(t, c.ChildrenOf(areaNorthDevice))
	require.Equal(t, []ID{srcNetworkAdapter, srcTank1, srcTank2, srcMulti}, c.SourcesOf(RootArea))
	require.Equal(t, []ID{srcMulti}, c.SourcesOf(areaSouthDevice))
	require.Equal(t, []ID{condTank1Overflow}, c.ConditionsOf(srcMulti))
	require.Equal(t, []ID{RootArea, areaNorthDevice, areaSouthDevice}, c.AreasOf(srcMulti))

	// Unknown ids yield empty, non-nil results.
	require.NotNil(t, c.ChildrenOf(0xDEAD))
	require.Empty(t, c.ChildrenOf(0xDEAD))
	require.Empty(t, c.SourcesOf(0xDEAD))
	require.Empty(t, c.ConditionsOf(0xDEAD))
	require.Empty(t, c.AreasOf(0xDEAD))

	// Results are copies.
	children := c.ChildrenOf(RootArea)
	children[0] = 0xDEAD
	require.Equal(t, areaNorth, c.ChildrenOf(RootArea)[0])

	require.Equal(t, "PlantSouth.Device1", c.AreaPath(areaSouthDevice))
	require.Empty(t, c.AreaPath(RootArea))
	require.Empty(t, c.AreaPath(0xDEAD))
}

// TestCatalog_RegistrationErrors verifies every failure returns the matching
// error and leaves the catalog unchanged.
func TestCatalog_RegistrationErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		call func(c *Catalog) error
		want error
	}{
		{"duplicate category", func(c *Catalog) error {
			return c.AddEventCategory(catLevel, CategoryCondition, "Again")
		}, alarm.ErrDuplicateID},
		{"category with bad kind", func(c *Catalog) error {
			return c.AddEventCategory(0x399, CategoryKind(9), "Bad")
		}, alarm.ErrUnknownCategory},
		{"attribute of unknown category", func(c *Catalog) error {
			return c.AddEventAttribute(0x399, 0x499, "x", variant.Int32(0))
		}, alarm.ErrUnknownCategory},
		{"duplicate attribute", func(c *Catalog) error {
			return c.AddEventAttribute(catLevel, attrLevelCV, "x", variant.Int32(0))
		}, alarm.ErrDuplicateID},
		{"attribute without default", func(c *Catalog) error {
			return c.AddEventAttribute(catLevel, 0x499, "x", nil)
		}, alarm.ErrInvalidDefault},
		{"definition in unknown category", func(c *Catalog) error {
			return c.AddSingleStateConditionDefinition(0x399, 0x599, "x", "", 1, "", false)
		}, alarm.ErrUnknownCategory},
		{"definition in simple category", func(c *Catalog) error {
			return c.AddMultiStateConditionDefinition(catDeviceFailure, 0x599, "x")
		}, alarm.ErrUnknownCategory},
		{"duplicate definition", func(c *Catalog) error {
			return c.AddMultiStateConditionDefinition(catLevel, defHiLevelTank, "other name")
		}, alarm.ErrDuplicateID},
		{"duplicate definition name", func(c *Catalog) error {
			return c.AddMultiStateConditionDefinition(catLevel, 0x599, "HI Tank")
		}, alarm.ErrDuplicateName},
		{"sub-condition of unknown definition", func(c *Catalog) error {
			return c.AddSubConditionDefinition(0x599, 0x560, "x", "", 1, "", false)
		}, alarm.ErrUnknownConditionDefinition},
		{"sub-condition of single-state definition", func(c *Catalog) error {
			return c.AddSubConditionDefinition(defHiLevelTank, 0x560, "x", "", 1, "", false)
		}, alarm.ErrUnknownConditionDefinition},
		{"sub-condition id zero", func(c *Catalog) error {
			return c.AddSubConditionDefinition(defPVLevelRamp, 0, "x", "", 1, "", false)
		}, alarm.ErrInvalidID},
		{"duplicate sub-condition", func(c *Catalog) error {
			return c.AddSubConditionDefinition(defPVLevelRamp, subHi, "x", "", 1, "", false)
		}, alarm.ErrDuplicateID},
		{"area with unknown parent", func(c *Catalog) error {
			return c.AddArea(0x699, 0x698, "x")
		}, alarm.ErrUnknownParent},
		{"duplicate area", func(c *Catalog) error {
			return c.AddArea(RootArea, areaSouth, "x")
		}, alarm.ErrDuplicateID},
		{"root sentinel as area", func(c *Catalog) error {
			return c.AddArea(areaNorth, RootArea, "x")
		}, alarm.ErrInvalidID},
		{"source in unknown area", func(c *Catalog) error {
			return c.AddSource(0x699, 0x799, "x", false)
		}, alarm.ErrUnknownArea},
		{"duplicate source", func(c *Catalog) error {
			return c.AddSource(areaNorth, srcTank1, "x", false)
		}, alarm.ErrDuplicateID},
		{"existing source in unknown area", func(c *Catalog) error {
			return c.AddExistingSource(0x699, srcMulti)
		}, alarm.ErrUnknownArea},
		{"existing source unknown", func(c *Catalog) error {
			return c.AddExistingSource(areaNorth, 0x799)
		}, alarm.ErrUnknownSource},
		{"existing source not shared", func(c *Catalog) error {
			return c.AddExistingSource(areaNorth, srcTank1)
		}, alarm.ErrNotShared},
		{"existing source already member", func(c *Catalog) error {
			return c.AddExistingSource(areaNorthDevice, srcMulti)
		}, alarm.ErrDuplicateID},
		{"condition of unknown source", func(c *Catalog) error {
			return c.AddCondition(0x799, defHiLevelTank, 0x899)
		}, alarm.ErrUnknownSource},
		{"condition of unknown definition", func(c *Catalog) error {
			return c.AddCondition(srcTank1, 0x599, 0x899)
		}, alarm.ErrUnknownConditionDefinition},
		{"duplicate condition", func(c *Catalog) error {
			return c.AddCondition(srcTank1, defHiLevelTank, condTank2Overflow)
		}, alarm.ErrDuplicateID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newPlantCatalog(t)
			before := c.Snapshot()

			err := tc.call(c)
			require.ErrorIs(t, err, tc.want)
			require.Equal(t, before, c.Snapshot())
		})
	}
}

// TestCatalog_MultiStateWithoutSubConditions rejects binding an empty multi-state definition.
func TestCatalog_MultiStateWithoutSubConditions(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddEventCategory(catLevel, CategoryCondition, "Level"))
	require.NoError(t, c.AddMultiStateConditionDefinition(catLevel, defPVLevelRamp, "PVLEVEL Ramp"))
	require.NoError(t, c.AddSource(RootArea, srcTank1, "Tank", false))

	err := c.AddCondition(srcTank1, defPVLevelRamp, condWaterLevel)
	require.ErrorIs(t, err, alarm.ErrUnknownConditionDefinition)
	require.Empty(t, c.ConditionIDs())
}

// TestCatalog_SeverityClamp verifies out of range severities are clamped.
func TestCatalog_SeverityClamp(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddEventCategory(catLevel, CategoryCondition, "Level"))
	require.NoError(t, c.AddSingleStateConditionDefinition(catLevel, 0x510, "low", "", 0, "", false))
	require.NoError(t, c.AddSingleStateConditionDefinition(catLevel, 0x511, "high", "", 5000, "", false))
	require.NoError(t, c.AddMultiStateConditionDefinition(catLevel, 0x512, "multi"))
	require.NoError(t, c.AddSubConditionDefinition(0x512, 1, "neg", "", -3, "", false))

	low, _ := c.Definition(0x510)
	high, _ := c.Definition(0x511)
	multi, _ := c.Definition(0x512)

	require.Equal(t, MinSeverity, low.Severity)
	require.Equal(t, MaxSeverity, high.Severity)
	require.Equal(t, MinSeverity, multi.SubConditions[0].Severity)
	require.Equal(t, 500, ClampSeverity(500))
}

// TestCatalog_Seal verifies a sealed catalog rejects registrations but still answers queries.
func TestCatalog_Seal(t *testing.T) {
	t.Parallel()

	c := newPlantCatalog(t)
	c.Seal()

	before := c.Snapshot()

	require.ErrorIs(t, c.AddEventCategory(0x999, CategorySimple, "x"), alarm.ErrSealed)
	require.ErrorIs(t, c.AddEventAttribute(catLevel, 0x499, "x", variant.Bool(false)), alarm.ErrSealed)
	require.ErrorIs(t, c.AddMultiStateConditionDefinition(catLevel, 0x599, "x"), alarm.ErrSealed)
	require.ErrorIs(t, c.AddSubConditionDefinition(defPVLevelRamp, 0x560, "x", "", 1, "", false), alarm.ErrSealed)
	require.ErrorIs(t, c.AddArea(RootArea, 0x699, "x"), alarm.ErrSealed)
	require.ErrorIs(t, c.AddSource(RootArea, 0x799, "x", false), alarm.ErrSealed)
	require.ErrorIs(t, c.AddExistingSource(areaNorth, srcMulti), alarm.ErrSealed)
	require.ErrorIs(t, c.AddCondition(srcTank1, defHiLevelTank, 0x899), alarm.ErrSealed)

	require.Equal(t, before, c.Snapshot())
	require.Equal(t, []ID{condTank1Overflow}, c.ConditionsOf(srcMulti))
}

// TestKindStrings covers enum names.
func TestKindStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "condition", CategoryCondition.String())
	require.Equal(t, "tracking", CategoryTracking.String())
	require.Equal(t, "multi_state", MultiState.String())
	require.Equal(t, "category_kind(9)", CategoryKind(9).String())
}

// TestParseKinds covers the name to enum mapping used by configuration files.
func TestParseKinds(t *testing.T) {
	t.Parallel()

	kind, ok := ParseCategoryKind("simple")
	require.True(t, ok)
	require.Equal(t, CategorySimple, kind)

	_, ok = ParseCategoryKind("category_kind(9)")
	require.False(t, ok)

	definition, ok := ParseDefinitionKind("single_state")
	require.True(t, ok)
	require.Equal(t, SingleState, definition)

	_, ok = ParseDefinitionKind("tri_state")
	require.False(t, ok)
}
