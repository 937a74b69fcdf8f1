package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/domain/catalog"
	"github.com/oshokin/ae-conditions/internal/domain/variant"
)

const (
	catDeviceFailure catalog.ID = 0x100
	catSysConfig     catalog.ID = 0x200
	catLevel         catalog.ID = 0x300
	catSysFail       catalog.ID = 0x301

	attrLevelCV    catalog.ID = 0x400
	attrErrorCode  catalog.ID = 0x401
	attrDeviceName catalog.ID = 0x402

	defPVLevelRamp catalog.ID = 0x500
	defHiLevelTank catalog.ID = 0x502
	defSysFailTemp catalog.ID = 0x504

	subLoLo catalog.ID = 0x550
	subLo   catalog.ID = 0x551
	subHi   catalog.ID = 0x552
	subHiHi catalog.ID = 0x553

	areaNorth catalog.ID = 0x600

	srcNetworkAdapter catalog.ID = 0x701
	srcTank1          catalog.ID = 0x705
	srcMulti          catalog.ID = 0x709

	condTank1Overflow catalog.ID = 0x800
	condSysFail       catalog.ID = 0x803
	condWaterLevel    catalog.ID = 0x804

	// condBulkBase is the first of bulkConditions extra single-state bindings.
	condBulkBase   catalog.ID = 0x900
	bulkConditions            = 128
)

var (
	fixedTime     = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	errTestRefuse = errors.New("refused by test notifier")
	errTestSink   = errors.New("sink unavailable")
)

// newPlantCatalog registers a small plant plus bulk conditions for concurrency tests.
func newPlantCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c := catalog.New()

	require.NoError(t, c.AddEventCategory(catDeviceFailure, catalog.CategorySimple, "Device Failure"))
	require.NoError(t, c.AddEventCategory(catSysConfig, catalog.CategoryTracking, "System Configuration"))
	require.NoError(t, c.AddEventCategory(catLevel, catalog.CategoryCondition, "Level"))
	require.NoError(t, c.AddEventCategory(catSysFail, catalog.CategoryCondition, "System Failure"))

	require.NoError(t, c.AddEventAttribute(catLevel, attrLevelCV, "Current Value", variant.Int32(0)))
	require.NoError(t, c.AddEventAttribute(catDeviceFailure, attrErrorCode, "Error Code", variant.Int32(0)))
	require.NoError(t, c.AddEventAttribute(catDeviceFailure, attrDeviceName, "Device Name", variant.String("")))

	require.NoError(t, c.AddSingleStateConditionDefinition(
		catSysFail, defSysFailTemp, "SYSTEM_FAILURE Temperature", "temp > 100", 100, "Excess Temperature", false))
	require.NoError(t, c.AddSingleStateConditionDefinition(
		catLevel, defHiLevelTank, "HI Tank", "level > 80", 500, "Overflow", true))
	require.NoError(t, c.AddMultiStateConditionDefinition(catLevel, defPVLevelRamp, "PVLEVEL Ramp"))

	require.NoError(t, c.AddSubConditionDefinition(defPVLevelRamp, subLoLo, "LO_LO", "Ramp < 15", 400, "Low Low Alarm", true))
	require.NoError(t, c.AddSubConditionDefinition(defPVLevelRamp, subLo, "LO", "Ramp < 25", 100, "Low Alarm", false))
	require.NoError(t, c.AddSubConditionDefinition(defPVLevelRamp, subHi, "HI", "Ramp > 75", 100, "High Alarm", false))
	require.NoError(t, c.AddSubConditionDefinition(defPVLevelRamp, subHiHi, "HI_HI", "Ramp > 85", 400, "High High Alarm", true))

	require.NoError(t, c.AddArea(catalog.RootArea, areaNorth, "PlantNorth"))

	require.NoError(t, c.AddSource(catalog.RootArea, srcNetworkAdapter, "Network Adapter", false))
	require.NoError(t, c.AddSource(areaNorth, srcTank1, "Level Sensor Tank 1", false))
	require.NoError(t, c.AddSource(catalog.RootArea, srcMulti, "Multiple Used Source", true))

	require.NoError(t, c.AddCondition(srcTank1, defHiLevelTank, condTank1Overflow))
	require.NoError(t, c.AddCondition(srcNetworkAdapter, defSysFailTemp, condSysFail))
	require.NoError(t, c.AddCondition(srcMulti, defPVLevelRamp, condWaterLevel))

	for i := range catalog.ID(bulkConditions) {
		require.NoError(t, c.AddCondition(srcMulti, defHiLevelTank, condBulkBase+i))
	}

	return c
}

// newTestEngine builds an engine over the plant catalog with a fixed clock and sequential event ids.
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	var seq atomic.Uint64

	defaults := []Option{
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string { return fmt.Sprintf("event-%d", seq.Add(1)) }),
	}

	e, err := New(newPlantCatalog(t), append(defaults, opts...)...)
	require.NoError(t, err)

	return e
}

// recorder collects everything published by the engine.
type recorder struct {
	notifications []*alarm.Notification
	events        []*alarm.Event
	acks          []*alarm.AckConfirmation
	err           error
	mu            sync.Mutex
}

func (r *recorder) PublishCondition(_ context.Context, n *alarm.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, n)

	return r.err
}

func (r *recorder) PublishEvent(_ context.Context, e *alarm.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)

	return r.err
}

func (r *recorder) PublishAck(_ context.Context, a *alarm.AckConfirmation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.acks = append(r.acks, a)

	return r.err
}

func (r *recorder) notificationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.notifications)
}

// ackNotifierFunc adapts a function to AckNotifier.
type ackNotifierFunc func(ctx context.Context, conditionID, subConditionID uint32) error

func (f ackNotifierFunc) OnAckNotification(ctx context.Context, conditionID, subConditionID uint32) error {
	return f(ctx, conditionID, subConditionID)
}

// process submits a single change and returns its result.
func process(t *testing.T, e *Engine, change alarm.StateChange) Result {
	t.Helper()

	results := e.ProcessStateChanges(context.Background(), []alarm.StateChange{change})
	require.Len(t, results, 1)

	return results[0]
}
