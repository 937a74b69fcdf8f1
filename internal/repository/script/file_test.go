package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ae-conditions/internal/domain/alarm"
	"github.com/oshokin/ae-conditions/internal/domain/catalog"
	"github.com/oshokin/ae-conditions/internal/domain/quality"
	"github.com/oshokin/ae-conditions/internal/domain/variant"
)

const replayFile = "testdata/plant-replay.yaml"

// newCatalog registers the categories and bindings used by the tests.
func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	samples, err := variant.NewArray(variant.KindInt16)
	require.NoError(t, err)

	c := catalog.New()

	require.NoError(t, c.AddEventCategory(0x100, catalog.CategorySimple, "Device Failure"))
	require.NoError(t, c.AddEventAttribute(0x100, 0x401, "Error Code", variant.Int32(0)))
	require.NoError(t, c.AddEventAttribute(0x100, 0x402, "Device Name", variant.String("")))
	require.NoError(t, c.AddEventCategory(0x300, catalog.CategoryCondition, "Level"))
	require.NoError(t, c.AddEventAttribute(0x300, 0x400, "Current Value", variant.Int32(0)))
	require.NoError(t, c.AddEventAttribute(0x300, 0x403, "Samples", samples))
	require.NoError(t, c.AddSingleStateConditionDefinition(0x300, 0x502, "HI Tank", "level > 80", 100, "Overflow", true))
	require.NoError(t, c.AddSource(catalog.RootArea, 0x705, "Level Sensor Tank 1", false))
	require.NoError(t, c.AddCondition(0x705, 0x502, 0x800))

	return c
}

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.yaml"))

	s, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, s)
}

// TestFileRepository_LoadSample verifies the sample replay decodes into the expected steps.
func TestFileRepository_LoadSample(t *testing.T) {
	t.Parallel()

	s, err := NewFileRepository(replayFile).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, s.Steps, 7)

	wantKinds := []StepKind{
		StepChanges, StepAck, StepChanges, StepSimple, StepTracking, StepChanges,
	}

	for i, want := range wantKinds {
		kind, err := s.Steps[i+1].Kind()
		require.NoError(t, err)
		require.Equal(t, want, kind, "step %d", i+2)
	}

	activation := s.Steps[1].Changes[0]
	require.Equal(t, uint32(0x800), activation.Condition)
	require.True(t, activation.Active)
	require.NotNil(t, activation.Timestamp)
	require.Equal(t, time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC), activation.Timestamp.UTC())

	ack := s.Steps[2].Ack
	require.Equal(t, "tank 1 checked", ack.Comment)
	require.Equal(t, &alarm.Actor{Hostname: "console-1", Username: "operator"}, ack.Actor.Actor())

	override := s.Steps[3].Changes[4]
	require.Equal(t, 900, *override.Severity)
	require.Equal(t, "Ramp empty", *override.Message)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns an equal script.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "script.yaml")
	repo := NewFileRepository(file)

	code := int16(-16192)
	severity := 700
	ts := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	want := &Script{Steps: []Step{
		{Changes: []Change{{
			Timestamp:    &ts,
			Severity:     &severity,
			Quality:      &Quality{Code: &code},
			Condition:    0x804,
			SubCondition: 0x551,
			Active:       true,
		}}},
		{Ack: &Ack{Condition: 0x804, Comment: "ok"}},
		{Tracking: &Event{Category: 0x200, Source: 0x709, Message: "changed", Actor: &Actor{Username: "engineer"}}},
	}}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = os.Stat(file)
	require.NoError(t, err)
}

// TestScript_Validate rejects steps holding zero or several requests.
func TestScript_Validate(t *testing.T) {
	t.Parallel()

	empty := &Script{Steps: []Step{{}}}
	require.ErrorIs(t, empty.Validate(), ErrInvalidScript)

	double := &Script{Steps: []Step{{
		Ack:    &Ack{Condition: 1},
		Simple: &Event{Category: 1},
	}}}
	require.ErrorIs(t, double.Validate(), ErrInvalidScript)

	repo := NewFileRepository(filepath.Join(t.TempDir(), "bad.yaml"))
	require.ErrorIs(t, repo.Save(context.Background(), empty), ErrInvalidScript)
}

// TestChange_StateChange verifies attribute typing and quality decoding.
func TestChange_StateChange(t *testing.T) {
	t.Parallel()

	c := newCatalog(t)
	message := "Tank 1 at 97%"

	change := Change{
		Message:    &message,
		Quality:    &Quality{Status: "uncertain_eu_exceeded", Limit: "high", Vendor: 3},
		Attributes: []any{97, []any{1, -2}},
		Condition:  0x800,
		Active:     true,
	}

	got, err := change.StateChange(c)
	require.NoError(t, err)
	require.Equal(t, &message, got.Message)
	require.True(t, got.Active)
	require.True(t, got.Timestamp.IsZero())
	require.Equal(t, quality.Quality{Status: quality.UncertainEUExceeded, Limit: quality.LimitHigh, Vendor: 3}, got.Quality)

	samples, err := variant.NewArray(variant.KindInt16, variant.Int16(1), variant.Int16(-2))
	require.NoError(t, err)
	require.Equal(t, []variant.Value{variant.Int32(97), samples}, got.AttributeValues)

	// No attributes and no quality.
	got, err = (&Change{Condition: 0x800}).StateChange(c)
	require.NoError(t, err)
	require.Nil(t, got.AttributeValues)
	require.Equal(t, quality.GoodQuality, got.Quality)

	// Unknown condition without attributes is left to the engine.
	_, err = (&Change{Condition: 0x8FF}).StateChange(c)
	require.NoError(t, err)

	tests := []struct {
		name    string
		change  Change
		wantErr error
	}{
		{
			name:    "attributes on unknown condition",
			change:  Change{Condition: 0x8FF, Attributes: []any{1}},
			wantErr: alarm.ErrUnknownCondition,
		},
		{
			name:    "too many attributes",
			change:  Change{Condition: 0x800, Attributes: []any{1, []any{}, 3}},
			wantErr: ErrInvalidScript,
		},
		{
			name:    "value out of range",
			change:  Change{Condition: 0x800, Attributes: []any{1, []any{70000}}},
			wantErr: variant.ErrConvert,
		},
		{
			name:    "scalar for array attribute",
			change:  Change{Condition: 0x800, Attributes: []any{1, 2}},
			wantErr: variant.ErrConvert,
		},
		{
			name:    "unknown status",
			change:  Change{Condition: 0x800, Quality: &Quality{Status: "shiny"}},
			wantErr: ErrInvalidScript,
		},
		{
			name:    "unknown limit",
			change:  Change{Condition: 0x800, Quality: &Quality{Limit: "sideways"}},
			wantErr: ErrInvalidScript,
		},
	}

	for _, tt := range tests {
		_, err = tt.change.StateChange(c)
		require.ErrorIs(t, err, tt.wantErr, tt.name)
	}
}

// TestEvent_Event verifies event conversion against the category attributes.
func TestEvent_Event(t *testing.T) {
	t.Parallel()

	c := newCatalog(t)

	event := Event{
		Actor:      &Actor{Hostname: "console-2", Username: "engineer"},
		Message:    "Adapter lost link",
		Attributes: []any{17, "eth0"},
		Category:   0x100,
		Source:     0x701,
		Severity:   300,
	}

	got, err := event.Event(c)
	require.NoError(t, err)
	require.Equal(t, []variant.Value{variant.Int32(17), variant.String("eth0")}, got.AttributeValues)
	require.Equal(t, "engineer@console-2", got.Actor.String())
	require.Equal(t, 300, got.Severity)

	_, err = (&Event{Category: 0x1FF, Attributes: []any{1}}).Event(c)
	require.ErrorIs(t, err, alarm.ErrUnknownCategory)
}
