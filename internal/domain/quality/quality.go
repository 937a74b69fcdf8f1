package quality

import (
	"fmt"
	"strings"
)

// Code is the packed 16-bit quality value as it travels on the wire.
type Code int16

// Status holds the quality bits (2..7) in their wire position.
type Status uint8

// Limit holds the limit bits (0..1).
type Limit uint8

// Known quality statuses.
const (
	Bad                        Status = 0x00
	BadConfigurationError      Status = 0x04
	BadNotConnected            Status = 0x08
	BadDeviceFailure           Status = 0x0C
	BadSensorFailure           Status = 0x10
	BadLastKnownValue          Status = 0x14
	BadCommFailure             Status = 0x18
	BadOutOfService            Status = 0x1C
	BadWaitingForInitialData   Status = 0x20
	Uncertain                  Status = 0x40
	UncertainLastUsableValue   Status = 0x44
	UncertainSensorNotAccurate Status = 0x50
	UncertainEUExceeded        Status = 0x54
	UncertainSubNormal         Status = 0x58
	Good                       Status = 0xC0
	GoodLocalOverride          Status = 0xD8
)

// Limit values.
const (
	LimitNone     Limit = 0x0
	LimitLow      Limit = 0x1
	LimitHigh     Limit = 0x2
	LimitConstant Limit = 0x3
)

const (
	statusMask  = 0x00FC
	limitMask   = 0x0003
	vendorShift = 8
)

// Quality is the unpacked form of a Code.
type Quality struct {
	Status Status
	Limit  Limit
	Vendor uint8
}

// GoodQuality is the quality attached to values with no known problem.
//
//nolint:gochecknoglobals // Value constant, structs cannot be const.
var GoodQuality = Quality{Status: Good}

// Encode packs the three fields into a signed 16-bit code.
// Bits outside each field's range are dropped.
func Encode(status Status, limit Limit, vendor uint8) Code {
	packed := uint16(status)&statusMask | uint16(limit)&limitMask | uint16(vendor)<<vendorShift

	return Code(int16(packed)) //nolint:gosec // Two's complement reinterpretation is the wire format.
}

// Decode unpacks a code. Unknown status patterns are kept as raw bits.
func Decode(code Code) (Status, Limit, uint8) {
	packed := uint16(code) //nolint:gosec // Two's complement reinterpretation is the wire format.

	return Status(packed & statusMask), Limit(packed & limitMask), uint8(packed >> vendorShift)
}

// FromCode builds a Quality from its packed code.
func FromCode(code Code) Quality {
	status, limit, vendor := Decode(code)

	return Quality{
		Status: status,
		Limit:  limit,
		Vendor: vendor,
	}
}

// Code returns the packed representation of q.
func (q Quality) Code() Code {
	return Encode(q.Status, q.Limit, q.Vendor)
}

// IsGood reports whether the status belongs to the Good family.
func (q Quality) IsGood() bool {
	return q.Status&0xC0 == 0xC0
}

// String renders q the way OPC tools print it, e.g. "(Good:Not Limited)".
func (q Quality) String() string {
	var b strings.Builder

	b.WriteString("(")
	b.WriteString(q.Status.String())

	if q.Limit != LimitNone {
		fmt.Fprintf(&b, ":[%s]", q.Limit)
	} else {
		b.WriteString(":Not Limited")
	}

	if q.Vendor != 0 {
		fmt.Fprintf(&b, ":%X", q.Vendor)
	}

	b.WriteString(")")

	return b.String()
}

// statusNames maps every known status to its display text and config name.
//
//nolint:gochecknoglobals // Lookup table.
var statusNames = map[Status][2]string{
	Bad:                        {"Bad", "bad"},
	BadConfigurationError:      {"Bad:Configuration Error", "bad_configuration_error"},
	BadNotConnected:            {"Bad:Not Connected", "bad_not_connected"},
	BadDeviceFailure:           {"Bad:Device Failure", "bad_device_failure"},
	BadSensorFailure:           {"Bad:Sensor Failure", "bad_sensor_failure"},
	BadLastKnownValue:          {"Bad:Last Known Value", "bad_last_known_value"},
	BadCommFailure:             {"Bad:Communication Failure", "bad_comm_failure"},
	BadOutOfService:            {"Bad:Out of Service", "bad_out_of_service"},
	BadWaitingForInitialData:   {"Bad:Waiting for Initial Data", "bad_waiting_for_initial_data"},
	Uncertain:                  {"Uncertain", "uncertain"},
	UncertainLastUsableValue:   {"Uncertain:Last Usable Value", "uncertain_last_usable_value"},
	UncertainSensorNotAccurate: {"Uncertain:Sensor not Accurate", "uncertain_sensor_not_accurate"},
	UncertainEUExceeded:        {"Uncertain:Engineering Unit exceeded", "uncertain_eu_exceeded"},
	UncertainSubNormal:         {"Uncertain:Sub Normal", "uncertain_sub_normal"},
	Good:                       {"Good", "good"},
	GoodLocalOverride:          {"Good:Local Override", "good_local_override"},
}

// String returns the display text of s, or its hex bits when unknown.
func (s Status) String() string {
	if names, ok := statusNames[s]; ok {
		return names[0]
	}

	return fmt.Sprintf("0x%02X", uint8(s))
}

// String returns the display text of l.
func (l Limit) String() string {
	switch l {
	case LimitNone:
		return "None"
	case LimitLow:
		return "Low"
	case LimitHigh:
		return "High"
	case LimitConstant:
		return "Constant"
	default:
		return fmt.Sprintf("0x%X", uint8(l))
	}
}

// ParseStatus converts a config name such as "bad_comm_failure" to a Status.
func ParseStatus(s string) (Status, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for status, names := range statusNames {
		if names[1] == s {
			return status, true
		}
	}

	return Bad, false
}

// ParseLimit converts "none", "low", "high" or "constant" to a Limit.
func ParseLimit(s string) (Limit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LimitNone, true
	case "low":
		return LimitLow, true
	case "high":
		return LimitHigh, true
	case "constant":
		return LimitConstant, true
	default:
		return LimitNone, false
	}
}
