// Package quality packs and unpacks the 16-bit quality code attached to every
// value and event.
//
// Layout: bits 0-1 hold the limit, bits 2-7 the quality status and bits 8-15
// an opaque vendor byte. The packed value is a signed int16, so codes with
// bit 15 set are negative.
package quality
