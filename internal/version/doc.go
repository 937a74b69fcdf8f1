// Package version exposes build metadata for the ae-conditions tool.
//
// Version, Commit and BuildTime are injected at build time via Go ldflags.
// When they are left at their defaults the VCS stamp recorded by the Go
// toolchain is used instead.
package version
