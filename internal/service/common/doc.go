// Package common holds helpers shared by several services.
//
// It loads the settings file, applies its log settings and builds the catalog,
// and detects the current system actor (hostname/username) for audit purposes.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
