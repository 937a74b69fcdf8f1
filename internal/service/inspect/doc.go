// Package inspect implements the catalog diagnostics commands: validation of
// the settings file and a printout of the area, source and condition tree.
package inspect
