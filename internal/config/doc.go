// Package config defines the YAML settings file of the ae-conditions tool and
// provides helpers to load, validate and save it.
//
// Besides log settings the file carries the catalog document: categories with
// their attributes, condition definitions, the area tree, sources and
// condition bindings. BuildCatalog registers the document into a catalog.
package config
