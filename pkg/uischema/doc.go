// Package uischema loads form presets from JSON or YAML documents and turns
// them into filter chains. A preset names the fields a form shows, their
// order, categories, and per-field presentation overrides, so form layout can
// change without touching the bound types.
package uischema
