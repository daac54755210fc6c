// Package openapi reflects form properties from an OpenAPI schema object
// instead of a Go struct. Sources are plain map[string]any documents; the
// schema supplies ordering, labels, enums, and read-only hints through
// kin-openapi.
package openapi
