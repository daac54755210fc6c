// Package model defines the runtime form model: the Property descriptors a
// FieldProvider reflects out of a source object, and the Element each property
// becomes once an ElementFactory has resolved its FieldType. Elements read and
// write their property through an Accessor against a reactive source value, so
// swapping the object behind a form rebinds every element without recreating
// it. Metadata keys are free-form strings; filters and widget resolution use
// `category`, `side`, `visual`, and `widget`.
package model
