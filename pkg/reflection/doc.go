// Package reflection enumerates the properties of source objects. The
// FieldProvider capability is pluggable; StructFieldProvider is the default and
// understands these struct tags:
//
//	form:"name,required,readonly,nonvisual"  (form:"-" skips the field)
//	label:"Display label"
//	help:"Help text"
//	category:"group"
//	tags:"a,b"
//	enum:"draft|published"
//
// The package also defines the MultipleBeanSource capability that lets one
// logical source route each element to its own backing object.
package reflection
