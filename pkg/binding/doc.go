// Package binding provides the small reactive layer the element provider is
// built on: observable values, one-way bindings between them, and an ordered
// observable list that reports every mutation to its listeners.
//
// The types are not safe for concurrent use. Like the UI toolkits they stand
// in for, they expect every read and mutation to happen on the goroutine that
// owns the form.
package binding
