// Package gomap converts between Go values and IR nodes by reflection.
//
// It is the value layer under the document producers in docio: mutators
// hand arbitrary Go values to ToIR, and scalar accessors decode leaves with
// Decode.
//
// Field visibility:
//   - Only exported struct fields are processed (like encoding/json)
//   - `tony:"field=name"` renames a field, `tony:"omit"` skips it
//   - Embedded structs are flattened
//
// Types may take over their own conversion by implementing Marshaler or
// Unmarshaler; encoding.TextMarshaler and encoding.TextUnmarshaler are
// honoured for string leaves.
//
// Example usage:
//
//	node, err := gomap.ToIR(Person{Name: "Alice", Age: 30})
//
//	var p Person
//	err = gomap.FromIR(node, &p)
package gomap

import "github.com/signadot/tony-format/go-bind/ir"

// Marshaler is implemented by types that convert themselves to IR.
type Marshaler interface {
	ToIR() (*ir.Node, error)
}

// Unmarshaler is implemented by types that populate themselves from IR.
type Unmarshaler interface {
	FromIR(*ir.Node) error
}
