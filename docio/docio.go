// Package docio reads and writes documents as ir trees and converts Go
// values to and from their leaves.
//
// Two producers are provided, JSON and YAML.  Both keep object fields in
// document order.
package docio

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/signadot/tony-format/go-bind/gomap"
	"github.com/signadot/tony-format/go-bind/ir"
)

// Producer turns byte streams into trees and Go values into nodes.
type Producer interface {
	Name() string
	Read(r io.Reader) (*ir.Node, error)
	Write(w io.Writer, node *ir.Node) error

	// ToNode converts an arbitrary Go value to a tree.
	ToNode(v any) (*ir.Node, error)
	// CanMapToPrimitive reports whether v maps to a single leaf.
	CanMapToPrimitive(v any) bool
	// DecodeLeaf converts node to a value of type t.
	DecodeLeaf(node *ir.Node, t reflect.Type) (any, error)
}

var ErrRead = errors.New("read error")

// ReadError is returned when a document or a node cannot be decoded.
type ReadError struct {
	Format string
	Path   string
	Err    error
}

func (e *ReadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: cannot read %s: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool { return target == ErrRead }

// ByName returns the producer for a format name, "json" or "yaml".
func ByName(name string) (Producer, error) {
	switch name {
	case "json", "":
		return JSON(), nil
	case "yaml", "yml":
		return YAML(), nil
	}
	return nil, fmt.Errorf("unknown document format %q", name)
}

type values struct {
	format string
}

func (v values) Name() string { return v.format }

func (v values) ToNode(x any) (*ir.Node, error) {
	if n, ok := x.(*ir.Node); ok {
		return n.Clone(), nil
	}
	return gomap.ToIR(x)
}

func (v values) CanMapToPrimitive(x any) bool {
	return gomap.IsPrimitive(x)
}

func (v values) DecodeLeaf(node *ir.Node, t reflect.Type) (any, error) {
	res, err := gomap.Decode(node, t)
	if err != nil {
		rerr := &ReadError{Format: v.format, Err: err}
		if node != nil {
			rerr.Path = node.KPath()
		}
		return nil, rerr
	}
	return res, nil
}
