package bind

import (
	"errors"
	"fmt"

	"github.com/signadot/tony-format/go-bind/ir"
)

var (
	ErrMissingNode = errors.New("missing node")
	ErrStructural  = errors.New("structural mismatch")
)

// MissingNodeError is returned when a required value has no node.
type MissingNodeError struct {
	Op   string // Contract.Method
	Path string
}

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("%s: no node at %q", e.Op, e.Path)
}

func (e *MissingNodeError) Is(target error) bool { return target == ErrMissingNode }

// StructuralError is returned when a node exists but has the wrong kind.
type StructuralError struct {
	Op       string
	Path     string
	Expected ir.Kind
	Found    ir.Kind
	Err      error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: at %q: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: expected %s at %q, found %s", e.Op, e.Expected, e.Path, e.Found)
}

func (e *StructuralError) Unwrap() error { return e.Err }

func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

// UnknownOpError is returned by Call for a name the contract does not
// declare.
type UnknownOpError struct {
	Contract string
	Op       string
}

func (e *UnknownOpError) Error() string {
	return fmt.Sprintf("%s has no operation %q", e.Contract, e.Op)
}

// ArgError is returned when a call passes the wrong arguments.
type ArgError struct {
	Op      string
	Message string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
