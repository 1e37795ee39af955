package gomap

import "fmt"

// MarshalError reports a Go value that has no document form.  FieldPath
// locates the value below the root, as in "address.street" or "tags[2]".
type MarshalError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *MarshalError) Error() string { return pathError("marshal", e.FieldPath, e.Message) }

func (e *MarshalError) Unwrap() error { return e.Err }

// UnmarshalError reports a node that cannot be decoded into the requested
// Go type.
type UnmarshalError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *UnmarshalError) Error() string { return pathError("unmarshal", e.FieldPath, e.Message) }

func (e *UnmarshalError) Unwrap() error { return e.Err }

func pathError(op, path, msg string) string {
	if path == "" {
		return fmt.Sprintf("%s error: %s", op, msg)
	}
	return fmt.Sprintf("%s error at %s: %s", op, path, msg)
}
