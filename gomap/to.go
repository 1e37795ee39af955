package gomap

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/signadot/tony-format/go-bind/ir"
)

var (
	marshalerType     = reflect.TypeFor[Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// ToIR converts a Go value to an IR node.
// It uses a ToIR() method if available, otherwise falls back to
// reflection-based conversion.
func ToIR(v any) (*ir.Node, error) {
	if v == nil {
		return ir.Null(), nil
	}
	visited := make(map[uintptr]string) // Track visited pointers by address and field path
	return toIRValue(reflect.ValueOf(v), "", visited)
}

// IsPrimitive reports whether v is written to a document as a single leaf
// without going through reflection.
func IsPrimitive(v any) bool {
	_, ok := ir.FromScalar(v)
	return ok
}

// toIRValue converts a reflect.Value to an IR node.
// fieldPath is used for error reporting (e.g., "person.address.street").
// visited tracks pointer addresses to detect circular references.
func toIRValue(val reflect.Value, fieldPath string, visited map[uintptr]string) (*ir.Node, error) {
	if !val.IsValid() {
		return ir.Null(), nil
	}
	typ := val.Type()
	kind := typ.Kind()

	if (kind == reflect.Pointer || kind == reflect.Interface) && val.IsNil() {
		return ir.Null(), nil
	}
	if !val.CanInterface() {
		return nil, &MarshalError{FieldPath: fieldPath, Message: fmt.Sprintf("unexported value of type %s", typ)}
	}
	if typ.Implements(marshalerType) {
		return val.Interface().(Marshaler).ToIR()
	}
	if typ.Implements(textMarshalerType) {
		text, err := val.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, &MarshalError{FieldPath: fieldPath, Message: "MarshalText failed", Err: err}
		}
		return ir.FromString(string(text)), nil
	}
	if n, ok := val.Interface().(*ir.Node); ok {
		return n.Clone(), nil
	}

	switch kind {
	case reflect.Pointer:
		ptrAddr := val.Pointer()
		if prevPath, seen := visited[ptrAddr]; seen {
			return nil, &MarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("circular reference detected: %s -> %s (previously seen at %s)", prevPath, fieldPath, prevPath),
			}
		}
		visited[ptrAddr] = fieldPath
		node, err := toIRValue(val.Elem(), fieldPath, visited)
		// allows same pointer to appear in different branches
		delete(visited, ptrAddr)
		return node, err

	case reflect.Interface:
		return toIRValue(val.Elem(), fieldPath, visited)

	case reflect.String:
		return ir.FromString(val.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(val.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		// may overflow for very large uint64, IR numbers are int64
		return ir.FromInt(int64(val.Uint())), nil

	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(val.Float()), nil

	case reflect.Bool:
		return ir.FromBool(val.Bool()), nil

	case reflect.Slice, reflect.Array:
		return toIRSlice(val, fieldPath, visited)

	case reflect.Map:
		return toIRMap(val, fieldPath, visited)

	case reflect.Struct:
		return toIRStruct(val, fieldPath, visited)
	}
	return nil, &MarshalError{
		FieldPath: fieldPath,
		Message:   fmt.Sprintf("unsupported type: %s", typ),
	}
}

// toIRSlice converts a slice or array to an IR array node.
func toIRSlice(val reflect.Value, fieldPath string, visited map[uintptr]string) (*ir.Node, error) {
	if val.Kind() == reflect.Slice {
		if val.IsNil() {
			return ir.Null(), nil
		}
		slicePtr := val.Pointer()
		if prevPath, seen := visited[slicePtr]; seen && val.Len() > 0 {
			return nil, &MarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("circular reference detected: %s -> %s (previously seen at %s)", prevPath, fieldPath, prevPath),
			}
		}
		visited[slicePtr] = fieldPath
		defer delete(visited, slicePtr)
	}

	elements := make([]*ir.Node, 0, val.Len())
	for i := 0; i < val.Len(); i++ {
		elemPath := fieldPath + "[" + strconv.Itoa(i) + "]"
		elemNode, err := toIRValue(val.Index(i), elemPath, visited)
		if err != nil {
			return nil, err
		}
		elements = append(elements, elemNode)
	}
	return ir.FromSlice(elements), nil
}

// toIRMap converts a map with string-like keys to an IR object with sorted
// keys.
func toIRMap(val reflect.Value, fieldPath string, visited map[uintptr]string) (*ir.Node, error) {
	if val.IsNil() {
		return ir.Null(), nil
	}
	mapPtr := val.Pointer()
	if prevPath, seen := visited[mapPtr]; seen {
		return nil, &MarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("circular reference detected: %s -> %s (previously seen at %s)", prevPath, fieldPath, prevPath),
		}
	}
	visited[mapPtr] = fieldPath
	defer delete(visited, mapPtr)

	irMap := make(map[string]*ir.Node, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		key, err := keyText(iter.Key())
		if err != nil {
			return nil, &MarshalError{FieldPath: fieldPath, Message: err.Error()}
		}
		valuePath := key
		if fieldPath != "" {
			valuePath = fieldPath + "." + key
		}
		valueNode, err := toIRValue(iter.Value(), valuePath, visited)
		if err != nil {
			return nil, err
		}
		irMap[key] = valueNode
	}
	return ir.FromMap(irMap), nil
}

func keyText(k reflect.Value) (string, error) {
	if k.Type().Implements(textMarshalerType) {
		d, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		return string(d), err
	}
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), nil
	}
	return "", fmt.Errorf("unsupported map key type %s", k.Type())
}

// toIRStruct converts a struct to an IR object node, keeping declaration
// order.  Embedded structs are flattened.
// Only pointers, slices and maps are tracked for cycles.
func toIRStruct(val reflect.Value, fieldPath string, visited map[uintptr]string) (*ir.Node, error) {
	typ := val.Type()
	var kvs []ir.KeyVal
	seen := make(map[string]bool)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		if field.Anonymous && fieldVal.Kind() == reflect.Struct && fieldVal.CanInterface() {
			embedded, err := toIRValue(fieldVal, fieldPath, visited)
			if err != nil {
				return nil, err
			}
			for name, v := range embedded.FieldSeq() {
				if seen[name] {
					return nil, &MarshalError{
						FieldPath: fieldPath,
						Message:   fmt.Sprintf("field name conflict: embedded struct field %q conflicts with existing field", name),
					}
				}
				seen[name] = true
				kvs = append(kvs, ir.KeyVal{Key: ir.FromString(name), Val: v})
			}
			continue
		}
		if !field.IsExported() {
			continue
		}
		name, omit := fieldName(field)
		if omit {
			continue
		}
		nextPath := name
		if fieldPath != "" {
			nextPath = fieldPath + "." + name
		}
		fieldNode, err := toIRValue(fieldVal, nextPath, visited)
		if err != nil {
			return nil, err
		}
		seen[name] = true
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(name), Val: fieldNode})
	}
	return ir.FromKeyVals(kvs), nil
}
