package gomap

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/signadot/tony-format/go-bind/ir"
)

var (
	unmarshalerType     = reflect.TypeFor[Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// FromIR converts an IR node to a Go value.
// v must be a pointer to the target type.
// It uses a FromIR() method if available, otherwise falls back to
// reflection-based conversion.
func FromIR(node *ir.Node, v any) error {
	if v == nil {
		return &UnmarshalError{Message: "destination value cannot be nil"}
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer {
		return &UnmarshalError{Message: "destination value must be a pointer"}
	}
	if val.IsNil() {
		return &UnmarshalError{Message: "destination pointer cannot be nil"}
	}
	if u, ok := v.(Unmarshaler); ok {
		return u.FromIR(node)
	}
	visited := make(map[uintptr]string)
	return fromIRValue(node, val.Elem(), "", visited)
}

// Decode converts node to a fresh value of type t.
func Decode(node *ir.Node, t reflect.Type) (any, error) {
	ptr := reflect.New(t)
	if err := FromIR(node, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

// Plain converts node to the untyped Go representation: nil, string, bool,
// int64, float64, []any or map[string]any.
func Plain(node *ir.Node) (any, error) {
	var res any
	err := fromIRToInterface(node, reflect.ValueOf(&res).Elem(), "", nil)
	return res, err
}

// DecodeKey converts an object key to a map key of type t.
func DecodeKey(key string, t reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(t)
	if ptr.Type().Implements(textUnmarshalerType) {
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(key)); err != nil {
			return reflect.Value{}, &UnmarshalError{FieldPath: key, Message: "UnmarshalText failed", Err: err}
		}
		return ptr.Elem(), nil
	}
	leaf := ir.FromString(key)
	switch t.Kind() {
	case reflect.String:
		ptr.Elem().SetString(key)
		return ptr.Elem(), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(key)
		if err != nil {
			return reflect.Value{}, &UnmarshalError{FieldPath: key, Message: fmt.Sprintf("cannot convert key %q to bool", key), Err: err}
		}
		ptr.Elem().SetBool(b)
		return ptr.Elem(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ptr.Elem(), fromIRToInt(leaf, ptr.Elem(), key)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ptr.Elem(), fromIRToUint(leaf, ptr.Elem(), key)
	case reflect.Float32, reflect.Float64:
		return ptr.Elem(), fromIRToFloat(leaf, ptr.Elem(), key)
	}
	return reflect.Value{}, &UnmarshalError{FieldPath: key, Message: fmt.Sprintf("unsupported map key type %s", t)}
}

func fromIRValue(node *ir.Node, val reflect.Value, fieldPath string, visited map[uintptr]string) error {
	if node == nil {
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   "IR node is nil",
		}
	}
	node = node.Unwrap()
	typ := val.Type()
	kind := typ.Kind()

	if typ == reflect.TypeFor[*ir.Node]() {
		val.Set(reflect.ValueOf(node.Clone()))
		return nil
	}
	if kind == reflect.Pointer {
		if node.Type == ir.NullType {
			val.Set(reflect.Zero(typ))
			return nil
		}
		if val.IsNil() {
			val.Set(reflect.New(typ.Elem()))
		}
		if typ.Implements(unmarshalerType) {
			return val.Interface().(Unmarshaler).FromIR(node)
		}
		ptrAddr := val.Pointer()
		if prevPath, seen := visited[ptrAddr]; seen {
			return &UnmarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("circular reference detected: %s -> %s (previously seen at %s)", prevPath, fieldPath, prevPath),
			}
		}
		visited[ptrAddr] = fieldPath
		err := fromIRValue(node, val.Elem(), fieldPath, visited)
		delete(visited, ptrAddr)
		return err
	}
	if val.CanAddr() {
		addr := val.Addr()
		if addr.Type().Implements(unmarshalerType) {
			return addr.Interface().(Unmarshaler).FromIR(node)
		}
		if node.Type == ir.StringType && addr.Type().Implements(textUnmarshalerType) {
			if err := addr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(node.String)); err != nil {
				return &UnmarshalError{FieldPath: fieldPath, Message: "UnmarshalText failed", Err: err}
			}
			return nil
		}
	}
	if node.Type == ir.NullType {
		val.Set(reflect.Zero(typ))
		return nil
	}

	switch kind {
	case reflect.String:
		return fromIRToString(node, val, fieldPath)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fromIRToInt(node, val, fieldPath)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromIRToUint(node, val, fieldPath)
	case reflect.Float32, reflect.Float64:
		return fromIRToFloat(node, val, fieldPath)
	case reflect.Bool:
		return fromIRToBool(node, val, fieldPath)
	case reflect.Slice, reflect.Array:
		return fromIRToSlice(node, val, fieldPath, visited)
	case reflect.Map:
		return fromIRToMap(node, val, fieldPath, visited)
	case reflect.Struct:
		return fromIRToStruct(node, val, fieldPath, visited)
	case reflect.Interface:
		if typ.NumMethod() != 0 {
			return &UnmarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("cannot decode into non-empty interface %s", typ),
			}
		}
		return fromIRToInterface(node, val, fieldPath, visited)
	}
	return &UnmarshalError{
		FieldPath: fieldPath,
		Message:   fmt.Sprintf("unsupported type: %s", typ),
	}
}

func fromIRToString(node *ir.Node, val reflect.Value, fieldPath string) error {
	if node.Type != ir.StringType {
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("expected string, got %s", node.Type),
		}
	}
	val.SetString(node.String)
	return nil
}

func fromIRToInt(node *ir.Node, val reflect.Value, fieldPath string) error {
	var intVal int64

	switch node.Type {
	case ir.NumberType:
		switch {
		case node.Int64 != nil:
			intVal = *node.Int64
		case node.Float64 != nil && *node.Float64 == math.Trunc(*node.Float64):
			intVal = int64(*node.Float64)
		case node.Number != "":
			parsed, err := strconv.ParseInt(node.Number, 10, 64)
			if err != nil {
				return &UnmarshalError{
					FieldPath: fieldPath,
					Message:   fmt.Sprintf("invalid number: %q", node.Number),
					Err:       err,
				}
			}
			intVal = parsed
		default:
			return &UnmarshalError{
				FieldPath: fieldPath,
				Message:   "number node has no integer value",
			}
		}
	case ir.StringType:
		parsed, err := strconv.ParseInt(node.String, 10, 64)
		if err != nil {
			return &UnmarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("cannot convert string %q to int", node.String),
				Err:       err,
			}
		}
		intVal = parsed
	default:
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("expected number, got %s", node.Type),
		}
	}
	if val.OverflowInt(intVal) {
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("value %d overflows %s", intVal, val.Type()),
		}
	}
	val.SetInt(intVal)
	return nil
}

func fromIRToUint(node *ir.Node, val reflect.Value, fieldPath string) error {
	var uintVal uint64

	switch node.Type {
	case ir.NumberType:
		switch {
		case node.Int64 != nil:
			if *node.Int64 < 0 {
				return &UnmarshalError{
					FieldPath: fieldPath,
					Message:   fmt.Sprintf("negative value %d cannot be converted to unsigned integer", *node.Int64),
				}
			}
			uintVal = uint64(*node.Int64)
		case node.Number != "":
			parsed, err := strconv.ParseUint(node.Number, 10, 64)
			if err != nil {
				return &UnmarshalError{
					FieldPath: fieldPath,
					Message:   fmt.Sprintf("invalid unsigned number: %q", node.Number),
					Err:       err,
				}
			}
			uintVal = parsed
		default:
			return &UnmarshalError{
				FieldPath: fieldPath,
				Message:   "number node has no integer value",
			}
		}
	case ir.StringType:
		parsed, err := strconv.ParseUint(node.String, 10, 64)
		if err != nil {
			return &UnmarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("cannot convert string %q to uint", node.String),
				Err:       err,
			}
		}
		uintVal = parsed
	default:
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("expected number, got %s", node.Type),
		}
	}
	if val.OverflowUint(uintVal) {
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("value %d overflows %s", uintVal, val.Type()),
		}
	}
	val.SetUint(uintVal)
	return nil
}

func fromIRToFloat(node *ir.Node, val reflect.Value, fieldPath string) error {
	var floatVal float64

	switch node.Type {
	case ir.NumberType:
		switch {
		case node.Float64 != nil:
			floatVal = *node.Float64
		case node.Int64 != nil:
			floatVal = float64(*node.Int64)
		case node.Number != "":
			parsed, err := strconv.ParseFloat(node.Number, 64)
			if err != nil {
				return &UnmarshalError{
					FieldPath: fieldPath,
					Message:   fmt.Sprintf("invalid float: %q", node.Number),
					Err:       err,
				}
			}
			floatVal = parsed
		default:
			return &UnmarshalError{
				FieldPath: fieldPath,
				Message:   "number node has no value",
			}
		}
	case ir.StringType:
		parsed, err := strconv.ParseFloat(node.String, 64)
		if err != nil {
			return &UnmarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("cannot convert string %q to float", node.String),
				Err:       err,
			}
		}
		floatVal = parsed
	default:
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("expected number, got %s", node.Type),
		}
	}
	val.SetFloat(floatVal)
	return nil
}

func fromIRToBool(node *ir.Node, val reflect.Value, fieldPath string) error {
	if node.Type != ir.BoolType {
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("expected bool, got %s", node.Type),
		}
	}
	val.SetBool(node.Bool)
	return nil
}

// fromIRToInterface infers the concrete Go type from the IR node type.
func fromIRToInterface(node *ir.Node, val reflect.Value, fieldPath string, visited map[uintptr]string) error {
	if node == nil {
		val.Set(reflect.Zero(val.Type()))
		return nil
	}
	node = node.Unwrap()
	var concrete any

	switch node.Type {
	case ir.NullType:
		val.Set(reflect.Zero(val.Type()))
		return nil
	case ir.StringType:
		concrete = node.String
	case ir.BoolType:
		concrete = node.Bool
	case ir.NumberType:
		switch {
		case node.Int64 != nil:
			concrete = *node.Int64
		case node.Float64 != nil:
			concrete = *node.Float64
		case node.Number != "":
			if i, err := strconv.ParseInt(node.Number, 10, 64); err == nil {
				concrete = i
			} else if f, err := strconv.ParseFloat(node.Number, 64); err == nil {
				concrete = f
			} else {
				return &UnmarshalError{
					FieldPath: fieldPath,
					Message:   fmt.Sprintf("invalid number: %q", node.Number),
				}
			}
		default:
			return &UnmarshalError{
				FieldPath: fieldPath,
				Message:   "number node has no value",
			}
		}
	case ir.ArrayType:
		slice := make([]any, 0, node.Len())
		i := 0
		for elemNode := range node.Children() {
			var elem any
			elemPath := fieldPath + "[" + strconv.Itoa(i) + "]"
			if err := fromIRToInterface(elemNode, reflect.ValueOf(&elem).Elem(), elemPath, visited); err != nil {
				return err
			}
			slice = append(slice, elem)
			i++
		}
		concrete = slice
	case ir.ObjectType:
		m := make(map[string]any, node.Len())
		for key, valueNode := range node.FieldSeq() {
			var v any
			if err := fromIRToInterface(valueNode, reflect.ValueOf(&v).Elem(), joinPath(fieldPath, key), visited); err != nil {
				return err
			}
			m[key] = v
		}
		concrete = m
	default:
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("unsupported IR type for interface{}: %s", node.Type),
		}
	}
	val.Set(reflect.ValueOf(concrete))
	return nil
}

func fromIRToSlice(node *ir.Node, val reflect.Value, fieldPath string, visited map[uintptr]string) error {
	if node.Type != ir.ArrayType {
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("expected array, got %s", node.Type),
		}
	}
	length := node.Len()
	typ := val.Type()

	if typ.Kind() == reflect.Array {
		if val.Len() != length {
			return &UnmarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("array length mismatch: expected %d, got %d", val.Len(), length),
			}
		}
	} else {
		val.Set(reflect.MakeSlice(typ, length, length))
	}
	for i := 0; i < length; i++ {
		elemPath := fieldPath + "[" + strconv.Itoa(i) + "]"
		if err := fromIRValue(node.At(i), val.Index(i), elemPath, visited); err != nil {
			return err
		}
	}
	return nil
}

func fromIRToMap(node *ir.Node, val reflect.Value, fieldPath string, visited map[uintptr]string) error {
	if node.Type != ir.ObjectType {
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("expected object, got %s", node.Type),
		}
	}
	typ := val.Type()
	val.Set(reflect.MakeMapWithSize(typ, node.Len()))

	for key, valueNode := range node.FieldSeq() {
		valuePath := joinPath(fieldPath, key)
		keyVal, err := DecodeKey(key, typ.Key())
		if err != nil {
			return &UnmarshalError{FieldPath: valuePath, Message: "bad map key", Err: err}
		}
		valueVal := reflect.New(typ.Elem()).Elem()
		if err := fromIRValue(valueNode, valueVal, valuePath, visited); err != nil {
			return err
		}
		val.SetMapIndex(keyVal, valueVal)
	}
	return nil
}

// fromIRToStruct fills a struct from an object.  Embedded structs are
// flattened.  Unknown fields are skipped.
func fromIRToStruct(node *ir.Node, val reflect.Value, fieldPath string, visited map[uintptr]string) error {
	if node.Type != ir.ObjectType {
		return &UnmarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("expected object, got %s", node.Type),
		}
	}
	fields, err := structFields(val.Type())
	if err != nil {
		return &UnmarshalError{FieldPath: fieldPath, Message: err.Error()}
	}
	for name, fieldNode := range node.FieldSeq() {
		index, ok := fields[name]
		if !ok {
			continue
		}
		if err := fromIRValue(fieldNode, val.FieldByIndex(index), joinPath(fieldPath, name), visited); err != nil {
			return err
		}
	}
	return nil
}

// structFields maps IR field names of typ to field index paths.
func structFields(typ reflect.Type) (map[string][]int, error) {
	res := make(map[string][]int)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, err := structFields(field.Type)
			if err != nil {
				return nil, err
			}
			for name, idx := range embedded {
				if _, exists := res[name]; exists {
					return nil, fmt.Errorf("field name conflict: embedded struct field %q conflicts with existing field", name)
				}
				res[name] = append([]int{i}, idx...)
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
		res[name] = field.Index
	}
	return res, nil
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
