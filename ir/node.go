package ir

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
)

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	Tag     string
	Lines   []string
	Comment *Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

func (y *Node) WithTag(tag string) *Node {
	y.Tag = tag
	return y
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Type = y.Type
	dst.Tag = y.Tag
	dst.Lines = slices.Clone(y.Lines)
	dst.Values = make([]*Node, len(y.Values))
	dst.Fields = make([]*Node, len(y.Fields))
	for i, yv := range y.Values {
		dstI := yv.CloneTo(&Node{})
		dstI.Parent = dst
		dstI.ParentIndex = i
		dst.Values[i] = dstI
	}
	for i, yf := range y.Fields {
		dstI := yf.CloneTo(&Node{})
		dstI.Parent = dst
		dstI.ParentIndex = i
		dst.Fields[i] = dstI
	}
	dst.String = y.String
	dst.Number = y.Number
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	dst.Bool = y.Bool
	if y.Comment != nil {
		dst.Comment = y.Comment.CloneTo(&Node{})
	}
	return dst
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

// FromScalar builds a leaf from a Go primitive.  The second result is false
// when v is not a primitive.
func FromScalar(v any) (*Node, bool) {
	switch x := v.(type) {
	case nil:
		return Null(), true
	case string:
		return FromString(x), true
	case bool:
		return FromBool(x), true
	case int:
		return FromInt(int64(x)), true
	case int8:
		return FromInt(int64(x)), true
	case int16:
		return FromInt(int64(x)), true
	case int32:
		return FromInt(int64(x)), true
	case int64:
		return FromInt(x), true
	case uint:
		return FromInt(int64(x)), true
	case uint8:
		return FromInt(int64(x)), true
	case uint16:
		return FromInt(int64(x)), true
	case uint32:
		return FromInt(int64(x)), true
	case uint64:
		return FromInt(int64(x)), true
	case float32:
		return FromFloat(float64(x)), true
	case float64:
		return FromFloat(x), true
	}
	return nil, false
}

// FromMap builds an object with keys in sorted order.
func FromMap(yMap map[string]*Node) *Node {
	keys := slices.Sorted(maps.Keys(yMap))
	kvs := make([]KeyVal, len(keys))
	for i, key := range keys {
		kvs[i] = KeyVal{Key: FromString(key), Val: yMap[key]}
	}
	return FromKeyVals(kvs)
}

type KeyVal struct {
	Key *Node
	Val *Node
}

// FromKeyVals builds an object preserving the order of kvs.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		if kv.Key == nil {
			kv.Key = Null()
		}
		kv.Key.Parent = res
		kv.Key.ParentIndex = i
		kv.Key.ParentField = kv.Key.String
		kv.Val.Parent = res
		kv.Val.ParentIndex = i
		kv.Val.ParentField = kv.Key.String
		res.Fields[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type: ArrayType,
	}
	res.Values = make([]*Node, len(ySlice))
	for i, y := range ySlice {
		res.Values[i] = y
		y.Parent = res
		y.ParentIndex = i
	}
	return res
}

// value skips a head comment wrapper.
func (y *Node) value() *Node {
	if y != nil && y.Type == CommentType && len(y.Values) == 1 {
		return y.Values[0]
	}
	return y
}

// Unwrap returns the value a head comment is attached to, or y itself.
func (y *Node) Unwrap() *Node {
	return y.value()
}

func (y *Node) Kind() Kind {
	return y.value().Type.Kind()
}

func (y *Node) IsContainer() bool {
	return y != nil && y.Kind() == ContainerKind
}

func (y *Node) IsCollection() bool {
	return y != nil && y.Kind() == CollectionKind
}

func (y *Node) IsLeaf() bool {
	return y != nil && y.Kind() == LeafKind
}

func (y *Node) IsNull() bool {
	return y == nil || y.value().Type == NullType
}

// Get returns the value of the named field, or nil if y is not a container
// or has no such field.
func (y *Node) Get(field string) *Node {
	if !y.IsContainer() {
		return nil
	}
	y = y.value()
	for i, f := range y.Fields {
		if f.Type == StringType && f.String == field {
			return y.Values[i].value()
		}
	}
	return nil
}

// At returns the i'th element of a collection, or nil.
func (y *Node) At(i int) *Node {
	if !y.IsCollection() {
		return nil
	}
	y = y.value()
	if i < 0 || i >= len(y.Values) {
		return nil
	}
	return y.Values[i].value()
}

// Len is the number of children of a container or collection.
func (y *Node) Len() int {
	if y.IsLeaf() || y == nil {
		return 0
	}
	return len(y.value().Values)
}

// Set replaces the value of field in place, or appends the field.
func (y *Node) Set(field string, v *Node) error {
	if !y.IsContainer() {
		return fmt.Errorf("cannot set field %q on %s", field, y.typeName())
	}
	y = y.value()
	for i, f := range y.Fields {
		if f.Type == StringType && f.String == field {
			y.adopt(v, i, field)
			y.Values[i] = v
			return nil
		}
	}
	key := FromString(field)
	i := len(y.Fields)
	key.Parent = y
	key.ParentIndex = i
	key.ParentField = field
	y.adopt(v, i, field)
	y.Fields = append(y.Fields, key)
	y.Values = append(y.Values, v)
	return nil
}

// SetAt replaces element i of a collection.  Setting at or beyond the
// length appends, padding with nulls.
func (y *Node) SetAt(i int, v *Node) error {
	if !y.IsCollection() {
		return fmt.Errorf("cannot set index %d on %s", i, y.typeName())
	}
	if i < 0 {
		return fmt.Errorf("negative index %d", i)
	}
	y = y.value()
	for len(y.Values) <= i {
		n := Null()
		y.adopt(n, len(y.Values), "")
		y.Values = append(y.Values, n)
	}
	y.adopt(v, i, "")
	y.Values[i] = v
	return nil
}

func (y *Node) adopt(v *Node, i int, field string) {
	v.Parent = y
	v.ParentIndex = i
	v.ParentField = field
}

func (y *Node) typeName() string {
	if y == nil {
		return "nil node"
	}
	return y.value().Type.String()
}

// Children yields the values of a container or collection in order.  Each
// call to the returned sequence starts over.
func (y *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if y == nil || y.IsLeaf() {
			return
		}
		for _, v := range y.value().Values {
			if !yield(v.value()) {
				return
			}
		}
	}
}

// FieldSeq yields the string keyed fields of a container in document order.
// Merge keys (null fields) are skipped.
func (y *Node) FieldSeq() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		if !y.IsContainer() {
			return
		}
		y := y.value()
		for i, f := range y.Fields {
			var key string
			switch f.Type {
			case StringType:
				key = f.String
			case NumberType:
				if f.Int64 == nil {
					continue
				}
				key = strconv.FormatInt(*f.Int64, 10)
			default:
				continue
			}
			if !yield(key, y.Values[i].value()) {
				return
			}
		}
	}
}

func ToMap(node *Node) map[string]*Node {
	if !node.IsContainer() {
		return nil
	}
	res := make(map[string]*Node, node.Len())
	for k, v := range node.FieldSeq() {
		res[k] = v
	}
	return res
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}
