package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	NumberType
	StringType
	BoolType
	ObjectType
	ArrayType
	CommentType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		ObjectType:  "Object",
		ArrayType:   "Array",
		StringType:  "String",
		NumberType:  "Number",
		BoolType:    "Bool",
		NullType:    "Null",
		CommentType: "Comment",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Comment": CommentType,
		"Null":    NullType,
		"Bool":    BoolType,
		"Number":  NumberType,
		"String":  StringType,
		"Array":   ArrayType,
		"Object":  ObjectType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func (t Type) IsLeaf() bool {
	switch t {
	case ObjectType, ArrayType, CommentType:
		return false
	default:
		return true
	}
}

// Kind is the structural discriminant of a node: every node is exactly
// one of container, collection or leaf.
type Kind int

const (
	LeafKind Kind = iota
	ContainerKind
	CollectionKind
)

func (k Kind) String() string {
	switch k {
	case ContainerKind:
		return "container"
	case CollectionKind:
		return "collection"
	default:
		return "leaf"
	}
}

// Kind maps the node type to its structural kind.
func (t Type) Kind() Kind {
	switch t {
	case ObjectType:
		return ContainerKind
	case ArrayType:
		return CollectionKind
	default:
		return LeafKind
	}
}
