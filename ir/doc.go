// Package ir provides the document tree that contracts are bound to.
//
// # Overview
//
// A document, whether read from JSON, YAML or built programmatically, is a
// tree of *Node.  The IR is a recursive tagged union: values are placed in
// fields depending on the node type.
//
//   - NullType, BoolType, NumberType, StringType: leaves
//   - ObjectType: key-value pairs (Fields[i] is the key for Values[i])
//   - ArrayType: ordered list of values
//   - CommentType: comment association, skipped by navigation
//
// # Kinds
//
// Binding only cares about the structural kind of a node.  Every node is
// exactly one of
//
//   - ContainerKind: objects, navigated with Get, Set and FieldSeq
//   - CollectionKind: arrays, navigated with At, SetAt and Children
//   - LeafKind: everything else
//
// # Creating Nodes
//
//	node := ir.FromString("hello")
//	num := ir.FromInt(42)
//	obj := ir.FromKeyVals([]ir.KeyVal{
//	    {Key: ir.FromString("key"), Val: ir.FromString("value")},
//	})
//	arr := ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})
//
// # Paths
//
// ParsePath reads kinded paths such as "a.b[0].'c.d'" into a []Step which
// Walk follows from a node.  A missing step anywhere yields nil, never an
// error.  KPath renders the position of a node relative to its root.
//
// # Comparison and Hashing
//
//	equal := ir.Equal(a, b)
//	hash := a.Hash()
//
// Equal nodes hash equally within a process.
//
// # Thread Safety
//
// Node structures are not thread-safe.  Bound objects write into the tree
// in place; callers serialize concurrent mutation of the same tree.
package ir
