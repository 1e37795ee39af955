package ir

import (
	"math"
	"strconv"
)

// Equal reports whether a and b hold the same document.  Numbers compare by
// value, so 1 and 1.0 are equal.  Object fields must appear in the same
// order.  Tags and comments are ignored.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	a, b = a.value(), b.value()
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case StringType:
		return a.String == b.String
	case NumberType:
		return numbersEqual(a, b)
	case ArrayType:
		return nodesEqual(a.Values, b.Values)
	case ObjectType:
		return nodesEqual(a.Fields, b.Fields) && nodesEqual(a.Values, b.Values)
	}
	return false
}

func nodesEqual(xs, ys []*Node) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !Equal(xs[i], ys[i]) {
			return false
		}
	}
	return true
}

func numbersEqual(a, b *Node) bool {
	if a.Int64 != nil && b.Int64 != nil {
		return *a.Int64 == *b.Int64
	}
	x, okx := a.float()
	y, oky := b.float()
	if !okx || !oky {
		return a.Number == b.Number
	}
	return x == y
}

// float returns the value of a number node as a float64.
func (y *Node) float() (float64, bool) {
	switch {
	case y.Int64 != nil:
		return float64(*y.Int64), true
	case y.Float64 != nil:
		return *y.Float64, true
	}
	f, err := strconv.ParseFloat(y.Number, 64)
	return f, err == nil
}

// integral returns the value of a number node as an int64 when it has no
// fractional part.
func (y *Node) integral() (int64, bool) {
	if y.Int64 != nil {
		return *y.Int64, true
	}
	f, ok := y.float()
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
