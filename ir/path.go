package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one segment of a kinded path: either an object field or a dense
// array index.
type Step struct {
	Field string
	Index int // -1 for field steps
}

func FieldStep(f string) Step { return Step{Field: f, Index: -1} }

func IndexStep(i int) Step { return Step{Index: i} }

func (s Step) IsIndex() bool { return s.Index >= 0 }

func (s Step) String() string {
	if s.IsIndex() {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	if quoteField(s.Field) {
		return strconv.Quote(s.Field)
	}
	return s.Field
}

// FormatPath renders steps in kinded path syntax, e.g. a.b[0].'c d'.
func FormatPath(steps []Step) string {
	var b strings.Builder
	for i, s := range steps {
		if !s.IsIndex() && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// ParsePath parses a kinded path.
//
//   - "a.b" → fields a then b
//   - "a[0].b" → field a, index 0, field b
//   - "a.'b.c'" → field a, field "b.c"
//
// The empty path has no steps.
func ParsePath(p string) ([]Step, error) {
	var res []Step
	i := 0
	expectField := true
	for i < len(p) {
		c := p[i]
		switch {
		case c == '[':
			end := strings.IndexByte(p[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated index in %q", ErrBadPath, p)
			}
			n, err := strconv.Atoi(p[i+1 : i+end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrBadPath, p[i+1:i+end], p)
			}
			res = append(res, IndexStep(n))
			i += end + 1
			expectField = false
		case c == '.':
			if expectField {
				return nil, fmt.Errorf("%w: empty field in %q", ErrBadPath, p)
			}
			i++
			expectField = true
			if i == len(p) {
				return nil, fmt.Errorf("%w: trailing '.' in %q", ErrBadPath, p)
			}
		case c == '\'' || c == '"':
			if !expectField {
				return nil, fmt.Errorf("%w: missing '.' before quoted field in %q", ErrBadPath, p)
			}
			f, n, err := unquoteField(p[i:])
			if err != nil {
				return nil, fmt.Errorf("%w: %v in %q", ErrBadPath, err, p)
			}
			res = append(res, FieldStep(f))
			i += n
			expectField = false
		default:
			if !expectField {
				return nil, fmt.Errorf("%w: missing '.' at offset %d in %q", ErrBadPath, i, p)
			}
			j := i
			for j < len(p) && p[j] != '.' && p[j] != '[' {
				j++
			}
			res = append(res, FieldStep(p[i:j]))
			i = j
			expectField = false
		}
	}
	return res, nil
}

func unquoteField(s string) (string, int, error) {
	q := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 == len(s) {
				return "", 0, fmt.Errorf("dangling escape")
			}
			i++
			b.WriteByte(s[i])
		case q:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(s[i])
		}
	}
	return "", 0, fmt.Errorf("unterminated quote")
}

func quoteField(f string) bool {
	if f == "" {
		return true
	}
	return strings.ContainsAny(f, ".[]'\" ")
}

// Walk follows steps from y.  Any missing step yields nil.
func (y *Node) Walk(steps []Step) *Node {
	res := y
	for _, s := range steps {
		if res == nil {
			return nil
		}
		if s.IsIndex() {
			res = res.At(s.Index)
		} else {
			res = res.Get(s.Field)
		}
	}
	return res
}

// GetPath parses p and walks it from y.
func (y *Node) GetPath(p string) (*Node, error) {
	steps, err := ParsePath(p)
	if err != nil {
		return nil, err
	}
	return y.Walk(steps), nil
}

// KPath returns the kinded path of y relative to its root.
func (y *Node) KPath() string {
	var steps []Step
	for n := y; n.Parent != nil; n = n.Parent {
		switch n.Parent.Type {
		case ObjectType:
			steps = append(steps, FieldStep(n.ParentField))
		case ArrayType:
			steps = append(steps, IndexStep(n.ParentIndex))
		}
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return FormatPath(steps)
}
