package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// MarshalJSON renders the node as the JSON document it represents.  Object
// fields keep document order; comments and tags are dropped.
func (y *Node) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := writeJSON(buf, y); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces y with the tree of a JSON document.
func (y *Node) UnmarshalJSON(d []byte) error {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	n, err := DecodeJSON(dec)
	if err != nil {
		return err
	}
	*y = *n
	for i, v := range y.Values {
		v.Parent = y
		if i < len(y.Fields) {
			y.Fields[i].Parent = y
		}
	}
	return nil
}

func writeJSON(w *bytes.Buffer, y *Node) error {
	y = y.value()
	if y == nil {
		w.WriteString("null")
		return nil
	}
	switch y.Type {
	case NullType:
		w.WriteString("null")
	case BoolType:
		w.WriteString(strconv.FormatBool(y.Bool))
	case StringType:
		d, err := json.Marshal(y.String)
		if err != nil {
			return err
		}
		w.Write(d)
	case NumberType:
		switch {
		case y.Int64 != nil:
			w.WriteString(strconv.FormatInt(*y.Int64, 10))
		case y.Float64 != nil:
			f := *y.Float64
			if math.IsInf(f, 0) || math.IsNaN(f) {
				return fmt.Errorf("cannot encode %v as JSON", f)
			}
			w.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		default:
			w.WriteString(y.Number)
		}
	case ArrayType:
		w.WriteByte('[')
		for i, v := range y.Values {
			if i > 0 {
				w.WriteByte(',')
			}
			if err := writeJSON(w, v); err != nil {
				return err
			}
		}
		w.WriteByte(']')
	case ObjectType:
		w.WriteByte('{')
		first := true
		for k, v := range y.FieldSeq() {
			if !first {
				w.WriteByte(',')
			}
			first = false
			d, err := json.Marshal(k)
			if err != nil {
				return err
			}
			w.Write(d)
			w.WriteByte(':')
			if err := writeJSON(w, v); err != nil {
				return err
			}
		}
		w.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode %s node as JSON", y.Type)
	}
	return nil
}

// DecodeJSON reads one JSON value from dec as a tree.  dec should have
// UseNumber set so that integers keep their precision.
func DecodeJSON(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch x := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case json.Number:
		return numberNode(string(x))
	case float64:
		return FromFloat(x), nil
	case json.Delim:
		switch x {
		case '[':
			var elts []*Node
			for dec.More() {
				e, err := DecodeJSON(dec)
				if err != nil {
					return nil, err
				}
				elts = append(elts, e)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return FromSlice(elts), nil
		case '{':
			var kvs []KeyVal
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				k, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				v, err := DecodeJSON(dec)
				if err != nil {
					return nil, err
				}
				kvs = append(kvs, KeyVal{Key: FromString(k), Val: v})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return FromKeyVals(kvs), nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

var errBadNumber = errors.New("bad number")

func numberNode(s string) (*Node, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FromInt(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errBadNumber, s, err)
	}
	n := FromFloat(f)
	n.Number = s
	return n, nil
}

// WriteJSON writes the document form of y to w.
func WriteJSON(w io.Writer, y *Node) error {
	d, err := y.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}
