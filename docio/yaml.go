package docio

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/signadot/tony-format/go-bind/gomap"
	"github.com/signadot/tony-format/go-bind/ir"
)

type yamlProducer struct {
	values
}

var yamlP = &yamlProducer{values: values{format: "yaml"}}

// YAML returns the YAML producer.
func YAML() Producer { return yamlP }

func (p *yamlProducer) Read(r io.Reader) (*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Format: p.format, Err: err}
	}
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, &ReadError{Format: p.format, Err: err}
	}
	node, err := fromYAML(v)
	if err != nil {
		return nil, &ReadError{Format: p.format, Err: err}
	}
	return node, nil
}

func (p *yamlProducer) Write(w io.Writer, node *ir.Node) error {
	v, err := toYAML(node)
	if err != nil {
		return err
	}
	d, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

func fromYAML(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		kvs := make([]ir.KeyVal, 0, len(x))
		for _, item := range x {
			val, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(fmt.Sprint(item.Key)), Val: val})
		}
		return ir.FromKeyVals(kvs), nil
	case map[string]any:
		kvs := make([]ir.KeyVal, 0, len(x))
		for _, k := range sortedKeys(x) {
			val, err := fromYAML(x[k])
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(k), Val: val})
		}
		return ir.FromKeyVals(kvs), nil
	case []any:
		elts := make([]*ir.Node, len(x))
		for i := range x {
			e, err := fromYAML(x[i])
			if err != nil {
				return nil, err
			}
			elts[i] = e
		}
		return ir.FromSlice(elts), nil
	case uint64:
		if x > math.MaxInt64 {
			n := ir.FromFloat(float64(x))
			n.Number = strconv.FormatUint(x, 10)
			return n, nil
		}
		return ir.FromInt(int64(x)), nil
	}
	if n, ok := ir.FromScalar(v); ok {
		return n, nil
	}
	// timestamps and other tagged scalars
	return gomap.ToIR(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func toYAML(node *ir.Node) (any, error) {
	node = node.Unwrap()
	if node == nil {
		return nil, nil
	}
	switch node.Type {
	case ir.NullType:
		return nil, nil
	case ir.ObjectType:
		res := yaml.MapSlice{}
		for k, v := range node.FieldSeq() {
			y, err := toYAML(v)
			if err != nil {
				return nil, err
			}
			res = append(res, yaml.MapItem{Key: k, Value: y})
		}
		return res, nil
	case ir.ArrayType:
		res := []any{}
		for v := range node.Children() {
			y, err := toYAML(v)
			if err != nil {
				return nil, err
			}
			res = append(res, y)
		}
		return res, nil
	}
	return gomap.Plain(node)
}
