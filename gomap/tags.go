package gomap

import (
	"fmt"
	"reflect"
	"strings"
)

// ParseStructTag parses the options of a tony struct tag, or of a
// //bind: directive, into a map.  Options are separated by commas or
// spaces and are either flags or key=value pairs.  Values may be quoted
// with ' or " to hold separators:
//
//	field=name,omit
//	expr='"Hello " + Name()'
func ParseStructTag(tag string) (map[string]string, error) {
	res := make(map[string]string)
	for opt, err := range tagOptions(tag) {
		if err != nil {
			return nil, err
		}
		key, val, ok := strings.Cut(opt, "=")
		if !ok {
			res[opt] = ""
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid tag: empty key in %q", opt)
		}
		res[key] = unquoteValue(strings.TrimSpace(val))
	}
	return res, nil
}

// tagOptions yields the separated options of tag, keeping quotes.
func tagOptions(tag string) func(yield func(string, error) bool) {
	return func(yield func(string, error) bool) {
		var quote byte
		start := 0
		for i := 0; i <= len(tag); i++ {
			if i < len(tag) {
				c := tag[i]
				switch {
				case quote != 0:
					if c == quote {
						quote = 0
					}
					continue
				case c == '\'' || c == '"':
					quote = c
					continue
				case c != ',' && c != ' ':
					continue
				}
			}
			if opt := strings.TrimSpace(tag[start:i]); opt != "" {
				if !yield(opt, nil) {
					return
				}
			}
			start = i + 1
		}
		if quote != 0 {
			yield("", fmt.Errorf("invalid tag: unterminated quote in %q", tag))
		}
	}
}

func unquoteValue(v string) string {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// fieldName returns the document field name of a struct field and whether
// the field is omitted.
func fieldName(field reflect.StructField) (string, bool) {
	opts, err := ParseStructTag(field.Tag.Get("tony"))
	if err != nil {
		return field.Name, false
	}
	if _, ok := opts["omit"]; ok {
		return "", true
	}
	switch name := opts["field"]; name {
	case "-":
		return "", true
	case "":
		return field.Name, false
	default:
		return name, false
	}
}
