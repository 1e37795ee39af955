package codegen

import (
	"fmt"
	"go/ast"
	"strconv"
	"strings"

	"github.com/signadot/tony-format/go-bind/gomap"
)

const directivePrefix = "//bind:"

// directives parses the //bind: lines of a comment group into one map.
// Later keys replace earlier ones.
func directives(cg *ast.CommentGroup) (map[string]string, error) {
	res := make(map[string]string)
	if cg == nil {
		return res, nil
	}
	for _, c := range cg.List {
		text, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}
		parsed, err := gomap.ParseStructTag(text)
		if err != nil {
			return nil, fmt.Errorf("bad directive %q: %w", c.Text, err)
		}
		for k, v := range parsed {
			res[k] = v
		}
	}
	return res, nil
}

// isContract reports whether a type's doc comment marks it as a contract.
func isContract(cg *ast.CommentGroup) (bool, error) {
	d, err := directives(cg)
	if err != nil {
		return false, err
	}
	_, ok := d["contract"]
	return ok, nil
}

// methodDirectives decodes the directives of a method.
func methodDirectives(cg *ast.CommentGroup) (Directives, error) {
	var res Directives
	d, err := directives(cg)
	if err != nil {
		return res, err
	}
	for k, v := range d {
		switch k {
		case "identity":
			res.Identity = true
		case "index":
			i, err := strconv.Atoi(v)
			if err != nil || i < 0 {
				return res, fmt.Errorf("bad index %q", v)
			}
			res.Index = &i
		case "path":
			if v == "" {
				return res, fmt.Errorf("empty path")
			}
			res.Path = v
		case "elem":
			if v == "" {
				return res, fmt.Errorf("empty element type")
			}
			res.Elem = v
		case "parallel":
			res.Parallel = true
		case "expr":
			if v == "" {
				return res, fmt.Errorf("empty expression")
			}
			res.Expr = v
		case "derived":
			res.Derived = true
		default:
			return res, fmt.Errorf("unknown directive %q", k)
		}
	}
	return res, nil
}
