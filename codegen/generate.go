package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/types"
	"path"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/signadot/tony-format/go-bind/classify"
)

const (
	bindPkg     = "github.com/signadot/tony-format/go-bind/bind"
	classifyPkg = "github.com/signadot/tony-format/go-bind/classify"
)

type fileData struct {
	Package   string
	Imports   []string
	Contracts []contractData
}

type contractData struct {
	Name        string
	Facade      string
	Methods     []methodData
	Annotations []string
	Plans       []string
}

type methodData struct {
	Name    string
	Params  string
	Results string
	Body    string
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by tony-bindgen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}
)
{{range $c := .Contracts}}
// {{$c.Facade}} implements {{$c.Name}} over a bound object.
type {{$c.Facade}} struct{ bind.Object }
{{range $c.Methods}}
func (x {{$c.Facade}}) {{.Name}}({{.Params}}) {{.Results}} {
	{{.Body}}
}
{{end}}
func init() {
{{- if $c.Annotations}}
	contract.MustAnnotate[{{$c.Name}}](
{{- range $c.Annotations}}
		{{.}},
{{- end}}
	)
{{- end}}
	bind.RegisterFacade(func(o bind.Object) {{$c.Name}} { return {{$c.Facade}}{o} })
	bind.Precompile[{{$c.Name}}](
{{- range $c.Plans}}
		{{.}},
{{- end}}
	)
}
{{end}}`))

// generator renders types relative to the package being generated and
// records the imports they need.
type generator struct {
	pkg     *Package
	imports map[string]string // path -> name
}

func (g *generator) qualifier(p *types.Package) string {
	if p.Path() == g.pkg.Path {
		return ""
	}
	g.imports[p.Path()] = p.Name()
	return p.Name()
}

func (g *generator) typeString(t types.Type) string {
	return types.TypeString(t, g.qualifier)
}

func (g *generator) use(p, name string) {
	g.imports[p] = name
}

// Generate renders the generated file for pkg.
func Generate(pkg *Package) ([]byte, error) {
	g := &generator{pkg: pkg, imports: make(map[string]string)}
	g.use(bindPkg, "bind")
	g.use(classifyPkg, "classify")
	data := fileData{Package: pkg.Name}
	for _, c := range pkg.Contracts {
		data.Contracts = append(data.Contracts, g.contract(c))
	}
	for p, name := range g.imports {
		if path.Base(p) == name {
			data.Imports = append(data.Imports, strconv.Quote(p))
		} else {
			data.Imports = append(data.Imports, name+" "+strconv.Quote(p))
		}
	}
	slices.SortFunc(data.Imports, func(a, b string) int {
		return strings.Compare(importPath(a), importPath(b))
	})
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("formatting code: %w", err)
	}
	return formatted, nil
}

func importPath(spec string) string {
	if i := strings.IndexByte(spec, '"'); i >= 0 {
		return spec[i:]
	}
	return spec
}

func (g *generator) contract(c *Contract) contractData {
	cd := contractData{Name: c.Name, Facade: facadeName(c.Name)}
	for _, m := range c.Methods {
		cd.Methods = append(cd.Methods, g.method(m))
		cd.Annotations = append(cd.Annotations, g.annotations(m)...)
		cd.Plans = append(cd.Plans, fmt.Sprintf("bind.OpPlan{Op: %q, Category: classify.%s, Path: %q}",
			m.Name, categoryIdent[m.Category], m.Path))
	}
	if len(cd.Annotations) > 0 {
		g.use(contractPkg, "contract")
	}
	return cd
}

func facadeName(name string) string {
	r, n := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[n:] + "Binding"
}

func (g *generator) method(m *Method) methodData {
	md := methodData{Name: m.Name}
	var params, args []string
	for i, p := range m.Params {
		v := "v" + strconv.Itoa(i)
		params = append(params, v+" "+g.typeString(p))
		args = append(args, ", "+v)
	}
	md.Params = strings.Join(params, ", ")
	call := fmt.Sprintf("(x, %q%s)", m.Name, strings.Join(args, ""))
	switch {
	case m.Result != nil && m.ReturnsError:
		rt := g.typeString(m.Result)
		md.Results = "(" + rt + ", error)"
		md.Body = "return bind.Call[" + rt + "]" + call
	case m.Result != nil:
		rt := g.typeString(m.Result)
		md.Results = rt
		md.Body = "return bind.MustCall[" + rt + "]" + call
	case m.ReturnsError:
		md.Results = "error"
		md.Body = "_, err := bind.Call[any]" + call + "\n\treturn err"
	default:
		md.Body = "bind.MustCall[any]" + call
	}
	return md
}

func (g *generator) annotations(m *Method) []string {
	var res []string
	d := m.Directives
	if d.Identity {
		res = append(res, fmt.Sprintf("contract.Identity(%q)", m.Name))
	}
	if d.Index != nil {
		res = append(res, fmt.Sprintf("contract.Index(%q, %d)", m.Name, *d.Index))
	}
	if d.Path != "" {
		res = append(res, fmt.Sprintf("contract.Path(%q, %q)", m.Name, d.Path))
	}
	if m.Elem != nil {
		res = append(res, fmt.Sprintf("contract.ElemOf[%s](%q)", g.typeString(m.Elem), m.Name))
	}
	if d.Parallel {
		res = append(res, fmt.Sprintf("contract.Parallel(%q)", m.Name))
	}
	if d.Expr != "" {
		res = append(res, fmt.Sprintf("contract.DeriveExpr(%q, %q)", m.Name, d.Expr))
	}
	return res
}

var categoryIdent = map[classify.Category]string{
	classify.Derived:       "Derived",
	classify.ContractArray: "ContractArray",
	classify.List:          "List",
	classify.Set:           "Set",
	classify.Map:           "Map",
	classify.Nested:        "Nested",
	classify.Mutator:       "Mutator",
	classify.Optional:      "Optional",
	classify.Scalar:        "Scalar",
}
