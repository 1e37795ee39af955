package codegen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo

// Load loads the package in dir and collects its contracts.  Type errors
// are tolerated as long as type information is available, so that a
// stale generated file does not prevent regenerating it.
func Load(dir string) (*Package, error) {
	cfg := &packages.Config{Mode: loadMode, Dir: dir}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %q: %w", dir, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("expected one package in %q, found %d", dir, len(pkgs))
	}
	pkg := pkgs[0]
	if pkg.Types == nil || len(pkg.Syntax) == 0 {
		var errs []error
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
		return nil, fmt.Errorf("package in %q has no type information: %w", dir, errors.Join(errs...))
	}
	res, err := extract(pkg.Fset, pkg.Syntax, pkg.Types)
	if err != nil {
		return nil, err
	}
	res.Dir = dir
	return res, nil
}

// extract collects the contracts declared in files, which make up tpkg.
func extract(fset *token.FileSet, files []*ast.File, tpkg *types.Package) (*Package, error) {
	res := &Package{Name: tpkg.Name(), Path: tpkg.Path(), types: tpkg, fset: fset}
	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				it, ok := ts.Type.(*ast.InterfaceType)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				marked, err := isContract(doc)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", ts.Name.Name, err)
				}
				if !marked {
					continue
				}
				c, err := newContract(res, ts, it)
				if err != nil {
					return nil, err
				}
				res.Contracts = append(res.Contracts, c)
			}
		}
	}
	for _, c := range res.Contracts {
		if err := plan(c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func newContract(pkg *Package, ts *ast.TypeSpec, it *ast.InterfaceType) (*Contract, error) {
	obj := pkg.types.Scope().Lookup(ts.Name.Name)
	if obj == nil {
		return nil, fmt.Errorf("type %q not found in package %q", ts.Name.Name, pkg.Path)
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%q is not a named type", ts.Name.Name)
	}
	iface, ok := named.Underlying().(*types.Interface)
	if !ok || iface.NumMethods() == 0 {
		return nil, fmt.Errorf("%q is not a non-empty interface", ts.Name.Name)
	}
	docs := make(map[string]*ast.CommentGroup)
	for _, f := range it.Methods.List {
		for _, n := range f.Names {
			docs[n.Name] = f.Doc
		}
	}
	c := &Contract{Name: ts.Name.Name, Named: named}
	// Methods are sorted by name, as reflection orders them.
	for i := range iface.NumMethods() {
		fn := iface.Method(i)
		if !fn.Exported() {
			return nil, fmt.Errorf("%s.%s: unexported methods cannot be bound", c.Name, fn.Name())
		}
		m, err := newMethod(pkg, c, fn, docs[fn.Name()])
		if err != nil {
			return nil, err
		}
		c.Methods = append(c.Methods, m)
	}
	return c, nil
}

var errorType = types.Universe.Lookup("error").Type()

func newMethod(pkg *Package, c *Contract, fn *types.Func, doc *ast.CommentGroup) (*Method, error) {
	sig := fn.Type().(*types.Signature)
	m := &Method{Name: fn.Name(), pos: fn.Pos()}
	if sig.Variadic() {
		return nil, opError(c, m, "variadic operations are not supported")
	}
	for i := range sig.Params().Len() {
		m.Params = append(m.Params, sig.Params().At(i).Type())
	}
	res := sig.Results()
	switch res.Len() {
	case 0:
	case 1:
		if types.Identical(res.At(0).Type(), errorType) {
			m.ReturnsError = true
		} else {
			m.Result = res.At(0).Type()
		}
	case 2:
		if !types.Identical(res.At(1).Type(), errorType) {
			return nil, opError(c, m, "second result must be error")
		}
		m.Result = res.At(0).Type()
		m.ReturnsError = true
	default:
		return nil, opError(c, m, "too many results")
	}
	d, err := methodDirectives(doc)
	if err != nil {
		return nil, opError(c, m, "%v", err)
	}
	m.Directives = d
	if d.Elem != "" {
		tv, err := types.Eval(pkg.fset, pkg.types, m.pos, d.Elem)
		if err != nil || !tv.IsType() {
			return nil, opError(c, m, "element type %q: %v", d.Elem, err)
		}
		m.Elem = tv.Type
	}
	return m, nil
}
