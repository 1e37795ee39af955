package codegen

import (
	"go/token"
	"go/types"

	"github.com/signadot/tony-format/go-bind/classify"
)

// Package holds the contracts found in one Go package.
type Package struct {
	// Name is the package name (e.g., "models")
	Name string

	// Path is the package import path
	Path string

	// Dir is the directory containing the package
	Dir string

	Contracts []*Contract

	types *types.Package
	fset  *token.FileSet
}

// Contract is an interface marked with //bind:contract.
type Contract struct {
	Name    string
	Named   *types.Named
	Methods []*Method
}

// Method is one operation of a contract, with its computed binding.
type Method struct {
	Name         string
	Params       []types.Type
	Result       types.Type // nil when the method returns nothing but an error
	ReturnsError bool
	Directives   Directives

	// Elem is the resolved element type of the elem directive.
	Elem types.Type

	Category classify.Category
	// Path is the formatted step path the method resolves to, empty for
	// derived methods.
	Path string

	pos token.Pos
}

// Directives are the binding hints of one method.
type Directives struct {
	Identity bool
	Index    *int
	Path     string
	Elem     string
	Parallel bool
	Expr     string
	Derived  bool
}

func (d Directives) derived() bool {
	return d.Derived || d.Expr != ""
}

// PackageInfo describes a directory holding a Go package.
type PackageInfo struct {
	Path  string
	Dir   string
	Name  string
	Files []string
}
