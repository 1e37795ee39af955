package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-bind/codegen"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &Config{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommand("tony-bindgen").
		WithSynopsis("tony-bindgen [opts]").
		WithDescription("Generate facades and precompiled binding plans for interfaces marked //bind:contract.").
		WithOpts(sOpts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

type Config struct {
	OutputFile string `cli:"name=o desc='output file name for generated code (default: <package>_bind.go)'"`
	Dir        string `cli:"name=dir desc='directory to scan for Go files (default: current directory)'"`
	Recursive  bool   `cli:"name=recursive desc='scan subdirectories recursively'"`
	Check      bool   `cli:"name=check desc='report generated files that are out of date instead of writing them'"`
}

var errStale = errors.New("generated code is out of date")

func run(cfg *Config, cc *cli.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	pkgs, err := codegen.DiscoverPackages(dir, cfg.Recursive)
	if err != nil {
		return fmt.Errorf("failed to discover packages: %w", err)
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("no Go packages found in %q", dir)
	}
	var stale []string
	for _, info := range pkgs {
		out, ok, err := processPackage(cfg, cc, info)
		if err != nil {
			return fmt.Errorf("failed to process package %q: %w", info.Path, err)
		}
		if !ok {
			stale = append(stale, out)
		}
	}
	if len(stale) != 0 {
		return fmt.Errorf("%w: %v", errStale, stale)
	}
	return nil
}

// processPackage generates the bindings of one package.  It returns the
// output file and, in check mode, whether that file was up to date.
func processPackage(cfg *Config, cc *cli.Context, info *codegen.PackageInfo) (string, bool, error) {
	name := cfg.OutputFile
	if name == "" {
		name = info.Name + "_bind.go"
	}
	out := filepath.Join(info.Dir, name)

	pkg, err := codegen.Load(info.Dir)
	if err != nil {
		return out, true, err
	}
	if len(pkg.Contracts) == 0 {
		return out, true, nil
	}
	code, err := codegen.Generate(pkg)
	if err != nil {
		return out, true, err
	}
	if !cfg.Check {
		fmt.Fprintf(cc.Out, "%s: %d contracts -> %s\n", info.Name, len(pkg.Contracts), out)
		if err := os.WriteFile(out, code, 0644); err != nil {
			return out, true, fmt.Errorf("failed to write output file %q: %w", out, err)
		}
		return out, true, nil
	}
	old, err := os.ReadFile(out)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return out, true, err
	}
	if bytes.Equal(old, code) {
		return out, true, nil
	}
	fmt.Fprintf(cc.Out, "--- %s\n", out)
	writeDiff(cc.Out, string(old), string(code), useColor(cc.Out))
	return out, false, nil
}
