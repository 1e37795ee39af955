package codegen

import (
	"fmt"
	"go/build"
	"io/fs"
	"path/filepath"
	"strings"
)

// DiscoverPackages finds the Go packages in dir, and in its
// subdirectories if recursive is set.  Hidden, vendor and testdata
// directories are skipped.
func DiscoverPackages(dir string, recursive bool) ([]*PackageInfo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", dir, err)
	}
	var pkgs []*PackageInfo
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != absDir {
			base := d.Name()
			if !recursive || strings.HasPrefix(base, ".") || base == "vendor" || base == "testdata" {
				return filepath.SkipDir
			}
		}
		bp, err := build.ImportDir(path, 0)
		if err != nil || len(bp.GoFiles) == 0 {
			// not a package
			return nil
		}
		files := make([]string, 0, len(bp.GoFiles))
		for _, f := range bp.GoFiles {
			files = append(files, filepath.Join(path, f))
		}
		pkgs = append(pkgs, &PackageInfo{Path: bp.ImportPath, Dir: path, Name: bp.Name, Files: files})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %q: %w", dir, err)
	}
	return pkgs, nil
}
