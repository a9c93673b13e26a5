package manifest

import (
	"os"
	"sort"
)

// PackageRepository is a snapshot of a base directory: every valid
// package found one level deep, plus each package's ordered, resolved
// dependency vector. Repositories are built once per command invocation
// and never mutated afterwards.
type PackageRepository struct {
	BaseDir  string
	packages map[string]*Package
	deps     map[string][]*Package
}

// NewPackageRepository scans basedir one level deep. Each subdirectory is
// treated as a candidate package; directories that don't yield a valid
// Package are silently skipped (they may be unrelated to Turboshell).
// Every dependency name declared by a collected package must resolve to
// another package collected in the same pass, or construction fails.
func NewPackageRepository(basedir string) (*PackageRepository, error) {
	entries, err := os.ReadDir(basedir)
	if err != nil {
		return nil, &PathError{Path: basedir, Reason: "base directory unreadable", Err: err}
	}

	repo := &PackageRepository{
		BaseDir:  basedir,
		packages: make(map[string]*Package),
		deps:     make(map[string][]*Package),
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pkg, err := LoadPackage(basedir, entry.Name())
		if err != nil {
			continue
		}
		repo.packages[pkg.Name] = pkg
	}

	for _, pkg := range repo.packages {
		resolved := make([]*Package, 0, len(pkg.Dependencies))
		for _, dep := range pkg.Dependencies {
			target, ok := repo.packages[dep.Name]
			if !ok {
				return nil, &DependencyError{From: pkg.Name, Target: dep.Name}
			}
			resolved = append(resolved, target)
		}
		if len(resolved) > 0 {
			repo.deps[pkg.Name] = resolved
		}
	}

	return repo, nil
}

// Lookup returns the package named name, if the repository collected one.
func (r *PackageRepository) Lookup(name string) (*Package, bool) {
	pkg, ok := r.packages[name]
	return pkg, ok
}

// Dependencies returns pkg's ordered, resolved dependency packages. A
// leaf package returns nil; so does a package the repository did not
// collect, which this method does not tell apart from a leaf.
func (r *PackageRepository) Dependencies(pkg *Package) []*Package {
	return r.deps[pkg.Name]
}

// Packages returns every package the repository collected, ordered by
// name for deterministic iteration.
func (r *PackageRepository) Packages() []*Package {
	names := make([]string, 0, len(r.packages))
	for name := range r.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Package, len(names))
	for i, name := range names {
		out[i] = r.packages[name]
	}
	return out
}
