// Package resolver turns a list of roles into a single, deterministic,
// dependency-ordered sequence of executables.
//
// The algorithm is a plain recursive post-order DFS with permanent/
// temporary mark sets, per the Design Notes in SPEC_FULL.md §4.5: the
// teacher's stack-of-deques encoding of the same traversal is not
// reproduced here, since a straightforward recursion yields the same
// emission order and is easier to read.
package resolver

import "github.com/turboshell-dev/turboshell/manifest"

// Executable is the resolver's output element: a package materialized
// with a role's environment overrides applied.
type Executable struct {
	Dir  string
	Name string
	Main string
	Env  map[string]string
}

// CycleError reports a dependency cycle discovered while resolving role.
type CycleError struct {
	Role    string
	Package string
}

func (e *CycleError) Error() string {
	return "role " + e.Role + ": dependency cycle at package " + e.Package
}

// Resolve produces a single flat sequence of Executables for roles, in
// order: every package appears after all of its transitive dependencies,
// each role's direct dependencies are processed in declaration order, and
// a package already emitted by an earlier role is not emitted again.
func Resolve(repo *manifest.PackageRepository, roles []*manifest.Role) ([]Executable, error) {
	r := &resolution{
		repo:      repo,
		permanent: make(map[string]bool),
		out:       make([]Executable, 0),
	}
	for _, role := range roles {
		temporary := make(map[string]bool)
		for _, pkg := range role.Dependencies {
			if err := r.visit(role, pkg, temporary); err != nil {
				return nil, err
			}
		}
	}
	return r.out, nil
}

type resolution struct {
	repo      *manifest.PackageRepository
	permanent map[string]bool
	out       []Executable
}

func (r *resolution) visit(role *manifest.Role, pkg *manifest.Package, temporary map[string]bool) error {
	if r.permanent[pkg.Name] {
		return nil
	}
	if temporary[pkg.Name] {
		return &CycleError{Role: role.Name, Package: pkg.Name}
	}

	temporary[pkg.Name] = true
	for _, dep := range r.repo.Dependencies(pkg) {
		if err := r.visit(role, dep, temporary); err != nil {
			return err
		}
	}
	delete(temporary, pkg.Name)
	r.permanent[pkg.Name] = true

	r.out = append(r.out, Executable{
		Dir:  pkg.Dir,
		Name: pkg.Name,
		Main: pkg.Main,
		Env:  applyOverrides(pkg.Env, role.Env),
	})
	return nil
}

// applyOverrides clones pkg's env, then overwrites every key the role
// also declares and the package already has. Keys present only in the
// role's env are discarded: roles tune a package's configuration, they
// never introduce variables the package didn't opt into.
func applyOverrides(pkgEnv, roleEnv map[string]string) map[string]string {
	env := make(map[string]string, len(pkgEnv))
	for k, v := range pkgEnv {
		env[k] = v
	}
	for k, v := range roleEnv {
		if _, ok := env[k]; ok {
			env[k] = v
		}
	}
	return env
}
