// Package manifest implements Turboshell's declarative data model: package
// manifests, role manifests, and the package repository built from a
// directory of packages.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

const defaultMain = "main.sh"

// Dependency is a named reference from one Package to another. Version is
// always the literal "local": Turboshell records no version comparison
// logic, only the edge.
type Dependency struct {
	Name    string
	Version string
}

// Package is a fully-loaded, immutable package manifest.
type Package struct {
	Name         string
	Dir          string
	Version      string
	Main         string // absolute path to the executable entrypoint
	Env          map[string]string
	Dependencies []Dependency
}

// LoadPackage reads and validates basedir/name/package.toml.
func LoadPackage(basedir, name string) (*Package, error) {
	dir := filepath.Join(basedir, name)
	path := filepath.Join(dir, "package.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PathError{Path: path, Reason: "manifest not found", Err: err}
		}
		return nil, &PathError{Path: path, Reason: "manifest unreadable", Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &PathError{Path: path, Reason: "manifest is not valid UTF-8"}
	}

	var doc map[string]interface{}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	pkgSection, ok := doc["package"].(map[string]interface{})
	if !ok {
		return nil, &ValidationError{Path: path, Reason: "missing [package] table"}
	}

	nameVal, present := pkgSection["name"]
	if !present {
		return nil, &ValidationError{Path: path, Reason: "package.name is required"}
	}
	nameStr, ok := nameVal.(string)
	if !ok {
		return nil, &ParseError{Path: path, Field: "package.name", Err: fmt.Errorf("not a string")}
	}
	if nameStr != name {
		return nil, &ValidationError{Path: path, Reason: fmt.Sprintf("package.name %q does not match directory %q", nameStr, name)}
	}

	versionVal, present := pkgSection["version"]
	if !present {
		return nil, &ValidationError{Path: path, Reason: "package.version is required"}
	}
	versionStr, ok := versionVal.(string)
	if !ok {
		return nil, &ParseError{Path: path, Field: "package.version", Err: fmt.Errorf("not a string")}
	}

	main := defaultMain
	if mainVal, present := pkgSection["main"]; present {
		mainStr, ok := mainVal.(string)
		if !ok {
			return nil, &ParseError{Path: path, Field: "package.main", Err: fmt.Errorf("not a string")}
		}
		main = mainStr
	}

	var deps []Dependency
	if depsVal, present := pkgSection["dependencies"]; present {
		arr, ok := depsVal.([]interface{})
		if !ok {
			return nil, &ParseError{Path: path, Field: "package.dependencies", Err: fmt.Errorf("not an array")}
		}
		for i, d := range arr {
			s, ok := d.(string)
			if !ok {
				return nil, &ParseError{Path: path, Field: fmt.Sprintf("package.dependencies[%d]", i), Err: fmt.Errorf("not a string")}
			}
			deps = append(deps, Dependency{Name: s, Version: "local"})
		}
	}

	env, err := decodeEnvTable(doc["env"], path)
	if err != nil {
		return nil, err
	}

	mainPath := main
	if !filepath.IsAbs(mainPath) {
		mainPath = filepath.Join(dir, mainPath)
	}
	info, err := os.Stat(mainPath)
	if err != nil {
		return nil, &ValidationError{Path: path, Reason: fmt.Sprintf("main file %s does not exist", mainPath)}
	}
	if !isExecutableByUser(info) {
		return nil, &ValidationError{Path: path, Reason: fmt.Sprintf("main file %s is not executable", mainPath)}
	}

	return &Package{
		Name:         nameStr,
		Dir:          dir,
		Version:      versionStr,
		Main:         mainPath,
		Env:          env,
		Dependencies: deps,
	}, nil
}

// decodeEnvTable validates and converts the shared `[env]` shape used by
// both package and role manifests.
func decodeEnvTable(raw interface{}, path string) (map[string]string, error) {
	env := map[string]string{}
	if raw == nil {
		return env, nil
	}
	table, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &ParseError{Path: path, Field: "env", Err: fmt.Errorf("not a table")}
	}
	for k, v := range table {
		s, ok := v.(string)
		if !ok {
			return nil, &ParseError{Path: path, Field: fmt.Sprintf("env.%s", k), Err: fmt.Errorf("not a string")}
		}
		env[k] = s
	}
	return env, nil
}

// isExecutableByUser reports whether any of the owner, group or other
// execute bits is set in the file's mode. It does not check which of
// those bits applies to the current process's user, so a file that only
// another user may execute still passes. Turboshell checks the mode bits
// directly rather than calling access(2): that's what `chmod +x`
// actually sets, and it keeps the loader portable.
func isExecutableByUser(info os.FileInfo) bool {
	return info.Mode().Perm()&0o111 != 0
}
