package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// Role is a named selection of packages plus environment overrides.
type Role struct {
	Name         string
	Path         string
	Dependencies []*Package
	Env          map[string]string
}

// LoadRole reads and validates basedir/roles/<roleName>.toml. Each
// dependency name is resolved by loading the sibling package manifest
// directly, propagating any error the package loader returns.
func LoadRole(basedir, roleName string) (*Role, error) {
	path := filepath.Join(basedir, "roles", roleName+".toml")

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

	var depNames []string
	if roleSection, ok := doc["role"].(map[string]interface{}); ok {
		if depsVal, present := roleSection["dependencies"]; present {
			arr, ok := depsVal.([]interface{})
			if !ok {
				return nil, &ParseError{Path: path, Field: "role.dependencies", Err: fmt.Errorf("not an array")}
			}
			for i, d := range arr {
				s, ok := d.(string)
				if !ok {
					return nil, &ParseError{Path: path, Field: fmt.Sprintf("role.dependencies[%d]", i), Err: fmt.Errorf("not a string")}
				}
				depNames = append(depNames, s)
			}
		}
	} else if _, present := doc["role"]; present {
		return nil, &ParseError{Path: path, Field: "role", Err: fmt.Errorf("not a table")}
	}

	env, err := decodeEnvTable(doc["env"], path)
	if err != nil {
		return nil, err
	}

	deps := make([]*Package, 0, len(depNames))
	for _, name := range depNames {
		pkg, err := LoadPackage(basedir, name)
		if err != nil {
			return nil, err
		}
		deps = append(deps, pkg)
	}

	return &Role{
		Name:         roleName,
		Path:         path,
		Dependencies: deps,
		Env:          env,
	}, nil
}
