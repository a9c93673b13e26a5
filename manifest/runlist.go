package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// RunList is the triple (basedir, repository, ordered roles) that the
// compile path resolves and the run path reconstructs from archive.toml.
type RunList struct {
	BaseDir string
	Repo    *PackageRepository
	Roles   []*Role
}

// archiveDoc mirrors the archive.toml schema in SPEC_FULL.md §6.
type archiveDoc struct {
	Archive struct {
		Roles []string `toml:"roles"`
	} `toml:"archive"`
	Role map[string]map[string]string `toml:"role"`
}

// Encode serializes the RunList to the archive.toml wire format. The
// [role] section is informational only; see ArchiveManifest for what the
// run path actually consults.
func (rl *RunList) Encode() ([]byte, error) {
	doc := archiveDoc{
		Role: make(map[string]map[string]string, len(rl.Roles)),
	}
	for _, role := range rl.Roles {
		doc.Archive.Roles = append(doc.Archive.Roles, role.Name)
		deps := make(map[string]string, len(role.Dependencies))
		for _, pkg := range role.Dependencies {
			deps[pkg.Name] = pkg.Version
		}
		doc.Role[role.Name] = deps
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding archive.toml: %w", err)
	}
	return buf.Bytes(), nil
}

// ArchiveManifest is the information the run path reconstructs from the
// embedded archive.toml: just the ordered role names.
type ArchiveManifest struct {
	Roles []string
}

// DecodeArchiveManifest parses archive.toml as written by RunList.Encode.
func DecodeArchiveManifest(data []byte) (*ArchiveManifest, error) {
	var doc archiveDoc
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, &ParseError{Path: "archive.toml", Err: err}
	}
	return &ArchiveManifest{Roles: doc.Archive.Roles}, nil
}

// ReloadRoles re-loads each named role from basedir, in the order given.
// Used on the run path after the archive has been unpacked, so resolution
// runs against the exploded tree rather than trusting the embedded
// [role] table.
func ReloadRoles(basedir string, roleNames []string) ([]*Role, error) {
	roles := make([]*Role, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := LoadRole(basedir, name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// RolePath returns the path, relative to basedir, of a role's manifest
// file, as stored in the tar payload.
func RolePath(basedir string, role *Role) (string, error) {
	rel, err := filepath.Rel(basedir, role.Path)
	if err != nil {
		return "", err
	}
	return rel, nil
}

// StatRole returns the file mode of a role manifest file, preserved when
// packaging it into the archive.
func StatRole(role *Role) (os.FileMode, error) {
	info, err := os.Stat(role.Path)
	if err != nil {
		return 0, err
	}
	return info.Mode(), nil
}
