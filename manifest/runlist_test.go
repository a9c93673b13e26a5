package manifest

import (
	"path/filepath"
	"testing"
)

func TestRunListEncodeDecodeRoundTrip(t *testing.T) {
	base := t.TempDir()
	writeSimplePackage(t, base, "a")
	writeRoleFile(t, base, "main", `
[role]
dependencies = ["a"]
`)

	repo, err := NewPackageRepository(base)
	if err != nil {
		t.Fatal(err)
	}
	role, err := LoadRole(base, "main")
	if err != nil {
		t.Fatal(err)
	}
	rl := &RunList{BaseDir: base, Repo: repo, Roles: []*Role{role}}

	data, err := rl.Encode()
	if err != nil {
		t.Fatal(err)
	}

	am, err := DecodeArchiveManifest(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(am.Roles) != 1 || am.Roles[0] != "main" {
		t.Fatalf("got %+v", am.Roles)
	}
}

func TestRolePathIsBasedirRelative(t *testing.T) {
	base := t.TempDir()
	writeRoleFile(t, base, "main", "")
	role, err := LoadRole(base, "main")
	if err != nil {
		t.Fatal(err)
	}

	rel, err := RolePath(base, role)
	if err != nil {
		t.Fatal(err)
	}
	if rel != filepath.Join("roles", "main.toml") {
		t.Fatalf("got %q", rel)
	}
}

func TestReloadRolesReadsBackWhatWasLoaded(t *testing.T) {
	base := t.TempDir()
	writeSimplePackage(t, base, "a")
	writeRoleFile(t, base, "main", `
[role]
dependencies = ["a"]
`)

	roles, err := ReloadRoles(base, []string{"main"})
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 1 || roles[0].Name != "main" {
		t.Fatalf("got %+v", roles)
	}
	if len(roles[0].Dependencies) != 1 {
		t.Fatalf("got %+v", roles[0].Dependencies)
	}
}
