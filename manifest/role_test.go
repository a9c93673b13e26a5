package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSimplePackage(t *testing.T, base, name string) {
	t.Helper()
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.sh"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.toml"), []byte(`
[package]
name = "`+name+`"
version = "1"
`), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeRoleFile(t *testing.T, base, name, body string) {
	t.Helper()
	dir := filepath.Join(base, "roles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRoleResolvesDependencies(t *testing.T) {
	base := t.TempDir()
	writeSimplePackage(t, base, "a")
	writeSimplePackage(t, base, "b")
	writeRoleFile(t, base, "main", `
[role]
dependencies = ["a", "b"]

[env]
FOO = "bar"
`)

	role, err := LoadRole(base, "main")
	if err != nil {
		t.Fatal(err)
	}
	if len(role.Dependencies) != 2 {
		t.Fatalf("got %d dependencies", len(role.Dependencies))
	}
	if role.Env["FOO"] != "bar" {
		t.Fatalf("env = %+v", role.Env)
	}
}

func TestLoadRoleRejectsMissingFile(t *testing.T) {
	base := t.TempDir()
	if _, err := LoadRole(base, "missing"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadRoleRejectsUnresolvedDependency(t *testing.T) {
	base := t.TempDir()
	writeRoleFile(t, base, "main", `
[role]
dependencies = ["ghost"]
`)
	if _, err := LoadRole(base, "main"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadRoleEmptyDependenciesIsEmptyEnv(t *testing.T) {
	base := t.TempDir()
	writeRoleFile(t, base, "main", "")

	role, err := LoadRole(base, "main")
	if err != nil {
		t.Fatal(err)
	}
	if len(role.Dependencies) != 0 {
		t.Fatalf("got %+v", role.Dependencies)
	}
	if len(role.Env) != 0 {
		t.Fatalf("got %+v", role.Env)
	}
}
