package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/turboshell-dev/turboshell/archive"
	"github.com/turboshell-dev/turboshell/internal/events"
	"github.com/turboshell-dev/turboshell/manifest"
	"github.com/turboshell-dev/turboshell/resolver"
	"github.com/turboshell-dev/turboshell/seedfile"
)

// runCompile implements `compile [-d DIR] [-o FILE] -s SEEDFILE <role>...`:
// it loads the named roles from a repository directory, resolves them
// into an ordered executable sequence, and writes a signed archive to -o
// or, when -o is not given, to stdout.
func runCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	dir := fs.String("d", ".", "repository base directory")
	outPath := fs.String("o", "", "output archive path")
	seedPath := fs.String("s", "", "seed file path")
	fs.Parse(args)

	roleNames := fs.Args()
	if *seedPath == "" || len(roleNames) == 0 {
		fmt.Fprintln(os.Stderr, "usage: turboshell compile [-d DIR] [-o FILE] -s SEEDFILE <role>...")
		os.Exit(1)
	}

	seedData, err := os.ReadFile(*seedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		os.Exit(1)
	}
	sf, err := seedfile.Decode(string(seedData), *seedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		os.Exit(1)
	}
	_, priv := sf.Keypair()

	repo, err := manifest.NewPackageRepository(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		os.Exit(1)
	}

	roles := make([]*manifest.Role, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := manifest.LoadRole(*dir, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "compile: %v\n", err)
			os.Exit(1)
		}
		roles = append(roles, role)
	}

	execs, err := resolver.Resolve(repo, roles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		os.Exit(1)
	}

	rl := &manifest.RunList{BaseDir: *dir, Repo: repo, Roles: roles}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "compile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	narrate := events.Listener(func(e fmt.Stringer) { fmt.Fprintln(os.Stderr, e.String()) })
	if err := archive.Write(out, rl, execs, priv, narrate); err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		os.Exit(1)
	}

	if *outPath != "" {
		fmt.Println(*outPath)
	}
}
