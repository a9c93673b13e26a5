package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/turboshell-dev/turboshell/archive"
	"github.com/turboshell-dev/turboshell/manifest"
	"github.com/turboshell-dev/turboshell/resolver"
	"github.com/turboshell-dev/turboshell/runner"
)

// runRun implements `run -k PUBKEY [<archive>]`: verify, unpack into a
// scratch directory, rebuild the resolved executable sequence, and run
// it. The scratch directory is removed on every exit path.
func runRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	pubText := fs.String("k", "", "base64-encoded Ed25519 public key")
	fs.Parse(args)

	pub, err := decodePublicKey(*pubText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}

	var in io.Reader = os.Stdin
	if rest := fs.Args(); len(rest) > 0 {
		f, err := os.Open(rest[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "run: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	payload, err := archive.Verify(in, pub)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}

	scratch, err := os.MkdirTemp("", "turboshell-run-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(scratch)

	if err := archive.Explode(payload, scratch); err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.RemoveAll(scratch)
		os.Exit(1)
	}

	archiveToml, err := os.ReadFile(filepath.Join(scratch, "archive.toml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.RemoveAll(scratch)
		os.Exit(1)
	}
	am, err := manifest.DecodeArchiveManifest(archiveToml)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.RemoveAll(scratch)
		os.Exit(1)
	}

	roles, err := manifest.ReloadRoles(scratch, am.Roles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.RemoveAll(scratch)
		os.Exit(1)
	}

	repo, err := manifest.NewPackageRepository(scratch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.RemoveAll(scratch)
		os.Exit(1)
	}

	execs, err := resolver.Resolve(repo, roles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.RemoveAll(scratch)
		os.Exit(1)
	}

	if err := runner.Run(context.Background(), execs, os.Stdout, nil); err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.RemoveAll(scratch)
		os.Exit(1)
	}
}
