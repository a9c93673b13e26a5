package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/turboshell-dev/turboshell/archive"
)

// runInspect implements `inspect [-o FILE] -k PUBKEY [<archive>]`: it
// verifies an archive's signature and emits the inner gzip(tar(...))
// bytes, unchanged, to -o or stdout.
func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	outPath := fs.String("o", "", "write the inner tar bytes here (default stdout)")
	pubText := fs.String("k", "", "base64-encoded Ed25519 public key")
	fs.Parse(args)

	pub, err := decodePublicKey(*pubText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}

	var in io.Reader = os.Stdin
	if rest := fs.Args(); len(rest) > 0 {
		f, err := os.Open(rest[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	payload, err := archive.Verify(in, pub)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if _, err := out.Write(payload); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}
