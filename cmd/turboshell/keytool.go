package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/turboshell-dev/turboshell/seedfile"
)

// runKeytool implements `keytool [-o FILE | <seedfile>]`: given a seed
// file path (as an argument or piped on stdin), it prints that key's
// base64 public key; given neither, it generates a fresh seed file and
// writes it to -o.
func runKeytool(args []string) {
	fs := flag.NewFlagSet("keytool", flag.ExitOnError)
	out := fs.String("o", "", "path to write a freshly generated seed file")
	fs.Parse(args)
	rest := fs.Args()

	var text, source string
	switch {
	case len(rest) > 0:
		data, err := os.ReadFile(rest[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "keytool: %v\n", err)
			os.Exit(1)
		}
		text, source = string(data), rest[0]

	case stdinPiped():
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "keytool: reading stdin: %v\n", err)
			os.Exit(1)
		}
		text, source = string(data), "stdin"

	default:
		if *out == "" {
			fmt.Fprintln(os.Stderr, "keytool: -o is required to write a freshly generated seed file")
			os.Exit(1)
		}
		sf, err := seedfile.Generate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "keytool: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, []byte(sf.Encode()), 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "keytool: writing %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Println(*out)
		return
	}

	sf, err := seedfile.Decode(text, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keytool: %v\n", err)
		os.Exit(1)
	}
	pub, _ := sf.Keypair()
	fmt.Println(base64.StdEncoding.EncodeToString(pub))
}

// stdinPiped reports whether stdin is connected to a pipe or file rather
// than an interactive terminal.
func stdinPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}
