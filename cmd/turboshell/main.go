// Command turboshell is the CLI front end for Turboshell: it assembles
// signed package archives and runs them. All parsing, output
// multiplexing, and process-exit handling live here; the core packages
// (manifest, resolver, archive, runner) know nothing of flags, and the
// only stdio they touch is the runner handing its children the process's
// stdin and stderr.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "keytool":
		runKeytool(os.Args[2:])
	case "compile":
		runCompile(os.Args[2:])
	case "inspect":
		runInspect(os.Args[2:])
	case "run":
		runRun(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: turboshell <command> [flags]")
	fmt.Println("\nCommands:")
	fmt.Println("  keytool  print or create a signing key")
	fmt.Println("  compile  produce a signed archive from a repository")
	fmt.Println("  inspect  verify an archive and emit its inner tar bytes")
	fmt.Println("  run      verify, unpack, and execute an archive")
}
