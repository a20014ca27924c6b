// Package main is the entry point for the phonetics CLI.
//
// Usage:
//
//	phonetics [flags] <command> [args]
//
// Commands:
//
//	vot        - Voice onset time of every stop in labelled recordings
//	fricative  - Spectral balance of fricatives in a directory tree
//	ecog       - Load a UCSF ECoG block and optionally export it
//	channel    - Print the file name of an ECoG channel
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-phonetics/cmd/phonetics/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
