// Package main is the entry point for the orgpage CLI.
package main

import (
	"os"

	"github.com/jmylchreest/orgpage/cmd/orgpage/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
