// Package main is the entry point for the marktwatch CLI.
package main

import (
	"os"

	"github.com/jmylchreest/marktwatch/cmd/marktwatch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
