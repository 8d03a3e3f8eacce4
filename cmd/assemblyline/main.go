// Package main provides the entry point for the assemblyline CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/assemblyline/cmd/assemblyline/commands"
	"github.com/Sumatoshi-tech/assemblyline/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
