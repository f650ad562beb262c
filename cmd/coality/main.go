// Package main provides the entry point for the coality CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/coality/cmd/coality/commands"
	"github.com/Sumatoshi-tech/coality/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
