// Package main provides the entry point for the hostprobe CLI.
package main

import (
	"os"

	"hostprobe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
