// Package main is the entry point for the gareport CLI binary.
package main

import (
	"os"

	"gareport/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
