// Package main is the entry point for the cmdpal CLI.
package main

import (
	"os"

	"github.com/runger/cmdpal/internal/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
