package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const (
	groupCore  = "core"
	groupSetup = "setup"
)

// catalogPath overrides the configured catalog for any subcommand.
var catalogPath string

var rootCmd = &cobra.Command{
	Use:   "cmdpal",
	Short: "fuzzy command palette",
	Long: `cmdpal - fuzzy command palette for any terminal app
  - rank a command catalog against a typed query
  - pick a command interactively and print its ID`,
	SilenceUsage: true,
}

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Core Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "command catalog file (.yaml, .yml, .txt or .list)")

	rootCmd.AddCommand(versionCmd)
}
