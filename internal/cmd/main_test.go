package cmd

import (
	"os"
	"testing"
)

// execCLIEnv makes the test binary run the cmdpal CLI instead of the tests,
// so console tests can drive the real command without building it first.
const execCLIEnv = "CMDPAL_TEST_EXEC_CLI"

func TestMain(m *testing.M) {
	if os.Getenv(execCLIEnv) == "1" {
		rootCmd.SetArgs(os.Args[1:])
		os.Exit(ExitCode(Execute()))
	}
	os.Exit(m.Run())
}
