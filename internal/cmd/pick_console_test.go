//go:build !windows

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/runger/cmdpal/internal/config"
)

// Key sequences sent to the console.
const (
	keyEnter  = "\r"
	keyEscape = "\x1b"
)

// pickConsole runs `cmdpal pick` in a new session whose controlling
// terminal is a go-expect console, so the picker's /dev/tty is the console.
type pickConsole struct {
	Console *expect.Console
	cmd     *exec.Cmd
	stdout  bytes.Buffer
	stderr  bytes.Buffer
}

type pickOptions struct {
	cols   uint16
	noCtty bool // start without a controlling terminal
	args   []string
}

func startPick(t *testing.T, catalog string, opts pickOptions) *pickConsole {
	t.Helper()

	console, err := expect.NewConsole(expect.WithDefaultTimeout(10 * time.Second))
	if err != nil {
		t.Skipf("pseudo-terminal unavailable: %v", err)
	}
	t.Cleanup(func() { console.Close() })

	ws := &unix.Winsize{Row: 24, Col: opts.cols}
	require.NoError(t, unix.IoctlSetWinsize(int(console.Tty().Fd()), unix.TIOCSWINSZ, ws))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	pc := &pickConsole{Console: console}
	pc.cmd = exec.CommandContext(ctx, os.Args[0], append([]string{"pick"}, opts.args...)...)
	pc.cmd.Env = append(os.Environ(),
		execCLIEnv+"=1",
		"TERM=xterm-256color",
		"CMDPAL_CATALOG="+catalog,
	)
	pc.cmd.Stdin = console.Tty()
	pc.cmd.Stdout = &pc.stdout
	pc.cmd.Stderr = &pc.stderr
	pc.cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: !opts.noCtty, Ctty: 0}

	require.NoError(t, pc.cmd.Start())
	return pc
}

// wait returns the exit status of the picker process.
func (pc *pickConsole) wait(t *testing.T) int {
	t.Helper()
	err := pc.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	require.NoError(t, err, "stderr: %s", pc.stderr.String())
	return 0
}

func skipConsoleTest(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping console test in short mode")
	}
}

func TestPickConsole_EnterPrintsID(t *testing.T) {
	skipConsoleTest(t)
	catalog := withTestEnv(t)

	pc := startPick(t, catalog, pickOptions{cols: 80, args: []string{"--query", "conv"}})
	_, err := pc.Console.ExpectString("Chat")
	require.NoError(t, err, "picker never drew its rows")

	_, err = pc.Console.Send(keyEnter)
	require.NoError(t, err)

	assert.Equal(t, exitSuccess, pc.wait(t), "stderr: %s", pc.stderr.String())
	// chat.clear is recent, so it ranks above chat.new.
	assert.Equal(t, "chat.clear\n", pc.stdout.String())
}

func TestPickConsole_EscapeCancels(t *testing.T) {
	skipConsoleTest(t)
	catalog := withTestEnv(t)

	pc := startPick(t, catalog, pickOptions{cols: 80, args: []string{"--query", "conv"}})
	_, err := pc.Console.ExpectString("Chat")
	require.NoError(t, err)

	_, err = pc.Console.Send(keyEscape)
	require.NoError(t, err)

	assert.Equal(t, exitCancelled, pc.wait(t))
	assert.Empty(t, pc.stdout.String())
}

func TestPickConsole_Fallbacks(t *testing.T) {
	skipConsoleTest(t)

	tests := []struct {
		name   string
		opts   pickOptions
		lock   bool
		errSub string
	}{
		{name: "narrow terminal", opts: pickOptions{cols: 10}, errSub: "too narrow"},
		{name: "no controlling terminal", opts: pickOptions{cols: 80, noCtty: true}, errSub: "no TTY"},
		{name: "picker already open", opts: pickOptions{cols: 80}, lock: true, errSub: "another cmdpal picker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := withTestEnv(t)
			if tt.lock {
				paths := config.DefaultPaths()
				require.NoError(t, os.MkdirAll(paths.CacheDir, 0o755))
				fd, err := acquireLock(paths.LockFile())
				require.NoError(t, err)
				t.Cleanup(func() { releaseLock(fd) })
			}

			pc := startPick(t, catalog, tt.opts)
			assert.Equal(t, exitFallback, pc.wait(t))
			assert.Empty(t, pc.stdout.String())
			assert.Contains(t, pc.stderr.String(), tt.errSub)
		})
	}
}
