package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/cmdpal/internal/config"
	cmdlog "github.com/runger/cmdpal/internal/log"
	"github.com/runger/cmdpal/internal/picker"
)

// Exit codes for `cmdpal pick`. These match the expectations of shell
// bindings:
//
//	0 = selection made (use the result)
//	1 = cancelled by user
//	2 = fallback (no TTY, error, etc.)
const (
	exitSuccess   = 0
	exitCancelled = 1
	exitFallback  = 2
)

// maxQueryLen is the maximum length of a query string in bytes.
const maxQueryLen = 4096

var (
	pickQuery string
	pickTabs  string
)

var pickCmd = &cobra.Command{
	Use:     "pick",
	Short:   "Pick a command interactively",
	GroupID: groupCore,
	Long: `Open the interactive palette on /dev/tty and print the ID of the
selected command to stdout.

Exit status is 0 when a command was selected, 1 when the picker was
cancelled and 2 when the picker could not run (no terminal, TERM=dumb,
terminal narrower than 20 columns, another picker already open, or an
error). Callers should fall back to their own UI on 2.

Examples:
  id=$(cmdpal pick)                 # Run the palette
  cmdpal pick --query conv          # Start with a query
  cmdpal pick --tabs all,chat       # Only show these tabs`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if code := runPick(); code != exitSuccess {
			return &ExitError{Code: code}
		}
		return nil
	},
}

func init() {
	pickCmd.Flags().StringVar(&pickQuery, "query", "", "initial search query (max 4096 bytes)")
	pickCmd.Flags().StringVar(&pickTabs, "tabs", "", "comma-separated tab IDs (default: all configured tabs)")

	rootCmd.AddCommand(pickCmd)
}

// runPick runs the picker and returns the process exit code.
func runPick() int {
	if err := checkTTY(); err != nil {
		pickErrorf("%v", err)
		return exitFallback
	}
	if err := checkTERM(); err != nil {
		pickErrorf("%v", err)
		return exitFallback
	}
	if err := checkTermWidth(); err != nil {
		pickErrorf("%v", err)
		return exitFallback
	}

	query, err := sanitizeQuery(pickQuery)
	if err != nil {
		pickErrorf("--query: %v", err)
		return exitFallback
	}

	s, err := openSession("pick")
	if err != nil {
		pickErrorf("%v", err)
		return exitFallback
	}
	defer s.Close()

	code, outcome := pickWithSession(s, query)
	cmdlog.LogPickerExit(s.logger, outcome, code)
	return code
}

func pickWithSession(s *session, query string) (int, string) {
	if err := os.MkdirAll(s.paths.CacheDir, 0755); err != nil {
		pickErrorf("failed to create cache directory: %v", err)
		return exitFallback, "error"
	}
	lockFd, err := acquireLock(s.paths.LockFile())
	if err != nil {
		pickErrorf("%v", err)
		return exitFallback, "locked"
	}
	defer releaseLock(lockFd)

	cat, recent, err := s.loadCatalog()
	if err != nil {
		pickErrorf("%v", err)
		return exitFallback, "error"
	}

	provider := picker.NewPaletteProvider(cat.Commands, recent, s.logger)
	model := picker.NewModel(resolveTabs(s.cfg.Picker.Tabs, pickTabs), provider).
		WithLayout(picker.ParseLayout(s.cfg.Picker.Layout)).
		WithPageSize(s.cfg.Picker.PageSize)
	if query != "" {
		model = model.WithQuery(query)
	}

	// Open /dev/tty for TUI input/output since stdout carries the result.
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		pickErrorf("cannot open /dev/tty: %v", err)
		return exitFallback, "error"
	}
	defer tty.Close()

	// stdout is usually a pipe under $(...), so detect colors from the tty.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
	)

	finalModel, err := p.Run()
	if err != nil {
		pickErrorf("TUI error: %v", err)
		return exitFallback, "error"
	}

	m, ok := finalModel.(picker.Model)
	if !ok {
		pickErrorf("unexpected model type")
		return exitFallback, "error"
	}

	if m.IsCancelled() {
		return exitCancelled, "cancelled"
	}

	id := m.Result()
	if id == "" {
		return exitCancelled, "empty"
	}
	if c, ok := cat.Lookup(id); ok {
		s.logger.Debug("command picked", "id", c.ID, "category", c.Category)
	}
	fmt.Fprintln(os.Stdout, id)
	return exitSuccess, "selected"
}

// resolveTabs picks the configured tabs named in ids (comma separated), in
// configured order. Unknown or empty ids select every configured tab.
func resolveTabs(configured []config.TabDef, ids string) []config.TabDef {
	if strings.TrimSpace(ids) == "" {
		return configured
	}

	want := make(map[string]bool)
	for _, id := range strings.Split(ids, ",") {
		want[strings.TrimSpace(id)] = true
	}

	var tabs []config.TabDef
	for _, t := range configured {
		if want[t.ID] {
			tabs = append(tabs, t)
		}
	}
	if len(tabs) == 0 {
		return configured
	}
	return tabs
}

// sanitizeQuery strips control characters and validates the query string.
func sanitizeQuery(q string) (string, error) {
	if q == "" {
		return "", nil
	}

	if strings.ContainsAny(q, "\n\r") {
		return "", errors.New("query must not contain newlines")
	}

	// Strip control characters (0x00-0x1F) except tab.
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		if r <= 0x1F && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	result := b.String()

	if len(result) > maxQueryLen {
		result = truncateUTF8(result, maxQueryLen)
	}
	return result, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	cut := 0
	for cut < len(s) {
		_, size := utf8.DecodeRuneInString(s[cut:])
		if cut+size > n {
			break
		}
		cut += size
	}
	return s[:cut]
}

func pickErrorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "cmdpal pick: "+format+"\n", args...)
}
