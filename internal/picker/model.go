// Package picker implements the interactive command palette.
//
// The picker owns the keystroke loop: it debounces typing, asks a Provider
// for ranked items, drops responses that belong to an older request, and
// renders the list with matched characters highlighted.
package picker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runger/cmdpal/internal/config"
)

// debounceInterval is the delay after the last keystroke before triggering a fetch.
const debounceInterval = 100 * time.Millisecond

// Layout controls where the query line sits relative to the list.
type Layout int

const (
	LayoutTopDown  Layout = iota // Query on top, best match first below it
	LayoutBottomUp               // Query at the bottom, best match right above it
)

// ParseLayout maps a config layout name to a Layout.
func ParseLayout(s string) Layout {
	if s == "bottom-up" {
		return LayoutBottomUp
	}
	return LayoutTopDown
}

// pickerState represents the current state of the picker's state machine.
type pickerState int

const (
	stateIdle      pickerState = iota // Initial state before first fetch
	stateLoading                      // Fetch in progress
	stateLoaded                       // Items loaded successfully (len > 0)
	stateEmpty                        // Fetch succeeded but returned 0 items
	stateError                        // Fetch failed
	stateCancelled                    // User cancelled (Esc / Ctrl+C)
)

// fetchDoneMsg is sent when an async Provider.Fetch completes.
type fetchDoneMsg struct {
	requestID  uint64
	items      []Item
	atEnd      bool
	appendPage bool
	err        error
}

// debounceMsg fires after the debounce timer expires.
type debounceMsg struct {
	id uint64 // Must match current debounceID to be accepted
}

// initMsg is sent by Init() to trigger the first fetch via Update.
type initMsg struct{}

// Model is the Bubble Tea model for the palette picker.
type Model struct {
	state     pickerState
	layout    Layout
	tabs      []config.TabDef
	activeTab int
	items     []Item
	selection int // Index into items; -1 when empty
	atEnd     bool
	err       error
	textInput textinput.Model

	requestID uint64
	provider  Provider
	pageSize  int

	width  int
	height int

	// result holds the selected item ID after the user presses Enter.
	result string

	cancelFetch context.CancelFunc
	debounceID  uint64
}

// NewModel creates a new picker Model.
func NewModel(tabs []config.TabDef, provider Provider) Model {
	if len(tabs) == 0 {
		tabs = []config.TabDef{{ID: "all", Label: "All"}}
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a command"
	ti.PromptStyle = queryStyle
	ti.Focus()

	return Model{
		state:     stateIdle,
		tabs:      tabs,
		selection: -1,
		textInput: ti,
		provider:  provider,
	}
}

// WithQuery sets the initial query.
func (m Model) WithQuery(q string) Model {
	m.textInput.SetValue(q)
	m.textInput.CursorEnd()
	return m
}

// WithLayout sets the list layout.
func (m Model) WithLayout(l Layout) Model {
	m.layout = l
	return m
}

// WithPageSize sets how many items are requested per page. Zero means one
// screenful.
func (m Model) WithPageSize(n int) Model {
	m.pageSize = n
	return m
}

// Result returns the selected item ID, or "" if nothing was selected.
func (m Model) Result() string {
	return m.result
}

// IsCancelled reports whether the user dismissed the picker.
func (m Model) IsCancelled() bool {
	return m.state == stateCancelled
}

// Query returns the current query text.
func (m Model) Query() string {
	return m.textInput.Value()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return initMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = max(msg.Width-len(m.textInput.Prompt)-1, 1)
		return m, nil

	case fetchDoneMsg:
		return m.handleFetchDone(msg)

	case debounceMsg:
		return m.handleDebounce(msg)

	case initMsg:
		return m, m.startFetch(false)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.state = stateCancelled
		m.cancelInflight()
		return m, tea.Quit

	case tea.KeyEnter:
		if m.state == stateLoaded && m.selection >= 0 && m.selection < len(m.items) {
			m.result = m.items[m.selection].ID
		}
		m.cancelInflight()
		return m, tea.Quit

	case tea.KeyUp, tea.KeyCtrlP:
		if m.state == stateLoading {
			return m, nil
		}
		return m.navigate(m.towardWorse(false))

	case tea.KeyDown, tea.KeyCtrlN:
		if m.state == stateLoading {
			return m, nil
		}
		return m.navigate(m.towardWorse(true))

	case tea.KeyTab, tea.KeyShiftTab:
		if len(m.tabs) < 2 {
			return m, nil
		}
		step := 1
		if msg.Type == tea.KeyShiftTab {
			step = len(m.tabs) - 1
		}
		m.activeTab = (m.activeTab + step) % len(m.tabs)
		return m, m.startFetch(false)
	}

	prev := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() != prev {
		return m, tea.Batch(cmd, m.startDebounce())
	}
	return m, cmd
}

// towardWorse converts an arrow direction into a step through items, which
// are always ordered best first. In bottom-up layout the list is drawn
// reversed, so Up walks toward worse matches.
func (m Model) towardWorse(down bool) int {
	worse := down
	if m.layout == LayoutBottomUp {
		worse = !down
	}
	if worse {
		return 1
	}
	return -1
}

func (m *Model) moveSelection(step int) {
	next := m.selection + step
	if next >= 0 && next < len(m.items) {
		m.selection = next
	}
}

// navigate moves the selection by step and requests the next page when the
// user walks past the last loaded item.
func (m Model) navigate(step int) (tea.Model, tea.Cmd) {
	if step > 0 && m.selection == len(m.items)-1 && !m.atEnd && m.state == stateLoaded {
		return m, m.startFetch(true)
	}
	m.moveSelection(step)
	return m, nil
}

// handleFetchDone processes the result of an async fetch.
func (m Model) handleFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	if msg.requestID != m.requestID {
		return m, nil
	}
	m.cancelFetch = nil

	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		m.items = nil
		m.selection = -1
		return m, nil
	}

	if msg.appendPage {
		m.items = append(m.items, msg.items...)
		if len(msg.items) > 0 {
			m.selection++
		}
	} else {
		m.items = msg.items
		m.selection = 0
	}
	m.atEnd = msg.atEnd
	m.err = nil

	if len(m.items) == 0 {
		m.state = stateEmpty
		m.selection = -1
	} else {
		m.state = stateLoaded
		m.clampSelection()
	}

	return m, nil
}

// handleDebounce fires the fetch if the debounce timer is still current.
func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.debounceID {
		return m, nil
	}
	return m, m.startFetch(false)
}

// startDebounce increments the debounce counter and returns a tea.Tick
// command that fires after debounceInterval.
func (m *Model) startDebounce() tea.Cmd {
	m.debounceID++
	id := m.debounceID
	return tea.Tick(debounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{id: id}
	})
}

// startFetch cancels any in-flight fetch, increments requestID, and returns
// a tea.Cmd that calls the provider. appendPage requests the page after the
// items already loaded.
func (m *Model) startFetch(appendPage bool) tea.Cmd {
	m.cancelInflight()
	m.requestID++
	m.state = stateLoading

	reqID := m.requestID
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel

	offset := 0
	if appendPage {
		offset = len(m.items)
	}
	tab := m.currentTab()
	req := Request{
		RequestID: reqID,
		Query:     m.textInput.Value(),
		TabID:     tab.ID,
		Category:  tab.Category,
		Limit:     m.pageLimit(),
		Offset:    offset,
	}

	p := m.provider
	return func() tea.Msg {
		resp, err := p.Fetch(ctx, req)
		if err != nil {
			return fetchDoneMsg{requestID: reqID, err: err}
		}
		return fetchDoneMsg{
			requestID:  reqID,
			items:      resp.Items,
			atEnd:      resp.AtEnd,
			appendPage: appendPage,
		}
	}
}

// cancelInflight cancels any in-progress fetch context.
func (m *Model) cancelInflight() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

// clampSelection ensures the selection index is within bounds.
func (m *Model) clampSelection() {
	if len(m.items) == 0 {
		m.selection = -1
		return
	}
	if m.selection < 0 {
		m.selection = 0
	}
	if m.selection >= len(m.items) {
		m.selection = len(m.items) - 1
	}
}

// currentTab returns the active TabDef.
func (m Model) currentTab() config.TabDef {
	if m.activeTab >= 0 && m.activeTab < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return config.TabDef{ID: "all", Label: "All"}
}

func (m Model) pageLimit() int {
	if m.pageSize > 0 {
		return m.pageSize
	}
	return m.listHeight()
}

// listHeight returns the number of visible list rows (terminal height minus
// tab bar and query line).
func (m Model) listHeight() int {
	const chrome = 2
	h := m.height - chrome
	if h < 1 {
		h = 20
	}
	return h
}

// --- View rendering ---

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	matchStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	queryStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	parts := []string{m.textInput.View(), m.viewTabBar(), m.viewContent()}
	if m.layout == LayoutBottomUp {
		parts = []string{m.viewContent(), m.viewTabBar(), m.textInput.View()}
	}
	return strings.Join(parts, "\n")
}

// viewTabBar renders the tab bar.
func (m Model) viewTabBar() string {
	var parts []string
	for i, tab := range m.tabs {
		label := " " + tab.Label + " "
		if i == m.activeTab {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// viewContent renders the item list or a status message.
func (m Model) viewContent() string {
	switch m.state {
	case stateIdle, stateLoading:
		if len(m.items) > 0 {
			return m.viewList()
		}
		return dimStyle.Render("Loading...")

	case stateEmpty:
		return dimStyle.Render("No matching commands")

	case stateError:
		msg := "Error"
		if m.err != nil {
			msg = fmt.Sprintf("Error: %s", m.err)
		}
		return errorStyle.Render(msg)

	case stateCancelled:
		return dimStyle.Render("Cancelled")

	case stateLoaded:
		return m.viewList()

	default:
		return ""
	}
}

// viewList renders the visible window of items around the selection.
func (m Model) viewList() string {
	rows := m.listHeight()
	first := 0
	if m.selection >= rows {
		first = m.selection - rows + 1
	}
	last := min(first+rows, len(m.items))

	lines := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		lines = append(lines, m.renderItem(m.items[i], i == m.selection))
	}
	if m.layout == LayoutBottomUp {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// renderItem renders one row: marker, label with highlights, dimmed category.
func (m Model) renderItem(it Item, selected bool) string {
	base := normalStyle
	marker := "  "
	if selected {
		base = selectedStyle
		marker = "> "
	}

	avail := 0
	if m.width > 0 {
		avail = m.width - len(marker)
	}

	text, indices := it.Label, it.Highlights
	if avail > 0 {
		text, indices = MiddleTruncateIndices(text, indices, avail)
	}

	line := base.Render(marker) + Highlight(text, indices, base, matchStyle)
	if it.Category != "" && (avail <= 0 || Fits(it.Label+"  "+it.Category, avail)) {
		line += dimStyle.Render("  " + it.Category)
	}
	return line
}

// Highlight renders label with the runes at indices drawn in match and the
// rest in base. indices must be strictly increasing rune offsets.
func Highlight(label string, indices []int, base, match lipgloss.Style) string {
	if len(indices) == 0 {
		return base.Render(label)
	}

	var b strings.Builder
	var run []rune
	runMatched := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runMatched {
			b.WriteString(match.Render(string(run)))
		} else {
			b.WriteString(base.Render(string(run)))
		}
		run = run[:0]
	}

	next := 0
	for i, r := range []rune(label) {
		matched := next < len(indices) && indices[next] == i
		if matched {
			next++
		}
		if matched != runMatched {
			flush()
			runMatched = matched
		}
		run = append(run, r)
	}
	flush()
	return b.String()
}
