package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/cmdpal/internal/config"
)

func TestResolveTabs(t *testing.T) {
	configured := []config.TabDef{
		{ID: "all", Label: "All"},
		{ID: "chat", Label: "Chat", Category: "Chat"},
		{ID: "view", Label: "View", Category: "View"},
	}

	tests := []struct {
		name string
		ids  string
		want []string
	}{
		{"empty selects all", "", []string{"all", "chat", "view"}},
		{"subset keeps configured order", "view, all", []string{"all", "view"}},
		{"unknown falls back to all", "nope", []string{"all", "chat", "view"}},
		{"blank entries ignored", "chat,,", []string{"chat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, tab := range resolveTabs(configured, tt.ids) {
				got = append(got, tab.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty", "", "", false},
		{"plain", "new conv", "new conv", false},
		{"keeps tab", "a\tb", "a\tb", false},
		{"strips control", "a\x01b\x1bc", "abc", false},
		{"rejects newline", "a\nb", "", true},
		{"rejects carriage return", "a\rb", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeQuery(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeQuery_Truncates(t *testing.T) {
	got, err := sanitizeQuery(strings.Repeat("a", maxQueryLen+10))
	require.NoError(t, err)
	assert.Len(t, got, maxQueryLen)

	// A multi-byte rune straddling the limit is dropped whole.
	got, err = sanitizeQuery(strings.Repeat("a", maxQueryLen-1) + "é")
	require.NoError(t, err)
	assert.Len(t, got, maxQueryLen-1)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "héllo", truncateUTF8("héllo", 10))
	assert.Equal(t, "h", truncateUTF8("héllo", 2))
	assert.Equal(t, "hé", truncateUTF8("héllo", 3))
	assert.Equal(t, "", truncateUTF8("héllo", 0))
}

func TestCheckTERM(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.Error(t, checkTERM())

	t.Setenv("TERM", "xterm-256color")
	assert.NoError(t, checkTERM())
}

func TestRunPick_DumbTerminalFallsBack(t *testing.T) {
	withTestEnv(t)
	t.Setenv("TERM", "dumb")

	assert.Equal(t, exitFallback, runPick())

	err := pickCmd.RunE(pickCmd, nil)
	assert.Equal(t, exitFallback, ExitCode(err))
}

func TestPickCmd_Flags(t *testing.T) {
	assert.NotNil(t, pickCmd.Flags().Lookup("query"))
	assert.NotNil(t, pickCmd.Flags().Lookup("tabs"))
	assert.True(t, pickCmd.SilenceErrors)
}
