package fuzzy

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchString_WordStarts(t *testing.T) {
	t.Parallel()

	m, ok := MatchString("new conversation", "nc")
	require.True(t, ok)
	assert.Equal(t, []int{0, 4}, m.Indices)
	// n@0 start (15) + c@4 word start (10) - length penalty (16-2)
	assert.Equal(t, 11, m.Score)
}

func TestMatchRunes_EmptyQuery(t *testing.T) {
	t.Parallel()

	m, ok := MatchRunes(Fold("anything"), nil)
	require.True(t, ok)
	assert.Equal(t, 0, m.Score)
	assert.Empty(t, m.Indices)

	m, ok = MatchRunes(nil, nil)
	require.True(t, ok)
	assert.Equal(t, 0, m.Score)
}

func TestMatchRunes_NoMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		haystack string
		query    string
	}{
		{"absent chars", "new conversation", "xyz"},
		{"wrong order", "abc", "cb"},
		{"query longer", "ab", "abc"},
		{"empty haystack", "", "a"},
		{"partial tail", "settings", "setx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, ok := MatchString(tt.haystack, tt.query)
			assert.False(t, ok)
		})
	}
}

func TestMatchRunes_Scoring(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		haystack string
		query    string
		score    int
		indices  []int
	}{
		{
			name:     "exact single char",
			haystack: "a",
			query:    "a",
			score:    15,
			indices:  []int{0},
		},
		{
			name:     "consecutive from start",
			haystack: "abc",
			query:    "abc",
			score:    15 + 5 + 5,
			indices:  []int{0, 1, 2},
		},
		{
			name:     "underscore word start",
			haystack: "x_y",
			query:    "y",
			score:    10 - 2,
			indices:  []int{2},
		},
		{
			name:     "hyphen word start",
			haystack: "git-push",
			query:    "gp",
			score:    15 + 10 - 6,
			indices:  []int{0, 4},
		},
		{
			name:     "absent letter",
			haystack: "a very long label with nothing special",
			query:    "z",
			score:    0,
			indices:  nil,
		},
		{
			name:     "mid word only, penalty floors",
			haystack: "abcdefghij",
			query:    "j",
			score:    1,
			indices:  []int{9},
		},
		{
			name:     "case folded",
			haystack: "Open File",
			query:    "OF",
			score:    15 + 10 - 7,
			indices:  []int{0, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, ok := MatchString(tt.haystack, tt.query)
			if tt.indices == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.score, m.Score)
			assert.Equal(t, tt.indices, m.Indices)
		})
	}
}

func TestMatchRunes_GreedyLeftmost(t *testing.T) {
	t.Parallel()

	// The scan takes the first 'b' even though "b_b" offers a word-start 'b'
	// later on; no backtracking.
	m, ok := MatchString("ab_b", "b")
	require.True(t, ok)
	assert.Equal(t, []int{1}, m.Indices)
	assert.Equal(t, 1, m.Score)
}

func TestMatchRunes_IndicesInvariant(t *testing.T) {
	t.Parallel()

	cases := [][2]string{
		{"new conversation", "nwcv"},
		{"toggle sidebar", "tsb"},
		{"Überblick öffnen", "üö"},
		{"日本語の設定", "本設"},
		{"git_worktree-add", "gwa"},
	}

	for _, c := range cases {
		m, ok := MatchString(c[0], c[1])
		require.True(t, ok, "%q should match %q", c[1], c[0])
		assert.Len(t, m.Indices, utf8.RuneCountInString(c[1]))
		for i := 1; i < len(m.Indices); i++ {
			assert.Greater(t, m.Indices[i], m.Indices[i-1])
		}
		assert.GreaterOrEqual(t, m.Score, 1)
	}
}

func TestFold_PreservesRuneCount(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "ABC", "Straße", "İstanbul", "ΣΊΣΥΦΟΣ"} {
		assert.Len(t, Fold(s), utf8.RuneCountInString(s), "input %q", s)
	}
	assert.Equal(t, []rune("new chat"), Fold("New CHAT"))
}
