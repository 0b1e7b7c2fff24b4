package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	cmdlog "github.com/runger/cmdpal/internal/log"
	"github.com/runger/cmdpal/internal/palette"
	"github.com/runger/cmdpal/internal/picker"
)

var (
	searchJSON     bool
	searchExplain  bool
	searchLimit    int
	searchCategory string
	searchRecent   []string
)

var searchCmd = &cobra.Command{
	Use:     "search [query]",
	Short:   "Rank catalog commands against a query",
	GroupID: groupCore,
	Long: `Rank the commands in the catalog against a query and print the best
matches, best first.

A command matches on its label (fuzzy, matched characters highlighted), its
category (substring) or its ID (substring). Recently used commands are
boosted. With no query every command is printed in catalog order.

Examples:
  cmdpal search nc                          # Fuzzy match labels
  cmdpal search --json settings             # Output as JSON
  cmdpal search --recent chat.new conv      # Treat chat.new as just used
  cmdpal search --category Chat --explain`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchExplain, "explain", false, "show tier, score and recency boost per result")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default search.max_results)")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "only rank commands in this category")
	searchCmd.Flags().StringSliceVar(&searchRecent, "recent", nil, "recently used command IDs, most recent first")
	searchCmd.Flags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")

	rootCmd.AddCommand(searchCmd)
}

type searchOutput struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category,omitempty"`
	Score    int    `json:"score"`
	Tier     string `json:"tier"`
	Boost    int    `json:"boost,omitempty"`
	Indices  []int  `json:"indices,omitempty"`
}

type searchResponse struct {
	Query     string         `json:"query"`
	Results   []searchOutput `json:"results"`
	Total     int            `json:"total"`
	Truncated bool           `json:"truncated"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	applyColorMode()

	var query string
	if len(args) > 0 {
		query = args[0]
	}

	s, err := openSession("search")
	if err != nil {
		return err
	}
	defer s.Close()

	cat, recent, err := s.loadCatalog()
	if err != nil {
		return err
	}
	if len(searchRecent) > 0 {
		recent = append(append([]string{}, searchRecent...), recent...)
	}

	pool := sanitizeCandidates(palette.FilterCategory(cat.Commands, searchCategory))

	start := time.Now()
	results := palette.Search(pool, query, recent)
	cmdlog.LogSearch(s.logger, utf8.RuneCountInString(query), len(pool), len(results), time.Since(start))

	limit := searchLimit
	if limit <= 0 {
		limit = s.cfg.Search.MaxResults
	}
	total := len(results)
	results = palette.Limit(results, limit)

	out := cmd.OutOrStdout()
	if searchJSON {
		return writeSearchJSON(out, query, results, total)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No matching commands.")
		return nil
	}
	writeSearchText(out, results, termWidth(), searchExplain)
	return nil
}

// sanitizeCandidates strips escapes and control characters from labels so
// match indices refer to the printed text.
func sanitizeCandidates(cands []palette.Candidate) []palette.Candidate {
	out := make([]palette.Candidate, len(cands))
	for i, c := range cands {
		out[i] = palette.Candidate{
			ID:       c.ID,
			Label:    picker.SanitizeLabel(c.Label),
			Category: picker.SanitizeLabel(c.Category),
		}
	}
	return out
}

// minSearchLabelWidth is the narrowest a label is truncated to before the
// category column is dropped.
const minSearchLabelWidth = 10

// writeSearchText prints one line per result. When width is positive the
// label is middle-truncated so that the whole line, suffix included, fits.
func writeSearchText(w io.Writer, results []palette.MatchResult, width int, explain bool) {
	for _, r := range results {
		category := ""
		if r.Candidate.Category != "" {
			category = "  " + r.Candidate.Category
		}
		id := "  (" + r.Candidate.ID + ")"
		why := ""
		if explain {
			why = fmt.Sprintf("  [%s score=%d boost=%d]", r.Tier, r.Score, r.Boost)
		}

		label, indices := r.Candidate.Label, r.Indices
		if width > 0 {
			avail := width - runewidth.StringWidth(id+why)
			if catWidth := runewidth.StringWidth(category); avail-catWidth >= minSearchLabelWidth || picker.Fits(label, avail-catWidth) {
				avail -= catWidth
			} else {
				category = ""
			}
			label, indices = picker.MiddleTruncateIndices(label, indices, max(avail, minSearchLabelWidth))
		}

		var b strings.Builder
		b.WriteString(picker.Highlight(label, indices, plainStyle, matchStyle))
		if category != "" {
			b.WriteString(dimStyle.Render(category))
		}
		b.WriteString(dimStyle.Render(id))
		if why != "" {
			b.WriteString(keyStyle.Render(why))
		}
		fmt.Fprintln(w, b.String())
	}
}

func writeSearchJSON(w io.Writer, query string, results []palette.MatchResult, total int) error {
	output := make([]searchOutput, len(results))
	for i, r := range results {
		output[i] = searchOutput{
			ID:       r.Candidate.ID,
			Label:    r.Candidate.Label,
			Category: r.Candidate.Category,
			Score:    r.Score,
			Tier:     r.Tier.String(),
			Boost:    r.Boost,
			Indices:  r.Indices,
		}
	}

	resp := searchResponse{
		Query:     query,
		Results:   output,
		Total:     total,
		Truncated: len(output) < total,
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}
