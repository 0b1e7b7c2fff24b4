package picker

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	cmdlog "github.com/runger/cmdpal/internal/log"
	"github.com/runger/cmdpal/internal/palette"
)

// PaletteProvider implements Provider by ranking an in-memory candidate set
// with the palette engine. Every Fetch re-ranks from scratch.
type PaletteProvider struct {
	candidates []palette.Candidate
	recent     []string
	logger     *slog.Logger
}

// Compile-time check that PaletteProvider implements Provider.
var _ Provider = (*PaletteProvider)(nil)

// NewPaletteProvider creates a provider over candidates. Labels and
// categories are sanitized once here so that match highlights line up with
// what is drawn. recent is most-recent-first and is not modified.
func NewPaletteProvider(candidates []palette.Candidate, recent []string, logger *slog.Logger) *PaletteProvider {
	if logger == nil {
		logger = cmdlog.Discard()
	}
	clean := make([]palette.Candidate, len(candidates))
	for i, c := range candidates {
		clean[i] = palette.Candidate{
			ID:       c.ID,
			Label:    SanitizeLabel(c.Label),
			Category: SanitizeLabel(c.Category),
		}
	}
	return &PaletteProvider{
		candidates: clean,
		recent:     recent,
		logger:     logger,
	}
}

// Fetch ranks the candidates in the requested category and returns one page.
func (p *PaletteProvider) Fetch(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	start := time.Now()
	pool := palette.FilterCategory(p.candidates, req.Category)
	results := palette.Search(pool, req.Query, p.recent)
	cmdlog.LogSearch(p.logger, utf8.RuneCountInString(req.Query), len(pool), len(results), time.Since(start))

	offset := min(max(req.Offset, 0), len(results))
	end := len(results)
	if req.Limit > 0 && offset+req.Limit < end {
		end = offset + req.Limit
	}

	items := make([]Item, 0, end-offset)
	for _, r := range results[offset:end] {
		items = append(items, Item{
			ID:         r.Candidate.ID,
			Label:      r.Candidate.Label,
			Category:   r.Candidate.Category,
			Highlights: r.Indices,
			Score:      r.Score,
		})
	}

	return Response{
		RequestID: req.RequestID,
		Items:     items,
		AtEnd:     end == len(results),
	}, nil
}
