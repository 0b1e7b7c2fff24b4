package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"github.com/runger/cmdpal/internal/palette"
)

// recentDirective starts a line listing recently used IDs in the text format.
const recentDirective = "@recent"

// parseText reads the line-oriented catalog format:
//
//	# comment
//	chat.new "New Conversation" Chat
//	view.sidebar 'Toggle Sidebar'
//	@recent chat.new view.sidebar
//
// Fields are split with shell quoting rules. The category is optional.
func parseText(r io.Reader) (*Catalog, error) {
	cat := &Catalog{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(fields) == 0 {
			continue
		}

		if fields[0] == recentDirective {
			cat.Recent = append(cat.Recent, fields[1:]...)
			continue
		}

		switch len(fields) {
		case 2:
			cat.Commands = append(cat.Commands, palette.Candidate{ID: fields[0], Label: fields[1]})
		case 3:
			cat.Commands = append(cat.Commands, palette.Candidate{ID: fields[0], Label: fields[1], Category: fields[2]})
		default:
			return nil, fmt.Errorf("line %d: want 2 or 3 fields (id label [category]), got %d", lineNo, len(fields))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return cat, nil
}
