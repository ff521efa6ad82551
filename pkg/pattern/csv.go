package pattern

import (
	"fmt"
	"strings"
)

// ParseError describes a CSV pattern that could not be parsed. Row and
// Column are 1-based; 0 means the error is not tied to a position.
type ParseError struct {
	Row    int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Row > 0 && e.Column > 0 {
		return fmt.Sprintf("parse pattern: row %d, column %d: %s", e.Row, e.Column, e.Msg)
	}
	if e.Row > 0 {
		return fmt.Sprintf("parse pattern: row %d: %s", e.Row, e.Msg)
	}
	return fmt.Sprintf("parse pattern: %s", e.Msg)
}

// ParseCSV decodes a comma-separated boolean grid into a pattern.
// Accepted cell tokens, case-insensitively: true/false, 1/0, yes/no.
// Whitespace around tokens is ignored. Every row must have the same
// number of columns. Trailing blank lines are tolerated.
func ParseCSV(text string) (*Pattern, error) {
	rows := splitRows(text)
	if len(rows) == 0 {
		return nil, &ParseError{Msg: "empty input"}
	}
	if len(rows) > MaxDimension {
		return nil, &ParseError{Msg: fmt.Sprintf("%d rows exceeds maximum %d", len(rows), MaxDimension)}
	}

	width := 0
	var cells []bool
	for i, row := range rows {
		tokens := strings.Split(row, ",")
		if i == 0 {
			width = len(tokens)
			if width > MaxDimension {
				return nil, &ParseError{Row: 1, Msg: fmt.Sprintf("%d columns exceeds maximum %d", width, MaxDimension)}
			}
			cells = make([]bool, 0, width*len(rows))
		} else if len(tokens) != width {
			return nil, &ParseError{
				Row: i + 1,
				Msg: fmt.Sprintf("has %d columns, expected %d", len(tokens), width),
			}
		}
		for j, tok := range tokens {
			v, ok := parseCell(tok)
			if !ok {
				return nil, &ParseError{
					Row:    i + 1,
					Column: j + 1,
					Msg:    fmt.Sprintf("invalid cell value %q", strings.TrimSpace(tok)),
				}
			}
			cells = append(cells, v)
		}
	}

	return New(width, len(rows), cells, Meta{Source: SourceCSV})
}

// ExportCSV encodes a pattern as CSV using canonical true/false tokens.
// The output round-trips through ParseCSV.
func ExportCSV(p *Pattern) string {
	var b strings.Builder
	b.Grow(p.width*p.height*6 + p.height)
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			if x > 0 {
				b.WriteByte(',')
			}
			if p.cells[y*p.width+x] {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// splitRows normalizes line endings and strips trailing blank lines.
// Blank lines between data rows are kept so they fail validation with
// a useful position.
func splitRows(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	rows := strings.Split(text, "\n")
	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func parseCell(tok string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	default:
		return false, false
	}
}
