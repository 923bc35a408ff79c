// Package tsv implements the tab-separated Translation Word Link table
// format: parsing, schema validation, column normalization, and the derived
// GLQuote/GLOccurrence column insertion.
//
// A TWL table carries six core columns in fixed order (Reference, ID, Tags,
// OrigWords, Occurrence, TWLink) followed by optional extension columns.
// Rows may carry fewer cells than the header has columns; missing trailing
// cells read as empty strings.
package tsv

import (
	"strings"
)

// Core and extension column names, in their canonical order.
const (
	ColReference      = "Reference"
	ColID             = "ID"
	ColTags           = "Tags"
	ColOrigWords      = "OrigWords"
	ColOccurrence     = "Occurrence"
	ColTWLink         = "TWLink"
	ColGLQuote        = "GLQuote"
	ColGLOccurrence   = "GLOccurrence"
	ColDisambiguation = "Disambiguation"
	ColContext        = "Context"
	ColAlreadyExists  = "Already Exists"
)

// CoreHeaders returns the six mandatory TWL columns in fixed order.
func CoreHeaders() []string {
	return []string{ColReference, ColID, ColTags, ColOrigWords, ColOccurrence, ColTWLink}
}

// Table is an ordered set of column names plus an ordered set of rows.
// Headers is nil for headerless documents; such tables are accessed
// positionally using the core column layout.
type Table struct {
	Headers []string
	Rows    [][]string

	index map[string]int
}

// New creates a Table and builds its header-to-index map once, so later
// column lookups are map hits instead of repeated linear scans.
func New(headers []string, rows [][]string) *Table {
	t := &Table{Headers: headers, Rows: rows}
	if len(headers) > 0 {
		t.index = make(map[string]int, len(headers))
		for i, h := range headers {
			if _, dup := t.index[h]; !dup {
				t.index[h] = i
			}
		}
	}
	return t
}

// Width returns the number of columns the table's header allows.
func (t *Table) Width() int {
	return len(t.Headers)
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Cell returns the named column's value in the given row, or "" when the
// column is absent or the row is too short to reach it.
func (t *Table) Cell(row []string, name string) string {
	i := t.ColumnIndex(name)
	if i < 0 {
		return ""
	}
	return CellAt(row, i)
}

// CellAt returns row[i], treating cells past the end of a short row as empty.
func CellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// MatchKey identifies a row for exact-match detection between generated and
// existing tables: the Reference, OrigWords and Occurrence cells.
type MatchKey struct {
	Reference  string
	OrigWords  string
	Occurrence string
}

// RowMatchKey derives the MatchKey from a row using the core column layout.
func RowMatchKey(row []string) MatchKey {
	return MatchKey{
		Reference:  CellAt(row, 0),
		OrigWords:  CellAt(row, 3),
		Occurrence: CellAt(row, 4),
	}
}

// Parse splits TSV text into a Table. Empty lines are skipped. When
// hasHeader is false every non-empty line becomes a data row and Headers is
// left nil.
func Parse(text string, hasHeader bool) *Table {
	lines := splitLines(text)

	var headers []string
	if hasHeader && len(lines) > 0 {
		headers = strings.Split(lines[0], "\t")
		lines = lines[1:]
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, strings.Split(line, "\t"))
	}
	return New(headers, rows)
}

// HasHeaderRow reports whether the first non-empty line of text looks like a
// TWL header: its first three columns are Reference, ID, Tags. Used to
// autodetect whether a pasted or uploaded existing document carries its own
// header.
func HasHeaderRow(text string) bool {
	lines := splitLines(text)
	if len(lines) == 0 {
		return false
	}
	cols := strings.Split(lines[0], "\t")
	return CellAt(cols, 0) == ColReference &&
		CellAt(cols, 1) == ColID &&
		CellAt(cols, 2) == ColTags
}

// Format serializes the table back to TSV text: header line first when
// present, rows joined with newlines.
func (t *Table) Format() string {
	var sb strings.Builder
	if len(t.Headers) > 0 {
		sb.WriteString(strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Join(row, "\t"))
	}
	return sb.String()
}

// splitLines splits text on newlines, dropping empty lines. Carriage
// returns from Windows-edited documents are stripped.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
