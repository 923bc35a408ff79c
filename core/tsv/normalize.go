package tsv

import (
	"strconv"
	"strings"

	"github.com/scripturetools/twlforge/core/errors"
)

// Validate checks TSV text against the expected core header columns. The
// header line's first len(expected) columns must equal expected positionally,
// and no data line may carry more columns than the header. Fewer columns is
// allowed and implies trailing blanks. A table with zero data lines is valid.
//
// Returns nil when valid, a *errors.SchemaError for a missing or misplaced
// core column, or a *errors.StructureError for an over-wide row.
func Validate(text string, expected []string) error {
	lines := splitLines(text)
	if len(lines) == 0 {
		return errors.NewSchema("", "document has no header line")
	}

	header := strings.Split(lines[0], "\t")
	if len(header) < len(expected) {
		return errors.NewSchema("", "header is missing core columns")
	}
	for i, want := range expected {
		if header[i] != want {
			return errors.NewSchema(want, "expected at column "+strconv.Itoa(i)+", found "+strconv.Quote(header[i]))
		}
	}

	for n, line := range lines[1:] {
		cells := strings.Split(line, "\t")
		if len(cells) > len(header) {
			return errors.NewStructure(n+2, len(cells), len(header))
		}
	}
	return nil
}

// IsValid is the boolean convenience form of Validate.
func IsValid(text string, expected []string) bool {
	return Validate(text, expected) == nil
}

// NormalizeColumnCount rewrites TSV text so every data row has exactly as
// many columns as the header: short rows are padded with empty strings, long
// rows are truncated. This must run before any positional assumption (such
// as a fixed TWLink index) is relied on.
func NormalizeColumnCount(text string) string {
	lines := splitLines(text)
	if len(lines) == 0 {
		return ""
	}

	width := len(strings.Split(lines[0], "\t"))
	out := make([]string, 0, len(lines))
	out = append(out, lines[0])
	for _, line := range lines[1:] {
		cells := strings.Split(line, "\t")
		for len(cells) < width {
			cells = append(cells, "")
		}
		cells = cells[:width]
		out = append(out, strings.Join(cells, "\t"))
	}
	return strings.Join(out, "\n")
}
