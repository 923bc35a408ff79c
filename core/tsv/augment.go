package tsv

import (
	"github.com/scripturetools/twlforge/core/errors"
)

// AddDerivedColumns inserts the GLQuote and GLOccurrence columns immediately
// after TWLink: GLQuote starts as a copy of OrigWords and GLOccurrence as a
// copy of Occurrence, giving the gateway-language editor a starting point in
// every row. The insertion is positional and applies to the header and every
// row, so generated and existing tables augmented independently end up with
// compatible layouts.
//
// Returns a *errors.SchemaError when OrigWords, Occurrence or TWLink is
// absent, and also when GLQuote or GLOccurrence is already present: a second
// augmentation must be rejected, never silently duplicated.
func AddDerivedColumns(t *Table) (*Table, error) {
	orig := t.ColumnIndex(ColOrigWords)
	occ := t.ColumnIndex(ColOccurrence)
	tw := t.ColumnIndex(ColTWLink)

	switch {
	case orig < 0:
		return nil, errors.NewSchema(ColOrigWords, "column missing")
	case occ < 0:
		return nil, errors.NewSchema(ColOccurrence, "column missing")
	case tw < 0:
		return nil, errors.NewSchema(ColTWLink, "column missing")
	}
	if t.ColumnIndex(ColGLQuote) >= 0 || t.ColumnIndex(ColGLOccurrence) >= 0 {
		return nil, errors.NewSchema(ColGLQuote, "table already augmented")
	}

	headers := insertAfter(t.Headers, tw, ColGLQuote, ColGLOccurrence)

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		padded := make([]string, tw+1)
		for j := range padded {
			padded[j] = CellAt(row, j)
		}
		out := append(padded, CellAt(row, orig), CellAt(row, occ))
		if len(row) > tw+1 {
			out = append(out, row[tw+1:]...)
		}
		rows[i] = out
	}

	return New(headers, rows), nil
}

// insertAfter returns a copy of items with extra values spliced in directly
// after position i.
func insertAfter(items []string, i int, extra ...string) []string {
	out := make([]string, 0, len(items)+len(extra))
	out = append(out, items[:i+1]...)
	out = append(out, extra...)
	out = append(out, items[i+1:]...)
	return out
}
