// Package reconcile merges a freshly generated TWL table with a
// user-supplied existing dataset. Every existing row survives the merge,
// either overwriting its exact generated counterpart or inserted verbatim,
// and rows sourced from the existing set are marked in a trailing
// "Already Exists" provenance column.
package reconcile

import (
	"github.com/scripturetools/twlforge/core/errors"
	"github.com/scripturetools/twlforge/core/reference"
	"github.com/scripturetools/twlforge/core/tsv"
)

// coreWidth is the number of leading columns an existing row overwrites in
// its matched generated row: Reference, ID, Tags, OrigWords, Occurrence,
// TWLink.
const coreWidth = 6

// provenanceMark is the Already Exists cell value for rows sourced from or
// matched against the existing dataset.
const provenanceMark = "x"

// Merge reconciles a generated table with raw existing TSV text and returns
// a new reference-ordered table. Neither input is mutated.
//
// Preconditions: the generated table carries a header and its rows are
// sorted by reference key; the existing text is likewise reference-sorted.
// Whether the existing text carries its own header is autodetected.
//
// When the existing set is non-empty an Already Exists column is appended to
// every output row; an empty existing set leaves the schema unchanged. This
// shape branch is deliberate and callers must expect both forms.
func Merge(generated *tsv.Table, existingText string) (*tsv.Table, error) {
	if generated.Width() == 0 {
		return nil, errors.NewSchema("", "generated table has no header")
	}

	existing := tsv.Parse(existingText, tsv.HasHeaderRow(existingText))
	width := generated.Width()
	withProvenance := len(existing.Rows) > 0

	out := make([][]string, 0, len(generated.Rows)+len(existing.Rows))
	gen := generated.Rows
	gi := 0

	for _, ex := range existing.Rows {
		exRef := tsv.CellAt(ex, 0)

		// Flush generated rows strictly before this existing row.
		for gi < len(gen) && reference.Less(tsv.CellAt(gen[gi], 0), exRef) {
			out = append(out, padRow(gen[gi], width, withProvenance, ""))
			gi++
		}

		// Look for an exact match inside the equal-key run, without
		// consuming anything yet.
		match := -1
		for j := gi; j < len(gen) && reference.Equal(tsv.CellAt(gen[j], 0), exRef); j++ {
			if tsv.RowMatchKey(gen[j]) == tsv.RowMatchKey(ex) {
				match = j
				break
			}
		}

		if match < 0 {
			// No generated counterpart: the existing row (often a manually
			// added link) is inserted as-is, padded to the generated width.
			// Unmatched generated rows at this key stay queued.
			out = append(out, padRow(ex, width, withProvenance, provenanceMark))
			continue
		}

		// Flush the generated rows preceding the match, then emit the
		// merged row: existing core columns over generated extension
		// columns, so hand-edits survive while machine-derived enrichment
		// is carried forward.
		for ; gi < match; gi++ {
			out = append(out, padRow(gen[gi], width, withProvenance, ""))
		}
		merged := make([]string, width, width+1)
		for i := 0; i < width; i++ {
			if i < coreWidth {
				merged[i] = tsv.CellAt(ex, i)
			} else {
				merged[i] = tsv.CellAt(gen[gi], i)
			}
		}
		if withProvenance {
			merged = append(merged, provenanceMark)
		}
		out = append(out, merged)
		gi++
	}

	// Remaining generated rows are generated-only.
	for ; gi < len(gen); gi++ {
		out = append(out, padRow(gen[gi], width, withProvenance, ""))
	}

	headers := make([]string, width, width+1)
	copy(headers, generated.Headers)
	if withProvenance {
		headers = append(headers, tsv.ColAlreadyExists)
	}
	return tsv.New(headers, out), nil
}

// padRow copies row resized to width, appending the provenance cell when the
// output schema carries one.
func padRow(row []string, width int, withProvenance bool, mark string) []string {
	out := make([]string, width, width+1)
	for i := 0; i < width; i++ {
		out[i] = tsv.CellAt(row, i)
	}
	if withProvenance {
		out = append(out, mark)
	}
	return out
}
