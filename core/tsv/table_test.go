package tsv

import (
	"strings"
	"testing"
)

const sampleHeader = "Reference\tID\tTags\tOrigWords\tOccurrence\tTWLink"

func TestParseWithHeader(t *testing.T) {
	text := sampleHeader + "\n" +
		"1:1\tabcd\tkeyterm\tθεός\t1\trc://*/tw/dict/bible/kt/god\n" +
		"\n" +
		"1:2\tefgh\t\tλόγος\t1\trc://*/tw/dict/bible/kt/word\n"

	table := Parse(text, true)
	if got := table.Width(); got != 6 {
		t.Fatalf("Width() = %d, want 6", got)
	}
	if got := len(table.Rows); got != 2 {
		t.Fatalf("len(Rows) = %d, want 2 (empty line skipped)", got)
	}
	if got := table.Cell(table.Rows[0], ColOrigWords); got != "θεός" {
		t.Errorf("Cell(OrigWords) = %q, want %q", got, "θεός")
	}
	if got := table.Cell(table.Rows[1], ColTags); got != "" {
		t.Errorf("Cell(Tags) = %q, want empty", got)
	}
}

func TestParseHeaderless(t *testing.T) {
	table := Parse("1:1\tabcd\t\tθεός\t1\trc://*/tw/dict/bible/kt/god", false)
	if table.Headers != nil {
		t.Errorf("Headers = %v, want nil", table.Headers)
	}
	if got := len(table.Rows); got != 1 {
		t.Fatalf("len(Rows) = %d, want 1", got)
	}
}

func TestParseStripsCarriageReturns(t *testing.T) {
	table := Parse(sampleHeader+"\r\n1:1\tabcd\t\tword\t1\tlink\r\n", true)
	if got := table.Headers[5]; got != ColTWLink {
		t.Errorf("Headers[5] = %q, want %q", got, ColTWLink)
	}
	if got := table.Rows[0][5]; got != "link" {
		t.Errorf("Rows[0][5] = %q, want %q", got, "link")
	}
}

func TestCellShortRow(t *testing.T) {
	table := New(CoreHeaders(), [][]string{{"1:1", "abcd"}})
	if got := table.Cell(table.Rows[0], ColTWLink); got != "" {
		t.Errorf("Cell(TWLink) on short row = %q, want empty", got)
	}
	if got := table.Cell(table.Rows[0], "NoSuchColumn"); got != "" {
		t.Errorf(`Cell("NoSuchColumn") = %q, want empty`, got)
	}
}

func TestColumnIndex(t *testing.T) {
	table := New(CoreHeaders(), nil)
	tests := []struct {
		name string
		want int
	}{
		{ColReference, 0},
		{ColID, 1},
		{ColTags, 2},
		{ColOrigWords, 3},
		{ColOccurrence, 4},
		{ColTWLink, 5},
		{ColGLQuote, -1},
	}
	for _, tt := range tests {
		if got := table.ColumnIndex(tt.name); got != tt.want {
			t.Errorf("ColumnIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestRowMatchKey(t *testing.T) {
	row := []string{"1:3", "abcd", "", "λόγος", "1", "rc://*/tw/dict/bible/kt/word"}
	want := MatchKey{Reference: "1:3", OrigWords: "λόγος", Occurrence: "1"}
	if got := RowMatchKey(row); got != want {
		t.Errorf("RowMatchKey() = %v, want %v", got, want)
	}

	// Short rows degrade to empty components instead of panicking.
	if got := RowMatchKey([]string{"1:3"}); got.OrigWords != "" || got.Occurrence != "" {
		t.Errorf("RowMatchKey(short) = %v, want empty OrigWords/Occurrence", got)
	}
}

func TestHasHeaderRow(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"core header", sampleHeader + "\n1:1\tabcd", true},
		{"header with extensions", sampleHeader + "\tGLQuote\tGLOccurrence", true},
		{"data first", "1:1\tabcd\t\tword\t1\tlink", false},
		{"empty", "", false},
		{"leading blank line", "\n" + sampleHeader, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasHeaderRow(tt.text); got != tt.want {
				t.Errorf("HasHeaderRow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	text := sampleHeader + "\n1:1\tabcd\t\tθεός\t1\trc://*/tw/dict/bible/kt/god"
	table := Parse(text, true)
	if got := table.Format(); got != text {
		t.Errorf("Format() = %q, want %q", got, text)
	}
}

func TestFormatHeaderless(t *testing.T) {
	table := New(nil, [][]string{{"1:1", "abcd"}, {"1:2", "efgh"}})
	want := "1:1\tabcd\n1:2\tefgh"
	if got := table.Format(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	if strings.HasSuffix(table.Format(), "\n") {
		t.Errorf("Format() ends with newline, want none")
	}
}
