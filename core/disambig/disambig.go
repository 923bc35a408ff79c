// Package disambig parses manual disambiguation cells of TWL tables and
// computes the rewrites available when a translator picks a different
// dictionary link for the same word occurrence.
//
// A disambiguation cell has the form:
//
//	manual:option1 (1:other/time, 2:other/age-timeperiod)
//
// naming the currently selected option and the full candidate list.
package disambig

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// linkPrefix is the resource-container path every Translation Words link
// shares; the option path is appended to it.
const linkPrefix = "rc://*/tw/dict/bible/"

// cellPattern matches the envelope of a disambiguation cell: the selected
// option number and the parenthesized option list.
var cellPattern = regexp.MustCompile(`^manual:option(\d+)\s*\(([^)]+)\)$`)

// Option is one candidate dictionary link in a disambiguation cell.
type Option struct {
	Number int
	Path   string // dictionary path, e.g. "other/age-timeperiod"
}

// Label returns the option as it appears in the cell's option list.
func (o Option) Label() string {
	return strconv.Itoa(o.Number) + ":" + o.Path
}

// Link returns the full TWLink value selecting this option would produce.
func (o Option) Link() string {
	return linkPrefix + o.Path
}

// Alternative is a sibling option together with the cell rewrite choosing it
// would produce.
type Alternative struct {
	Option Option
	Cell   string // replacement Disambiguation cell text
	Link   string // replacement TWLink value
}

// Resolution is the parsed form of a disambiguation cell.
type Resolution struct {
	// Current labels the selected option ("manual:option1"), or echoes the
	// raw cell text when the cell does not parse.
	Current string

	// Alternatives lists the sibling options in cell order, excluding the
	// current selection. Empty for unparsable cells.
	Alternatives []Alternative
}

// optionListGrammar is the participle grammar for the comma-separated
// "N:path" list inside the parentheses.
type optionListGrammar struct {
	Options []optionPart `parser:"@@ ( \",\" @@ )*"`
}

type optionPart struct {
	Number int    `parser:"@Int \":\""`
	Path   string `parser:"@(Word (\"/\" Word)*)"`
}

var optionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[a-z][a-z0-9_-]*`},
	{Name: "Punct", Pattern: `[:,/]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var optionParser = participle.MustBuild[optionListGrammar](
	participle.Lexer(optionLexer),
	participle.Elide("Whitespace"),
)

// Resolve parses a disambiguation cell into the current selection and the
// rewrites switching to each sibling option would produce. It is total: a
// cell not matching the format yields the raw text as Current and no
// alternatives, never an error.
func Resolve(cell string) Resolution {
	cell = strings.TrimSpace(cell)

	m := cellPattern.FindStringSubmatch(cell)
	if m == nil {
		return Resolution{Current: cell}
	}

	current, err := strconv.Atoi(m[1])
	if err != nil {
		return Resolution{Current: cell}
	}

	parsed, err := optionParser.ParseString("", m[2])
	if err != nil {
		return Resolution{Current: cell}
	}

	options := make([]Option, len(parsed.Options))
	for i, p := range parsed.Options {
		options[i] = Option{Number: p.Number, Path: p.Path}
	}

	// The rewrite keeps the captured option list byte-for-byte; only the
	// selected option number changes. Re-serializing from the parsed form
	// would silently reformat a user's cell.
	res := Resolution{Current: "manual:option" + m[1]}
	for _, o := range options {
		if o.Number == current {
			continue
		}
		res.Alternatives = append(res.Alternatives, Alternative{
			Option: o,
			Cell:   fmt.Sprintf("manual:option%d (%s)", o.Number, m[2]),
			Link:   o.Link(),
		})
	}
	return res
}
