// Package usx extracts verse text from USX scripture documents. The output
// feeds the term-link generator, which consumes plain source text plus the
// list of verse references it covers.
package usx

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/scripturetools/twlforge/core/errors"
	"github.com/scripturetools/twlforge/core/reference"
)

// Verse is one verse's accumulated text.
type Verse struct {
	Chapter int
	Verse   int
	Text    string
}

// Ref returns the verse's "chapter:verse" reference.
func (v Verse) Ref() string {
	return reference.Key{Chapter: v.Chapter, Verse: v.Verse}.String()
}

// Book is a parsed USX book: its code (e.g. "TIT") and verses in document
// order.
type Book struct {
	Code   string
	Verses []Verse
}

// ParseBook parses a USX document and collects per-verse text. Footnotes and
// cross-reference notes are excluded; character markup is flattened into the
// surrounding verse text.
func ParseBook(data []byte) (*Book, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParse("USX", err.Error())
	}

	book := &Book{}
	if node := queryOne(root, "//book/@code"); node != nil {
		book.Code = node.InnerText()
	}

	var (
		chapter int
		verse   int
		text    strings.Builder
	)
	flush := func() {
		s := strings.Join(strings.Fields(text.String()), " ")
		text.Reset()
		if chapter == 0 || verse == 0 || s == "" {
			return
		}
		book.Verses = append(book.Verses, Verse{Chapter: chapter, Verse: verse, Text: s})
	}

	var walk func(n *xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			switch child.Type {
			case xmlquery.ElementNode:
				switch child.Data {
				case "chapter":
					if num := child.SelectAttr("number"); num != "" {
						flush()
						chapter, _ = strconv.Atoi(num)
						verse = 0
					}
				case "verse":
					if num := child.SelectAttr("number"); num != "" {
						flush()
						verse, _ = strconv.Atoi(num)
					}
				case "note":
					// Footnote content is not source text.
				default:
					walk(child)
				}
			case xmlquery.TextNode:
				text.WriteString(child.Data)
			}
		}
	}
	walk(root)
	flush()

	if len(book.Verses) == 0 {
		return nil, errors.NewParse("USX", "document contains no verse text")
	}
	return book, nil
}

// SourceText returns the whole book's text, one verse per line, the form the
// term-link generator consumes.
func (b *Book) SourceText() string {
	lines := make([]string, len(b.Verses))
	for i, v := range b.Verses {
		lines[i] = v.Text
	}
	return strings.Join(lines, "\n")
}

// References returns the "chapter:verse" reference of every verse, in
// document order, the form the quote localizer consumes.
func (b *Book) References() []string {
	refs := make([]string, len(b.Verses))
	for i, v := range b.Verses {
		refs[i] = v.Ref()
	}
	return refs
}

// queryOne runs an XPath expression and returns the first match, or nil.
// The expression is compiled first so malformed queries fail loudly during
// development instead of silently matching nothing.
func queryOne(root *xmlquery.Node, expr string) *xmlquery.Node {
	if _, err := xpath.Compile(expr); err != nil {
		return nil
	}
	nodes, err := xmlquery.QueryAll(root, expr)
	if err != nil || len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}
