package reconcile

import (
	"context"
	"strings"
	"testing"

	"github.com/scripturetools/twlforge/core/errors"
	"github.com/scripturetools/twlforge/core/ids"
	"github.com/scripturetools/twlforge/core/tsv"
)

const generatedDoc = "Reference\tID\tTags\tOrigWords\tOccurrence\tTWLink\n" +
	"1:1\tabcd\t\tθεός\t1\trc://*/tw/dict/bible/kt/god\n" +
	"1:3\tefgh\t\tλόγος\t1\trc://*/tw/dict/bible/kt/word"

// staticGenerator returns a fixed TSV document regardless of source text.
type staticGenerator struct {
	doc string
	err error
}

func (g staticGenerator) Generate(_ context.Context, _ string) (string, error) {
	return g.doc, g.err
}

// passLocalizer is a schema-preserving localizer that leaves quotes as-is.
type passLocalizer struct{}

func (passLocalizer) Localize(_ context.Context, tsvText, _ string, _ []string) (string, error) {
	return tsvText, nil
}

func TestPipelineReconcile(t *testing.T) {
	existing := "1:3\txyz1\tkeyterm\tλόγος\t1\trc://*/tw/dict/bible/kt/word"

	out, err := NewPipeline().Reconcile(generatedDoc, existing)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	// Augmentation ran: derived columns sit after TWLink.
	if got := out.ColumnIndex(tsv.ColGLQuote); got != 6 {
		t.Errorf("GLQuote index = %d, want 6", got)
	}
	if got := out.ColumnIndex(tsv.ColAlreadyExists); got != len(out.Headers)-1 {
		t.Errorf("Already Exists index = %d, want last", got)
	}

	if len(out.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(out.Rows))
	}

	// 1:1 is generated-only; 1:3 merged with the existing hand-edit, its
	// GLQuote carried over from the generated enrichment.
	first, second := out.Rows[0], out.Rows[1]
	if first[0] != "1:1" || first[len(first)-1] != "" {
		t.Errorf("Rows[0] = %v, want generated-only 1:1", first)
	}
	if second[1] != "xyz1" || second[2] != "keyterm" {
		t.Errorf("Rows[1] core cells = %v, want existing hand-edit preserved", second[:6])
	}
	if got := out.Cell(second, tsv.ColGLQuote); got != "λόγος" {
		t.Errorf("GLQuote = %q, want generated copy %q", got, "λόγος")
	}
	if second[len(second)-1] != "x" {
		t.Errorf("provenance = %q, want x", second[len(second)-1])
	}

	// Every ID in the output is format-valid.
	for i, row := range out.Rows {
		if !ids.IsValid(row[1]) {
			t.Errorf("Rows[%d] ID = %q, not format-valid", i, row[1])
		}
	}
}

func TestPipelineReconcileRejectsBadGenerated(t *testing.T) {
	_, err := NewPipeline().Reconcile("Reference\tTags\tID", "")
	if !errors.Is(err, errors.ErrInvalidSchema) {
		t.Fatalf("Reconcile() = %v, want SchemaError", err)
	}
}

func TestPipelineReconcileRejectsBadExisting(t *testing.T) {
	// Existing doc autodetects as having a header, then fails validation
	// because a row is wider than that header.
	existing := "Reference\tID\tTags\tOrigWords\tOccurrence\tTWLink\n" +
		"1:1\ta\tb\tc\td\te\tf\tg\th"
	_, err := NewPipeline().Reconcile(generatedDoc, existing)
	if !errors.Is(err, errors.ErrInvalidStructure) {
		t.Fatalf("Reconcile() = %v, want StructureError", err)
	}
}

func TestPipelineReconcileNormalizesRaggedRows(t *testing.T) {
	ragged := "Reference\tID\tTags\tOrigWords\tOccurrence\tTWLink\n" +
		"1:1\tabcd" // short row, padded before augmentation
	out, err := NewPipeline().Reconcile(ragged, "")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if got, want := len(out.Rows[0]), 8; got != want {
		t.Errorf("row width = %d, want %d", got, want)
	}
}

func TestPipelineRun(t *testing.T) {
	p := NewPipeline()
	p.Generator = staticGenerator{doc: generatedDoc}
	p.Localizer = passLocalizer{}

	out, err := p.Run(context.Background(), "source text", "tit", nil, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(out.Rows))
	}
	if strings.Contains(out.Format(), tsv.ColAlreadyExists) {
		t.Errorf("Already Exists emitted for empty existing set")
	}
}

func TestPassthroughGenerator(t *testing.T) {
	gen := PassthroughGenerator{}

	// TWL text passes through unchanged.
	doc, err := gen.Generate(context.Background(), generatedDoc)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if doc != generatedDoc {
		t.Errorf("Generate(tsv) = %q, want input unchanged", doc)
	}

	// Anything else yields a header-only document: candidate generation
	// belongs to the external service.
	doc, err = gen.Generate(context.Background(), "Παῦλος δοῦλος θεοῦ")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if doc != strings.Join(tsv.CoreHeaders(), "\t") {
		t.Errorf("Generate(verse text) = %q, want core header only", doc)
	}
}

func TestPipelineRunDefaultsToPassthrough(t *testing.T) {
	existing := "1:1\txyz1\t\tθεός\t1\trc://*/tw/dict/bible/kt/god"

	out, err := NewPipeline().Run(context.Background(), generatedDoc, "tit", nil, existing)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(out.Rows))
	}
	if out.Rows[0][1] != "xyz1" {
		t.Errorf("Rows[0] ID = %q, want existing %q merged in", out.Rows[0][1], "xyz1")
	}
}

func TestPipelineRunNonTSVSource(t *testing.T) {
	// Verse text with the default generator produces an empty candidate
	// set; the existing dataset still survives the merge.
	existing := "1:1\txyz1\t\tθεός\t1\trc://*/tw/dict/bible/kt/god"

	out, err := NewPipeline().Run(context.Background(), "Παῦλος δοῦλος θεοῦ", "tit", []string{"1:1"}, existing)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(out.Rows))
	}
	if got := out.Rows[0][len(out.Rows[0])-1]; got != "x" {
		t.Errorf("provenance = %q, want x", got)
	}
}
