package reconcile

import (
	"context"
	"strings"

	"github.com/scripturetools/twlforge/core/errors"
	"github.com/scripturetools/twlforge/core/ids"
	"github.com/scripturetools/twlforge/core/tsv"
)

// Generator produces raw candidate TWL rows from source text. The real
// implementation is an external service; the core only consumes its TSV
// output, which must carry the six core columns with a header.
type Generator interface {
	Generate(ctx context.Context, sourceText string) (string, error)
}

// Localizer rewrites the quotes of a generated TWL document into the
// gateway language. It is schema-preserving and applied before
// reconciliation.
type Localizer interface {
	Localize(ctx context.Context, tsvText, bookID string, sourceRefs []string) (string, error)
}

// PassthroughGenerator is the default Generator. It performs no term
// linking of its own: source text that already is a TWL document passes
// through unchanged, and anything else yields a header-only document,
// leaving candidate generation to the external service. With it the
// pipeline is runnable end to end without any remote collaborator.
type PassthroughGenerator struct{}

// Generate implements Generator.
func (PassthroughGenerator) Generate(_ context.Context, sourceText string) (string, error) {
	if tsv.HasHeaderRow(sourceText) {
		return sourceText, nil
	}
	return strings.Join(tsv.CoreHeaders(), "\t"), nil
}

// Pipeline runs the full preparation flow over generated TSV text: schema
// validation, column normalization, derived-column insertion, ID
// reassignment, and the merge against the existing dataset.
type Pipeline struct {
	Generator Generator
	Localizer Localizer
	IDs       *ids.Assigner
}

// NewPipeline creates a Pipeline with a fresh ID assigner. Generator and
// Localizer may be left nil: Run falls back to PassthroughGenerator and
// skips localization.
func NewPipeline() *Pipeline {
	return &Pipeline{IDs: ids.New()}
}

// Run generates candidate rows from source text, localizes them, and
// reconciles the result with the existing dataset. The generator and
// localizer collaborators are invoked first; everything after them is pure
// CPU-bound processing.
func (p *Pipeline) Run(ctx context.Context, sourceText, bookID string, sourceRefs []string, existingText string) (*tsv.Table, error) {
	gen := p.Generator
	if gen == nil {
		gen = PassthroughGenerator{}
	}

	generated, err := gen.Generate(ctx, sourceText)
	if err != nil {
		return nil, errors.Wrap(err, "generating links")
	}
	if p.Localizer != nil {
		generated, err = p.Localizer.Localize(ctx, generated, bookID, sourceRefs)
		if err != nil {
			return nil, errors.Wrap(err, "localizing quotes")
		}
	}
	return p.Reconcile(generated, existingText)
}

// Reconcile prepares already-generated TSV text and merges it with the
// existing dataset: validate, normalize column counts, insert derived
// columns, reassign IDs, merge.
func (p *Pipeline) Reconcile(generatedText, existingText string) (*tsv.Table, error) {
	if err := tsv.Validate(generatedText, tsv.CoreHeaders()); err != nil {
		return nil, errors.Wrap(err, "generated document")
	}
	if tsv.HasHeaderRow(existingText) {
		if err := tsv.Validate(existingText, tsv.CoreHeaders()); err != nil {
			return nil, errors.Wrap(err, "existing document")
		}
	}

	table := tsv.Parse(tsv.NormalizeColumnCount(generatedText), true)

	table, err := tsv.AddDerivedColumns(table)
	if err != nil {
		return nil, err
	}

	assigner := p.IDs
	if assigner == nil {
		assigner = ids.New()
	}
	table, err = assigner.Reassign(table)
	if err != nil {
		return nil, err
	}

	return Merge(table, existingText)
}
