// Command twl is the CLI for producing Translation Word Link datasets.
// It validates, normalizes, augments and reconciles TWL TSV documents, and
// fetches source material from a DCS content server.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/scripturetools/twlforge/core/disambig"
	"github.com/scripturetools/twlforge/core/ids"
	"github.com/scripturetools/twlforge/core/reconcile"
	"github.com/scripturetools/twlforge/core/tsv"
	"github.com/scripturetools/twlforge/core/usx"
	"github.com/scripturetools/twlforge/internal/cache"
	"github.com/scripturetools/twlforge/internal/dcs"
	"github.com/scripturetools/twlforge/internal/logging"
	"github.com/scripturetools/twlforge/internal/store"
)

const version = "0.2.0"

// CLI defines the command-line interface for twl.
var CLI struct {
	// Global flags
	Server  string `name:"server" help:"DCS server base URL" default:""`
	DataDir string `name:"data-dir" help:"Local data directory for cache and review state" type:"path"`
	Verbose bool   `name:"verbose" short:"v" help:"Enable debug logging"`

	Validate  ValidateCmd  `cmd:"" help:"Validate a TWL document against the core schema"`
	Normalize NormalizeCmd `cmd:"" help:"Pad or truncate rows to the header's column count"`
	Augment   AugmentCmd   `cmd:"" help:"Insert GLQuote/GLOccurrence columns after TWLink"`
	IDs       IDsCmd       `cmd:"" name:"ids" help:"Reassign row identifiers"`
	Reconcile ReconcileCmd `cmd:"" help:"Merge a generated document with an existing dataset"`
	Generate  GenerateCmd  `cmd:"" help:"Run the full pipeline over USX source books"`
	Branches  BranchesCmd  `cmd:"" help:"List branches of a DCS repository"`
	Fetch     FetchCmd     `cmd:"" help:"Fetch a raw document from a DCS repository"`
	Resolve   ResolveCmd   `cmd:"" help:"Show the alternatives of a disambiguation cell"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

func dataDir() string {
	if CLI.DataDir != "" {
		return CLI.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".twlforge"
	}
	return filepath.Join(home, ".twlforge")
}

// ValidateCmd validates a document against the core TWL schema.
type ValidateCmd struct {
	Path string `arg:"" help:"TSV document to validate" type:"existingfile"`
}

func (c *ValidateCmd) Run() error {
	text, err := readFile(c.Path)
	if err != nil {
		return err
	}
	if err := tsv.Validate(text, tsv.CoreHeaders()); err != nil {
		return fmt.Errorf("%s: %w", c.Path, err)
	}
	fmt.Printf("%s: valid\n", c.Path)
	return nil
}

// NormalizeCmd pads or truncates every row to the header's column count.
type NormalizeCmd struct {
	Path string `arg:"" help:"TSV document to normalize" type:"existingfile"`
}

func (c *NormalizeCmd) Run() error {
	text, err := readFile(c.Path)
	if err != nil {
		return err
	}
	fmt.Println(tsv.NormalizeColumnCount(text))
	return nil
}

// AugmentCmd inserts the derived gateway-language columns.
type AugmentCmd struct {
	Path string `arg:"" help:"TSV document to augment" type:"existingfile"`
}

func (c *AugmentCmd) Run() error {
	text, err := readFile(c.Path)
	if err != nil {
		return err
	}
	if err := tsv.Validate(text, tsv.CoreHeaders()); err != nil {
		return err
	}
	table := tsv.Parse(tsv.NormalizeColumnCount(text), true)
	table, err = tsv.AddDerivedColumns(table)
	if err != nil {
		return err
	}
	fmt.Println(table.Format())
	return nil
}

// IDsCmd rewrites the ID column so every identifier is valid and unique.
type IDsCmd struct {
	Path string `arg:"" help:"TSV document to rewrite" type:"existingfile"`
}

func (c *IDsCmd) Run() error {
	text, err := readFile(c.Path)
	if err != nil {
		return err
	}
	table := tsv.Parse(tsv.NormalizeColumnCount(text), true)
	table, err = ids.New().Reassign(table)
	if err != nil {
		return err
	}
	fmt.Println(table.Format())
	return nil
}

// ReconcileCmd merges a generated document with an existing dataset.
type ReconcileCmd struct {
	Generated string `arg:"" help:"Generated TWL document" type:"existingfile"`
	Existing  string `arg:"" optional:"" help:"Existing TWL document (omit for none)" type:"existingfile"`
	Book      string `name:"book" help:"Book identifier for review-state markers (e.g. tit)"`
}

func (c *ReconcileCmd) Run() error {
	generated, err := readFile(c.Generated)
	if err != nil {
		return err
	}
	var existing string
	if c.Existing != "" {
		if existing, err = readFile(c.Existing); err != nil {
			return err
		}
	}

	table, err := reconcile.NewPipeline().Reconcile(generated, existing)
	if err != nil {
		return err
	}

	if c.Book != "" {
		table, err = applyReviewState(c.Book, table)
		if err != nil {
			return err
		}
	}

	fmt.Println(table.Format())
	return nil
}

// GenerateCmd runs the full pipeline over one or more USX books: parse the
// source, generate a candidate document, localize, reconcile with an
// existing dataset, and print the result. Without --candidates, generation
// falls back to the pass-through default, so the output is the normalized
// existing dataset keyed to the book.
type GenerateCmd struct {
	Paths      []string `arg:"" help:"USX files, or repository paths when --owner is set"`
	Owner      string   `name:"owner" help:"Fetch books from this DCS repository owner"`
	Repo       string   `name:"repo" help:"DCS repository name (requires --owner)"`
	Branch     string   `name:"branch" default:"master" help:"Branch to fetch from"`
	Existing   string   `name:"existing" help:"Existing TWL document to reconcile against" type:"existingfile"`
	Candidates string   `name:"candidates" help:"Saved generator output to replay instead of the pass-through default" type:"existingfile"`
	Book       string   `name:"book" help:"Book identifier override (default: USX book code, lowercased)"`
}

func (c *GenerateCmd) Run() error {
	if (c.Existing != "" || c.Candidates != "" || c.Book != "") && len(c.Paths) != 1 {
		return fmt.Errorf("--existing, --candidates and --book require exactly one book")
	}

	docs, err := c.sourceDocuments()
	if err != nil {
		return err
	}

	pipe := reconcile.NewPipeline()
	if c.Candidates != "" {
		candidates, err := readFile(c.Candidates)
		if err != nil {
			return err
		}
		pipe.Generator = fileGenerator{doc: candidates}
	}

	var existing string
	if c.Existing != "" {
		if existing, err = readFile(c.Existing); err != nil {
			return err
		}
	}

	for _, doc := range docs {
		book, err := usx.ParseBook([]byte(doc))
		if err != nil {
			return err
		}
		bookID := c.Book
		if bookID == "" {
			bookID = strings.ToLower(book.Code)
		}
		logging.Debug("generating", "book", bookID, "verses", len(book.Verses))

		table, err := pipe.Run(context.Background(), book.SourceText(), bookID, book.References(), existing)
		if err != nil {
			return fmt.Errorf("%s: %w", bookID, err)
		}
		fmt.Println(table.Format())
	}
	return nil
}

// sourceDocuments reads the USX inputs, either from local files or from a
// DCS repository in one concurrent fetch.
func (c *GenerateCmd) sourceDocuments() ([]string, error) {
	if c.Owner != "" {
		if c.Repo == "" {
			return nil, fmt.Errorf("--owner requires --repo")
		}
		client := dcs.NewClient(CLI.Server)
		return client.RawDocuments(context.Background(), c.Owner, c.Repo, c.Branch, c.Paths)
	}

	docs := make([]string, 0, len(c.Paths))
	for _, path := range c.Paths {
		doc, err := readFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// fileGenerator replays a saved generator output as the candidate document.
type fileGenerator struct {
	doc string
}

func (g fileGenerator) Generate(_ context.Context, _ string) (string, error) {
	return g.doc, nil
}

// applyReviewState filters out rows the translator has already deleted or
// whose words are marked as never-to-link.
func applyReviewState(book string, table *tsv.Table) (*tsv.Table, error) {
	s, err := store.Open(filepath.Join(dataDir(), "review.db"))
	if err != nil {
		return nil, err
	}
	defer s.Close()

	ctx := context.Background()
	deleted, err := s.DeletedRows(ctx, book)
	if err != nil {
		return nil, err
	}
	unlinked, err := s.UnlinkedWords(ctx, book)
	if err != nil {
		return nil, err
	}
	logging.Debug("applying review state", "book", book, "deleted", len(deleted), "unlinked", len(unlinked))
	return store.ApplyMarkers(table, deleted, unlinked), nil
}

// BranchesCmd lists branches of a DCS repository.
type BranchesCmd struct {
	Owner string `arg:"" help:"Repository owner"`
	Repo  string `arg:"" help:"Repository name"`
}

func (c *BranchesCmd) Run() error {
	client := dcs.NewClient(CLI.Server)
	branches, err := client.Branches(context.Background(), c.Owner, c.Repo)
	if err != nil {
		return err
	}
	for _, b := range branches {
		fmt.Println(b.Name)
	}
	return nil
}

// FetchCmd downloads a raw document, caches it locally, and prints it.
type FetchCmd struct {
	Owner  string `arg:"" help:"Repository owner"`
	Repo   string `arg:"" help:"Repository name"`
	Path   string `arg:"" help:"File path within the repository"`
	Branch string `name:"branch" default:"master" help:"Branch to fetch from"`
}

func (c *FetchCmd) Run() error {
	client := dcs.NewClient(CLI.Server)
	doc, err := client.RawDocument(context.Background(), c.Owner, c.Repo, c.Branch, c.Path)
	if err != nil {
		return err
	}

	blobs, err := cache.New(filepath.Join(dataDir(), "cache"))
	if err != nil {
		return err
	}
	key, err := blobs.Put([]byte(doc))
	if err != nil {
		return err
	}

	s, err := store.Open(filepath.Join(dataDir(), "review.db"))
	if err != nil {
		return err
	}
	defer s.Close()
	if _, err := s.RecordFetch(context.Background(), c.Owner+"/"+c.Repo+"/"+c.Path, key); err != nil {
		return err
	}

	fmt.Print(doc)
	return nil
}

// ResolveCmd shows the rewrites a disambiguation cell offers.
type ResolveCmd struct {
	Cell string `arg:"" help:"Disambiguation cell text"`
}

func (c *ResolveCmd) Run() error {
	res := disambig.Resolve(c.Cell)
	fmt.Printf("current: %s\n", res.Current)
	for _, alt := range res.Alternatives {
		fmt.Printf("  %s\n", alt.Option.Label())
		fmt.Printf("    cell: %s\n", alt.Cell)
		fmt.Printf("    link: %s\n", alt.Link)
	}
	if len(res.Alternatives) == 0 {
		fmt.Println("no alternatives")
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("twl %s (sqlite driver: %s)\n", version, store.DriverPackage())
	return nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("twl"),
		kong.Description("Translation Word Link dataset tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if CLI.Verbose {
		logging.InitLogger(logging.LevelDebug, logging.FormatText)
	}
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
