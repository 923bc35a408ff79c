// Package ids assigns the 4-character row identifiers used in the ID column
// of TWL tables. A valid identifier matches [a-z][a-z0-9]{3} and is unique
// within its table.
package ids

import (
	"math/rand"
	"regexp"

	"github.com/scripturetools/twlforge/core/errors"
	"github.com/scripturetools/twlforge/core/tsv"
)

const (
	idLetters   = "abcdefghijklmnopqrstuvwxyz"
	idAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	idCellWidth = 4
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9]{3}$`)

// IsValid reports whether s is a well-formed row identifier.
func IsValid(s string) bool {
	return idPattern.MatchString(s)
}

// Assigner generates fresh identifiers. The zero value is not usable; create
// one with New or NewWithRand.
type Assigner struct {
	rng *rand.Rand
}

// New creates an Assigner seeded from the global random source.
func New() *Assigner {
	return &Assigner{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// NewWithRand creates an Assigner using the given random source. Tests use
// this to make generation reproducible.
func NewWithRand(rng *rand.Rand) *Assigner {
	return &Assigner{rng: rng}
}

// Generate produces a fresh identifier not present in taken. The first
// character is drawn from a-z, the remaining three from a-z0-9, regenerating
// until the result is unused.
func (a *Assigner) Generate(taken map[string]bool) string {
	for {
		buf := make([]byte, idCellWidth)
		buf[0] = idLetters[a.rng.Intn(len(idLetters))]
		for i := 1; i < idCellWidth; i++ {
			buf[i] = idAlphabet[a.rng.Intn(len(idAlphabet))]
		}
		id := string(buf)
		if !taken[id] {
			return id
		}
	}
}

// Reassign rewrites the ID column of a table so every identifier is
// format-valid and unique. The pass is greedy and order-dependent: a row's
// existing ID survives if it is well-formed and not yet committed by an
// earlier row; otherwise the row gets a freshly generated ID. The input
// table is not mutated.
//
// Returns a *errors.SchemaError when the table has no ID column.
func (a *Assigner) Reassign(t *tsv.Table) (*tsv.Table, error) {
	col := t.ColumnIndex(tsv.ColID)
	if col < 0 {
		return nil, errors.NewSchema(tsv.ColID, "column missing")
	}

	taken := make(map[string]bool, len(t.Rows))
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]string, len(row))
		copy(out, row)
		for len(out) <= col {
			out = append(out, "")
		}

		id := out[col]
		if !IsValid(id) || taken[id] {
			id = a.Generate(taken)
		}
		taken[id] = true
		out[col] = id
		rows[i] = out
	}

	return tsv.New(t.Headers, rows), nil
}
