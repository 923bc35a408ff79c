// Package reference provides chapter:verse reference keys and ordering for
// TWL tables. References compare numerically, so "1:10" sorts after "1:2".
package reference

import (
	"strconv"
	"strings"
)

// Key is a comparable chapter/verse pair derived from a "chapter:verse" cell.
// Either component defaults to 0 when missing or unparsable.
type Key struct {
	Chapter int
	Verse   int
}

// Parse converts a "chapter:verse" string into a Key. It is total: malformed
// input degrades to the zero Key rather than returning an error, since the
// comparator built on it must never fail mid-merge.
func Parse(s string) Key {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)

	var k Key
	if len(parts) > 0 {
		k.Chapter = atoiOrZero(parts[0])
	}
	if len(parts) > 1 {
		k.Verse = atoiOrZero(parts[1])
	}
	return k
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Compare orders two reference strings by (chapter, verse). It returns a
// negative value when a sorts before b, zero when they share a key, and a
// positive value otherwise.
func Compare(a, b string) int {
	ka, kb := Parse(a), Parse(b)
	if d := ka.Chapter - kb.Chapter; d != 0 {
		return d
	}
	return ka.Verse - kb.Verse
}

// Less reports whether a sorts strictly before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Equal reports whether a and b share the same (chapter, verse) key.
func Equal(a, b string) bool {
	return Compare(a, b) == 0
}

// String returns the canonical "chapter:verse" form of the key.
func (k Key) String() string {
	return strconv.Itoa(k.Chapter) + ":" + strconv.Itoa(k.Verse)
}
