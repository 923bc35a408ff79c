package disambig

import (
	"reflect"
	"testing"
)

func TestResolveTwoOptions(t *testing.T) {
	res := Resolve("manual:option1 (1:other/time, 2:other/age-timeperiod)")

	if res.Current != "manual:option1" {
		t.Errorf("Current = %q, want %q", res.Current, "manual:option1")
	}
	if len(res.Alternatives) != 1 {
		t.Fatalf("len(Alternatives) = %d, want 1", len(res.Alternatives))
	}

	alt := res.Alternatives[0]
	if alt.Option.Label() != "2:other/age-timeperiod" {
		t.Errorf("Label() = %q, want %q", alt.Option.Label(), "2:other/age-timeperiod")
	}
	if want := "manual:option2 (1:other/time, 2:other/age-timeperiod)"; alt.Cell != want {
		t.Errorf("Cell = %q, want %q", alt.Cell, want)
	}
	if want := "rc://*/tw/dict/bible/other/age-timeperiod"; alt.Link != want {
		t.Errorf("Link = %q, want %q", alt.Link, want)
	}
}

func TestResolveThreeOptions(t *testing.T) {
	res := Resolve("manual:option2 (1:kt/god, 2:kt/lordgod, 3:names/yahweh)")

	if res.Current != "manual:option2" {
		t.Errorf("Current = %q, want %q", res.Current, "manual:option2")
	}

	var labels []string
	for _, alt := range res.Alternatives {
		labels = append(labels, alt.Option.Label())
	}
	want := []string{"1:kt/god", "3:names/yahweh"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("alternative labels = %v, want %v", labels, want)
	}

	// Every rewrite keeps the full option list.
	for _, alt := range res.Alternatives {
		wantCell := "manual:option" + alt.Option.Label()[:1] + " (1:kt/god, 2:kt/lordgod, 3:names/yahweh)"
		if alt.Cell != wantCell {
			t.Errorf("Cell = %q, want %q", alt.Cell, wantCell)
		}
	}
}

func TestResolveUnparsableCells(t *testing.T) {
	tests := []struct {
		name string
		cell string
	}{
		{"empty", ""},
		{"plain text", "keyterm"},
		{"missing list", "manual:option1"},
		{"unbalanced paren", "manual:option1 (1:kt/god"},
		{"automatic choice", "auto:option1 (1:kt/god)"},
		{"garbage list", "manual:option1 (first, second)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.cell)
			if res.Current != tt.cell {
				t.Errorf("Current = %q, want raw cell %q", res.Current, tt.cell)
			}
			if len(res.Alternatives) != 0 {
				t.Errorf("len(Alternatives) = %d, want 0", len(res.Alternatives))
			}
		})
	}
}

func TestResolveSingleOption(t *testing.T) {
	res := Resolve("manual:option1 (1:kt/grace)")
	if res.Current != "manual:option1" {
		t.Errorf("Current = %q, want %q", res.Current, "manual:option1")
	}
	if len(res.Alternatives) != 0 {
		t.Errorf("len(Alternatives) = %d, want 0 (no siblings)", len(res.Alternatives))
	}
}

func TestResolvePreservesListSpacing(t *testing.T) {
	// A hand-written cell without spaces after the commas must round-trip
	// byte-for-byte; only the selected option number changes.
	res := Resolve("manual:option1 (1:kt/god,2:kt/lordgod)")
	if len(res.Alternatives) != 1 {
		t.Fatalf("len(Alternatives) = %d, want 1", len(res.Alternatives))
	}
	if want := "manual:option2 (1:kt/god,2:kt/lordgod)"; res.Alternatives[0].Cell != want {
		t.Errorf("Cell = %q, want %q", res.Alternatives[0].Cell, want)
	}
}

func TestResolveTrimsWhitespace(t *testing.T) {
	res := Resolve("  manual:option1 (1:other/time, 2:other/age-timeperiod)  ")
	if res.Current != "manual:option1" {
		t.Errorf("Current = %q, want %q", res.Current, "manual:option1")
	}
}

func TestOptionLink(t *testing.T) {
	o := Option{Number: 1, Path: "kt/god"}
	if got := o.Link(); got != "rc://*/tw/dict/bible/kt/god" {
		t.Errorf("Link() = %q, want %q", got, "rc://*/tw/dict/bible/kt/god")
	}
}
