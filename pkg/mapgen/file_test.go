package mapgen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/treesym/treesym/pkg/errors"
)

func TestEntries(t *testing.T) {
	mappings := []Mapping{
		{Canonical: "0:1:2:3", Equivalents: []string{"1:0:2:3", "0:1:3:2"}},
		{Canonical: "0:2:1:3"},
	}
	entries := Entries(mappings)
	want := []Entry{
		{Permutation: "0:1:2:3", Canonical: "0:1:2:3", Count: 2},
		{Permutation: "1:0:2:3", Canonical: "0:1:2:3", Count: 1},
		{Permutation: "0:1:3:2", Canonical: "0:1:2:3", Count: 1},
		{Permutation: "0:2:1:3", Canonical: "0:2:1:3", Count: 1},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	entries := []Entry{
		{Permutation: "0:1:2:3", Canonical: "0:1:2:3", Count: 3},
		{Permutation: "1:0:2:3", Canonical: "0:1:2:3", Count: 1},
	}

	var buf bytes.Buffer
	if err := WriteTo(&buf, entries); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "0:1:2:3 0:1:2:3 3\n1:0:2:3 0:1:2:3 1\n" {
		t.Errorf("unexpected file content:\n%s", got)
	}

	parsed, err := ReadFrom(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(parsed), len(entries))
	}
	for i := range entries {
		if parsed[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, parsed[i], entries[i])
		}
	}
}

func TestReadFromSkipsBlankLines(t *testing.T) {
	in := "0:1 0:1 1\n\n  \n1:0 0:1 1\n"
	entries, err := ReadFrom(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestReadFromErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "too few fields", input: "0:1 0:1\n"},
		{name: "too many fields", input: "0:1 0:1 1 extra\n"},
		{name: "bad count", input: "0:1 0:1 x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrom(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}
