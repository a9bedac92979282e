package mapgen

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/treesym/treesym/pkg/errors"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPlan(t *testing.T) {
	path := writePlan(t, `
[[shape]]
name = "synthetic"
arities = [2, 4, 2]
num_canonical = 10
num_equivalent = 5
seed = 7

[[shape]]
name = "this-machine"
`)

	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(plan.Shapes))
	}

	first := plan.Shapes[0]
	if first.Name != "synthetic" {
		t.Errorf("Name = %q", first.Name)
	}
	if !slices.Equal(first.Arities, []int{2, 4, 2}) {
		t.Errorf("Arities = %v", first.Arities)
	}
	if first.NumCanonical != 10 || first.NumEquivalent != 5 || first.Seed != 7 {
		t.Errorf("options = %+v", first.Options)
	}

	// The second entry carries only a name; defaults apply.
	second := plan.Shapes[1]
	if second.Name != "this-machine" {
		t.Errorf("Name = %q", second.Name)
	}
	if second.NumCanonical != DefaultNumCanonical || second.Seed != DefaultSeed {
		t.Errorf("defaults not applied: %+v", second.Options)
	}
}

func TestLoadPlanErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "missing name", content: "[[shape]]\narities = [2]\n"},
		{name: "invalid toml", content: "[[shape\n"},
		{name: "invalid options", content: "[[shape]]\nname = \"x\"\narities = [0]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadPlan(writePlan(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}
