package mapgen

import (
	"github.com/BurntSushi/toml"

	"github.com/treesym/treesym/pkg/errors"
)

// Plan is a TOML experiment plan: a list of shapes to generate mappings
// for, each with its own generation options.
//
// Example plan file:
//
//	[[shape]]
//	name = "synthetic"
//	arities = [2, 4, 2]
//	num_canonical = 10
//	num_equivalent = 5
//
//	[[shape]]
//	name = "this-machine"
//	num_canonical = 100
type Plan struct {
	Shapes []PlanEntry `toml:"shape"`
}

// PlanEntry is one shape of a plan.
type PlanEntry struct {
	// Name identifies the entry in output files and logs.
	Name string `toml:"name"`

	Options
}

// LoadPlan reads and validates a TOML plan file.
func LoadPlan(path string) (*Plan, error) {
	var plan Plan
	if _, err := toml.DecodeFile(path, &plan); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse plan file %s", path)
	}
	if len(plan.Shapes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "plan file %s has no [[shape]] entries", path)
	}
	for i := range plan.Shapes {
		if plan.Shapes[i].Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "plan entry %d has no name", i)
		}
		if err := plan.Shapes[i].ValidateAndSetDefaults(); err != nil {
			return nil, err
		}
	}
	return &plan, nil
}
