package regression

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/they4kman/gogep/gep"
	"gopkg.in/yaml.v3"
)

// Case is one sample point: the variables genes are evaluated against, and
// the value the expression should produce for them.
type Case struct {
	Vars   *gep.Env[float64]
	Target float64
}

type Dataset struct {
	Variables []string
	Cases     []Case
}

type caseFile struct {
	Vars   map[string]float64 `yaml:"vars"`
	Target float64            `yaml:"target"`
}

type datasetFile struct {
	Cases []caseFile `yaml:"cases"`
}

// FromExpr samples the target expression over variable in [from, to]
func FromExpr(expr, variable string, from, to, step float64) (*Dataset, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step %g must be positive", step)
	}
	if to < from {
		return nil, fmt.Errorf("empty range [%g, %g]", from, to)
	}

	target, err := gep.ExprLang.NewEvaluable(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling target %q: %w", expr, err)
	}

	data := &Dataset{Variables: []string{variable}}
	for i := 0; ; i++ {
		// Multiplying avoids drift from repeated float additions
		x := from + float64(i)*step
		if x > to {
			break
		}

		vars := map[string]float64{variable: x}
		y, err := target.EvalFloat64(context.Background(), map[string]interface{}{variable: x})
		if err != nil {
			return nil, fmt.Errorf("evaluating target %q at %s=%g: %w", expr, variable, x, err)
		}

		data.Cases = append(data.Cases, Case{Vars: gep.NewEnv(vars), Target: y})
	}

	return data, nil
}

// Load reads a dataset from YAML:
//
//	cases:
//	  - vars: {x: 1, y: 2}
//	    target: 3
func Load(r io.Reader) (*Dataset, error) {
	var file datasetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("dataset has no cases")
	}

	seen := make(map[string]struct{})
	for _, c := range file.Cases {
		for name := range c.Vars {
			seen[name] = struct{}{}
		}
	}

	data := &Dataset{Variables: make([]string, 0, len(seen))}
	for name := range seen {
		data.Variables = append(data.Variables, name)
	}
	sort.Strings(data.Variables)

	for i, c := range file.Cases {
		for _, name := range data.Variables {
			if _, ok := c.Vars[name]; !ok {
				return nil, fmt.Errorf("case %d lacks variable %q", i, name)
			}
		}
		data.Cases = append(data.Cases, Case{Vars: gep.NewEnv(c.Vars), Target: c.Target})
	}

	return data, nil
}

// Alphabet returns the functions given, with the dataset's variables and the
// constants as terminals.
func (d *Dataset) Alphabet(functions []*gep.Function[float64], constants ...float64) gep.Alphabet[*gep.Env[float64], float64] {
	terminals := make([]gep.Allele[*gep.Env[float64], float64], 0, len(d.Variables)+len(constants))
	for _, name := range d.Variables {
		terminals = append(terminals, gep.EnvTerminal[float64](name))
	}
	for _, c := range constants {
		terminals = append(terminals, gep.Constant[float64]{Value: c})
	}

	return gep.Alphabet[*gep.Env[float64], float64]{
		Functions: functions,
		Terminals: terminals,
	}
}
