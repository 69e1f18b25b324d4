package cli

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/getmockd/fireflow/pkg/collection"
)

// recordFilter matches records against a compiled boolean expression.
type recordFilter struct {
	source  string
	program *vm.Program
}

// filterEnv is the variable set a --where expression sees.
func filterEnv(r collection.Record) map[string]any {
	return map[string]any{
		"id":   r.ID,
		"name": r.Name,
		"age":  r.Age,
	}
}

// compileFilter compiles a --where expression. An empty expression matches
// everything.
func compileFilter(where string) (*recordFilter, error) {
	if where == "" {
		return nil, nil
	}
	program, err := expr.Compile(where, expr.Env(filterEnv(collection.Record{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid --where expression: %w", err)
	}
	return &recordFilter{source: where, program: program}, nil
}

// Apply returns the records the expression accepts, in order.
func (f *recordFilter) Apply(records []collection.Record) ([]collection.Record, error) {
	if f == nil {
		return records, nil
	}
	out := make([]collection.Record, 0, len(records))
	for _, r := range records {
		result, err := expr.Run(f.program, filterEnv(r))
		if err != nil {
			return nil, fmt.Errorf("evaluating %q for user %s: %w", f.source, r.ID, err)
		}
		if ok, _ := result.(bool); ok {
			out = append(out, r)
		}
	}
	return out, nil
}
