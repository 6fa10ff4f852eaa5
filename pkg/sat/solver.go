package sat

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Solver is the narrow boundary between a problem and the engine solving it.
// Solve must honour the context deadline: when it expires before a solution is found the
// returned Result has the TimedOut status and the error is nil. A non-nil error is reserved for
// failures of the engine itself.
type Solver interface {
	Solve(ctx context.Context, problem *Problem) (Result, error)
}

// Options holds the locations of the external solver executables, the directory for their temporary
// files and the amount of in-process searches allowed to run at once (0 means one per CPU)
type Options struct {
	Kissat      string `mapstructure:"kissat_path"`
	Cadical     string `mapstructure:"cadical_path"`
	Minisat     string `mapstructure:"minisat_path"`
	WorkDir     string `mapstructure:"work_dir"`
	MaxSearches int64  `mapstructure:"max_searches"`
}

var solvers = map[string]func(options Options) Solver{
	"gophersat": func(options Options) Solver { return NewBoundedGophersatSolver(options.MaxSearches) },
	"kissat":    func(options Options) Solver { return NewKissatSolver(options.Kissat) },
	"cadical":   func(options Options) Solver { return NewCadicalSolver(options.Cadical) },
	"minisat":   func(options Options) Solver { return NewMinisatSolver(options.Minisat, options.WorkDir) },
}

// SolverNames lists the engines accepted by NewSolver
func SolverNames() []string {
	names := make([]string, 0, len(solvers))
	for name := range solvers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewSolver returns the engine registered under name
func NewSolver(name string, options Options) (Solver, error) {
	constructor, ok := solvers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid solver, allowed values are %v", name, SolverNames())
	}
	return constructor(options), nil
}
