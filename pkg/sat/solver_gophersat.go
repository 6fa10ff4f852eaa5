package sat

import (
	"context"
	"fmt"
	"runtime"

	"github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
	"golang.org/x/sync/semaphore"
)

type gophersatSolver struct {
	searches *semaphore.Weighted
}

// NewGophersatSolver returns an in-process engine backed by gophersat's cardinality constraints, running one search per CPU at most
func NewGophersatSolver() Solver {
	return NewBoundedGophersatSolver(0)
}

// NewBoundedGophersatSolver caps the searches running at once (one per CPU when maxSearches is not positive).
// A search abandoned by a timed out call keeps its slot until it actually ends.
func NewBoundedGophersatSolver(maxSearches int64) Solver {
	if maxSearches <= 0 {
		maxSearches = int64(runtime.GOMAXPROCS(0))
	}
	return &gophersatSolver{searches: semaphore.NewWeighted(maxSearches)}
}

func (engine *gophersatSolver) Solve(ctx context.Context, problem *Problem) (Result, error) {
	if ctx.Err() != nil {
		return Result{Status: TimedOut}, nil
	}

	constrs, unsatisfiable, err := toCardConstrs(problem)
	if err != nil {
		return Result{Status: Errored}, err
	} else if unsatisfiable {
		return Result{Status: Infeasible}, nil
	} else if len(constrs) == 0 {
		return Result{Status: Feasible, Model: make([]bool, problem.Variables)}, nil
	}

	type outcome struct {
		status solver.Status
		model  []bool
	}

	// Waiting for a free slot counts against the time budget
	if err := engine.searches.Acquire(ctx, 1); err != nil {
		return Result{Status: TimedOut}, nil
	}

	// gophersat cannot be interrupted, so the search runs on its own goroutine and is abandoned when the deadline expires
	done := make(chan outcome, 1)
	go func() {
		s := solver.New(solver.ParseCardConstrs(constrs))
		out := outcome{status: s.Solve()}
		if out.status == solver.Sat {
			out.model = s.Model()
		}
		engine.searches.Release(1)
		done <- out
	}()

	select {
	case <-ctx.Done():
		return Result{Status: TimedOut}, nil
	case out := <-done:
		switch out.status {
		case solver.Sat:
			model := make([]bool, problem.Variables)
			copy(model, out.model) // Variables absent from every constraint stay false
			return Result{Status: Feasible, Model: model}, nil
		case solver.Unsat:
			return Result{Status: Infeasible}, nil
		default:
			return Result{Status: Errored}, fmt.Errorf("gophersat returned an undetermined status: %v", out.status)
		}
	}
}

// toCardConstrs translates the constraints and reports whether one of them can never hold
func toCardConstrs(problem *Problem) (constrs []solver.CardConstr, unsatisfiable bool, err error) {
	toInts := func(scope []int64) []int {
		return lo.Map(scope, func(literal int64, _ int) int { return int(literal) })
	}

	constrs = make([]solver.CardConstr, 0, len(problem.Constraints))
	for _, constraint := range problem.Constraints {
		switch constraint.Kind {
		case ExactlyOne:
			if len(constraint.Scope) == 0 {
				return nil, true, nil
			}
			constrs = append(constrs, solver.Exactly1(toInts(constraint.Scope)...)...)
		case AtMostOne:
			if len(constraint.Scope) < 2 {
				continue
			}
			constrs = append(constrs, solver.AtMost1(toInts(constraint.Scope)...))
		case CustomLinear:
			if constraint.Bound > len(constraint.Scope) {
				return nil, true, nil
			} else if constraint.Bound <= 0 {
				continue
			}
			constrs = append(constrs, solver.CardConstr{Lits: toInts(constraint.Scope), AtLeast: constraint.Bound})
		default:
			return nil, false, fmt.Errorf("unknown constraint kind: %v", constraint.Kind)
		}
	}
	return constrs, false, nil
}
