package sat

import (
	"fmt"
	"strings"
)

// Kind identifies how a constraint restricts the literals in its scope
type Kind int

const (
	ExactlyOne   Kind = iota // Exactly one literal of the scope is true
	AtMostOne                // At most one literal of the scope is true
	CustomLinear             // The number of true literals of the scope is greater than or equal to Bound
)

func (kind Kind) String() string {
	switch kind {
	case ExactlyOne:
		return "exactly-one"
	case AtMostOne:
		return "at-most-one"
	case CustomLinear:
		return "custom-linear"
	}
	return fmt.Sprintf("kind(%d)", int(kind))
}

// Constraint is a cardinality restriction over literals. A positive literal v stands for the
// variable v, a negative literal -v stands for its negation. Bound is only read by CustomLinear.
type Constraint struct {
	Kind  Kind
	Scope []int64
	Bound int
}

// Problem is a set of boolean variables (numbered from 1 to Variables) and the constraints over them
type Problem struct {
	Variables   uint64
	Constraints []Constraint
}

// Status reports the outcome of a Solve call
type Status int

const (
	Optimal Status = iota
	Feasible
	Infeasible
	TimedOut // The time budget ran out before any solution was found
	Errored
)

func (status Status) String() string {
	switch status {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case TimedOut:
		return "timed-out"
	case Errored:
		return "error"
	}
	return fmt.Sprintf("status(%d)", int(status))
}

// Solved reports whether the status carries an assignment
func (status Status) Solved() bool {
	return status == Optimal || status == Feasible
}

// Result holds the status returned by an engine and, when solved, the value of every variable
type Result struct {
	Status Status
	Model  []bool // Model[v-1] is the value of variable v
}

// Value returns 1 if the variable is true in the model and 0 otherwise (including unknown variables)
func (result Result) Value(variable int64) int {
	if variable <= 0 || variable > int64(len(result.Model)) || !result.Model[variable-1] {
		return 0
	}
	return 1
}

// SATSolution is the list of signed literals printed by DIMACS solvers
type SATSolution []int64

// ToResult turns a DIMACS solution into a Result over the given amount of variables
func (solution SATSolution) ToResult(variables uint64) Result {
	model := make([]bool, variables)
	for _, literal := range solution {
		if literal > 0 && uint64(literal) <= variables {
			model[literal-1] = true
		}
	}
	return Result{Status: Feasible, Model: model}
}

// ToDIMACS transforms the problem into DIMACS-CNF string format. The header counts the auxiliary
// variables of the encoding, which solvers report after the problem's own ones.
func (problem *Problem) ToDIMACS() (string, error) {
	cnf, err := problem.ToCNF()
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", cnf.Variables, len(cnf.Clauses))
	for _, clause := range cnf.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String(), nil
}
