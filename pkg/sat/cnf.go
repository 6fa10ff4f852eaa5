package sat

import (
	"fmt"
)

// CNF is the clausal form of a problem. Variables counts the problem's own variables followed by
// the auxiliary ones introduced by the encoding.
type CNF struct {
	Variables uint64
	Clauses   [][]int64
}

// ToCNF encodes every constraint into clauses:
//   - at-least-one as a single clause
//   - at-most-one pairwise (the same way the professor and uniqueness families of a timetable are encoded)
//   - at-least-k as a sequential counter over the negated literals, numbering its counter bits after the problem's variables
func (problem *Problem) ToCNF() (CNF, error) {
	encoder := &cnfEncoder{
		next:    problem.Variables,
		clauses: make([][]int64, 0, len(problem.Constraints)),
	}

	for _, constraint := range problem.Constraints {
		switch constraint.Kind {
		case ExactlyOne:
			encoder.add(atLeastOne(constraint.Scope))
			encoder.add(atMostOne(constraint.Scope)...)
		case AtMostOne:
			encoder.add(atMostOne(constraint.Scope)...)
		case CustomLinear:
			encoder.atLeast(constraint.Scope, constraint.Bound)
		default:
			return CNF{}, fmt.Errorf("unknown constraint kind: %v", constraint.Kind)
		}
	}

	return CNF{Variables: encoder.next, Clauses: encoder.clauses}, nil
}

type cnfEncoder struct {
	next    uint64 // Highest variable in use
	clauses [][]int64
}

func (encoder *cnfEncoder) add(clauses ...[]int64) {
	encoder.clauses = append(encoder.clauses, clauses...)
}

// fresh reserves count consecutive auxiliary variables and returns the first one
func (encoder *cnfEncoder) fresh(count int) int64 {
	first := int64(encoder.next) + 1
	encoder.next += uint64(count)
	return first
}

func atLeastOne(scope []int64) []int64 {
	clause := make([]int64, len(scope))
	copy(clause, scope)
	return clause
}

func atMostOne(scope []int64) [][]int64 {
	clauses := make([][]int64, 0, len(scope)*(len(scope)-1)/2)
	for i := range len(scope) - 1 {
		for j := i + 1; j < len(scope); j++ {
			clauses = append(clauses, []int64{-scope[i], -scope[j]})
		}
	}
	return clauses
}

// atLeast requires bound literals of the scope to be true, i.e. at most len(scope)-bound of them to be false
func (encoder *cnfEncoder) atLeast(scope []int64, bound int) {
	n := len(scope)
	switch {
	case bound <= 0:
		return
	case bound > n:
		encoder.add([]int64{}) // Empty clause: unsatisfiable
		return
	case bound == 1:
		encoder.add(atLeastOne(scope))
		return
	case bound == n:
		for _, literal := range scope {
			encoder.add([]int64{literal})
		}
		return
	}

	// Sequential counter (Sinz, 2005) over the falsified literals: counter(i, j) holds when at least
	// j of the first i+1 literals are false. The counter may never exceed limit.
	limit := n - bound
	first := encoder.fresh((n - 1) * limit)
	counter := func(i, j int) int64 { return first + int64(i*limit+j-1) }

	// Literal i is false <=> -scope[i] is true
	encoder.add([]int64{scope[0], counter(0, 1)})
	for j := 2; j <= limit; j++ {
		encoder.add([]int64{-counter(0, j)})
	}

	for i := 1; i < n-1; i++ {
		encoder.add(
			[]int64{scope[i], counter(i, 1)},
			[]int64{-counter(i-1, 1), counter(i, 1)},
		)
		for j := 2; j <= limit; j++ {
			encoder.add(
				[]int64{scope[i], -counter(i-1, j-1), counter(i, j)},
				[]int64{-counter(i-1, j), counter(i, j)},
			)
		}
		encoder.add([]int64{scope[i], -counter(i-1, limit)})
	}

	encoder.add([]int64{scope[n-1], -counter(n-2, limit)})
}
