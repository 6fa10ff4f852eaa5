package sat

import (
	"context"
	"os/exec"
)

const defaultKissatPath = "kissat"

type kissatSolver struct {
	path string
}

func NewKissatSolver(path string) Solver {
	if path == "" {
		path = defaultKissatPath
	}
	return &kissatSolver{path: path}
}

func (solver *kissatSolver) Solve(ctx context.Context, problem *Problem) (Result, error) {
	return solveWithCommand(ctx, "kissat", problem, func(ctx context.Context) *exec.Cmd {
		return exec.CommandContext(ctx, solver.path, "-q", "--relaxed")
	})
}
