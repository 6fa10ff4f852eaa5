package sat

import (
	"context"
	"os/exec"
)

const defaultCadicalPath = "cadical"

type cadicalSolver struct {
	path string
}

func NewCadicalSolver(path string) Solver {
	if path == "" {
		path = defaultCadicalPath
	}
	return &cadicalSolver{path: path}
}

func (solver *cadicalSolver) Solve(ctx context.Context, problem *Problem) (Result, error) {
	return solveWithCommand(ctx, "cadical", problem, func(ctx context.Context) *exec.Cmd {
		return exec.CommandContext(ctx, solver.path, "-q")
	})
}
