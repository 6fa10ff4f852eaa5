package sat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
const (
	satisfiableExitCode   = 10
	unsatisfiableExitCode = 20
)

// runDIMACSSolver feeds dimacs into the command's standard input and classifies its exit status
func runDIMACSSolver(ctx context.Context, name string, cmd *exec.Cmd, dimacs string) (stdOut string, status Status, err error) {
	cmd.Stdin = strings.NewReader(dimacs)

	var out bytes.Buffer
	cmd.Stdout = &out
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", TimedOut, nil
	} else if ctx.Err() != nil {
		return "", Errored, fmt.Errorf("%v execution was cancelled: %w", name, ctx.Err())
	}

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil && exitCode != satisfiableExitCode && exitCode != unsatisfiableExitCode {
		return "", Errored, fmt.Errorf("an error occurred during %v execution: %v : %v", name, err.Error(), stderr.String())
	} else if exitCode == unsatisfiableExitCode {
		return "", Infeasible, nil
	}
	return out.String(), Feasible, nil
}

// parseSolution extracts the literals of the "v" lines of a solver output (the trailing 0 is dropped)
func parseSolution(solverOutput string) (SATSolution, error) {
	var parseErr error
	values := lo.FilterMap(
		lo.FlatMap(
			lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
				return len(line) > 0 && line[0] == 'v'
			}),
			func(line string, _ int) []string {
				return strings.Fields(line[1:])
			},
		),
		func(valueStr string, _ int) (int64, bool) {
			value, err := strconv.ParseInt(valueStr, 10, 64)
			if err != nil {
				parseErr = fmt.Errorf("invalid literal in solver output: %w", err)
				return 0, false
			}
			return value, value != 0
		},
	)
	if parseErr != nil {
		return nil, parseErr
	}
	return values, nil
}

// solveWithCommand runs a DIMACS solver that reads the instance from its standard input and prints "v" lines
func solveWithCommand(ctx context.Context, name string, problem *Problem, newCommand func(ctx context.Context) *exec.Cmd) (Result, error) {
	dimacs, err := problem.ToDIMACS() // Transform the problem into DIMACS-CNF string format
	if err != nil {
		return Result{Status: Errored}, err
	}

	stdOut, status, err := runDIMACSSolver(ctx, name, newCommand(ctx), dimacs)
	if err != nil || !status.Solved() {
		return Result{Status: status}, err
	}

	solution, err := parseSolution(stdOut)
	if err != nil {
		return Result{Status: Errored}, err
	}
	return solution.ToResult(problem.Variables), nil
}
