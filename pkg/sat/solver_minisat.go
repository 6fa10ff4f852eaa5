package sat

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const defaultMinisatPath = "minisat"

type minisatSolver struct {
	path    string
	workDir string
}

// NewMinisatSolver returns an engine running minisat, whose model is written to a file inside workDir
func NewMinisatSolver(path, workDir string) Solver {
	if path == "" {
		path = defaultMinisatPath
	}
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &minisatSolver{path: path, workDir: workDir}
}

func (solver *minisatSolver) Solve(ctx context.Context, problem *Problem) (Result, error) {
	dimacs, err := problem.ToDIMACS() // Transform the problem into DIMACS-CNF string format
	if err != nil {
		return Result{Status: Errored}, err
	}

	// Create a temporary file to hold the DIMACS content
	inputTempFile, err := os.CreateTemp(solver.workDir, "dimacs-*.cnf")
	if err != nil {
		return Result{Status: Errored}, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(inputTempFile.Name()) // Ensure the file is removed after execution

	outputTempFile, err := os.CreateTemp(solver.workDir, "minisat_output-*.cnf")
	if err != nil {
		return Result{Status: Errored}, fmt.Errorf("failed to create temporary file: %w", err)
	}
	outputTempFile.Close()
	defer os.Remove(outputTempFile.Name()) // Ensure the file is removed after execution

	// Write the DIMACS content to the temporary file
	if _, err := inputTempFile.WriteString(dimacs); err != nil {
		return Result{Status: Errored}, fmt.Errorf("failed to write DIMACS to temporary file: %w", err)
	}
	if err := inputTempFile.Close(); err != nil {
		return Result{Status: Errored}, fmt.Errorf("failed to close temporary file: %w", err)
	}

	cmd := exec.CommandContext(ctx, solver.path, "-verb=0", inputTempFile.Name(), outputTempFile.Name())
	_, status, err := runDIMACSSolver(ctx, "minisat", cmd, "")
	if err != nil || !status.Solved() {
		return Result{Status: status}, err
	}

	output, err := os.ReadFile(outputTempFile.Name())
	if err != nil {
		return Result{Status: Errored}, fmt.Errorf("failed to read output file: %w", err)
	}
	solution, err := solver.parseSolution(string(output))
	if err != nil {
		return Result{Status: Errored}, err
	}
	return solution.ToResult(problem.Variables), nil
}

// The first line of minisat's output file is the header ("SAT"), the model is on the second one
func (solver *minisatSolver) parseSolution(solverOutput string) (SATSolution, error) {
	lines := strings.Split(solverOutput, "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("unexpected minisat output: %q", solverOutput)
	}
	return parseSolution("v " + lines[1])
}
