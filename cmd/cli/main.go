package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/limaJavier/coursetable/pkg/config"
	applogger "github.com/limaJavier/coursetable/pkg/logger"
	"github.com/limaJavier/coursetable/pkg/model"
	"github.com/limaJavier/coursetable/pkg/relations"
	"github.com/limaJavier/coursetable/pkg/sat"
)

// Exit codes
const (
	exitSolved             = 10
	exitInfeasible         = 20
	exitVerificationFailed = 15
	exitFailure            = 1
)

func main() {
	// Define arguments
	configPtr := flag.String("config", "", "Path to a YAML configuration file")
	solverPtr := flag.String("solver", "", fmt.Sprintf("Solving engine to use. Allowed values are: %v; overrides solver.engine (gophersat by default)", strings.Join(sat.SolverNames(), ", ")))
	strategyPtr := flag.String("strategy", "", `Strategy to build the timetable; overrides model.strategy. Allowed values are:
- "pure" (Rooms are part of the model, therefore a schedule will be found if it exists) and
- "postponed" (Rooms are matched after placing courses in timeslots. Completeness is not guaranteed), where "pure" is the default`)
	budgetPtr := flag.Duration("budget", 0, "Time budget of the engine (e.g. 30s); overrides solver.time_budget")
	delimiterPtr := flag.String("delimiter", "", "Separator of the instructors' available slots; overrides input.delimiter")
	jsonPtr := flag.String("json", "", "Path to a JSON file holding the five relations")
	xlsxPtr := flag.String("xlsx", "", "Path to an .xlsx workbook holding one sheet per relation")
	csvPtrs := lo.SliceToMap(relations.Names, func(relation string) (string, *string) {
		return relation, flag.String(relation, "", fmt.Sprintf("Path to the %v CSV file", relation))
	})
	outFilePathPtr := flag.String("out", "", "Path to the file where the schedule will be written (.json, .csv or .xlsx); if empty, it'll be written as JSON into the Standard Output")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load configuration: %v\n", err)
		os.Exit(exitFailure)
	}
	override(&cfg.Solver.Engine, *solverPtr)
	override(&cfg.Model.Strategy, *strategyPtr)
	override(&cfg.Input.Delimiter, *delimiterPtr)
	if *budgetPtr > 0 {
		cfg.Solver.TimeBudget = *budgetPtr
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot initialize logger: %v\n", err)
		os.Exit(exitFailure)
	}
	defer logger.Sync()

	// Validate arguments
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid arguments", zap.Error(err))
	}

	// Extract input
	raw, err := readInput(*jsonPtr, *xlsxPtr, lo.MapValues(csvPtrs, func(path *string, _ string) string { return *path }))
	if err != nil {
		logger.Fatal("cannot read input", zap.Error(err))
	}
	input, err := model.ProcessRawInput(raw, cfg.Input.Delimiter)
	if err != nil {
		logger.Fatal("invalid input", zap.Error(err))
	}

	// Initialize engines
	solver, err := sat.NewSolver(cfg.Solver.Engine, cfg.Solver.Options)
	if err != nil {
		logger.Fatal("cannot initialize solver", zap.Error(err))
	}
	timetabler, err := model.NewTimetabler(cfg.Model.Strategy, solver, cfg.Solver.TimeBudget, logger)
	if err != nil {
		logger.Fatal("cannot initialize timetabler", zap.Error(err))
	}

	// Build timetable
	start := time.Now()
	schedule, variables, constraints, err := timetabler.Build(context.Background(), input)
	stats := []zap.Field{
		zap.Uint64("variables", variables),
		zap.Uint64("constraints", constraints),
		zap.Duration("elapsed", time.Since(start)),
	}

	var infeasible *model.InfeasibleError
	if errors.As(err, &infeasible) {
		logger.Error("no schedule", append(stats, zap.Error(err))...)
		os.Exit(exitInfeasible)
	} else if err != nil {
		logger.Fatal("an error occurred during timetable construction", append(stats, zap.Error(err))...)
	}

	// Verify timetable correctness
	if err := timetabler.Verify(schedule, input); err != nil {
		logger.Error("schedule verification failed", append(stats, zap.Error(err))...)
		os.Exit(exitVerificationFailed)
	}

	// Write the schedule to the output file or to the Standard Output
	if err := writeOutput(*outFilePathPtr, schedule); err != nil {
		logger.Fatal("cannot write schedule", zap.Error(err))
	}

	logger.Info("schedule built", append(stats, zap.Int("assignments", len(schedule)))...)
	logger.Sync()
	os.Exit(exitSolved)
}

func override(value *string, flagValue string) {
	if flagValue != "" {
		*value = flagValue
	}
}

// readInput picks the input source: a JSON document, a workbook or the five CSV files (exactly one of them)
func readInput(jsonPath, xlsxPath string, csvPaths map[string]string) (model.RawModelInput, error) {
	csvPaths = lo.PickBy(csvPaths, func(_ string, path string) bool { return path != "" })

	sources := lo.CountBy([]bool{jsonPath != "", xlsxPath != "", len(csvPaths) > 0}, func(given bool) bool { return given })
	if sources != 1 {
		return model.RawModelInput{}, fmt.Errorf("exactly one input must be specified: -json, -xlsx or the five CSV flags (-%v)", strings.Join(relations.Names, ", -"))
	}

	switch {
	case jsonPath != "":
		return model.InputFromJson(jsonPath)
	case xlsxPath != "":
		file, err := os.Open(xlsxPath)
		if err != nil {
			return model.RawModelInput{}, fmt.Errorf("cannot open workbook: %w", err)
		}
		defer file.Close()
		return relations.ReadWorkbook(file)
	default:
		if missing := lo.Without(relations.Names, lo.Keys(csvPaths)...); len(missing) > 0 {
			return model.RawModelInput{}, fmt.Errorf("missing CSV flags: -%v", strings.Join(missing, ", -"))
		}
		return relations.ReadCSVFiles(csvPaths)
	}
}

func writeOutput(outFile string, schedule model.Schedule) error {
	if outFile == "" {
		return relations.WriteJSON(os.Stdout, schedule)
	}

	file, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := relations.Write(file, relations.FormatFromPath(outFile), schedule); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
