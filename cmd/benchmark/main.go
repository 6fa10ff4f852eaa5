package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/limaJavier/coursetable/pkg/model"
	"github.com/limaJavier/coursetable/pkg/sat"
)

// Exit codes of the timetable command
const (
	exitSolved             = 10
	exitInfeasible         = 20
	exitVerificationFailed = 15
)

type ResultType int

const (
	solved ResultType = iota
	infeasible
	unverified
)

var resultTypes = map[ResultType]string{
	solved:     "solved",
	infeasible: "infeasible",
	unverified: "unverified",
}

type TestMetadata struct {
	Name        string
	Satisfiable bool
	Courses     int
	Rooms       int
	Instructors int
	Timeslots   int
	Enrollments int
}

type BenchmarkResult struct {
	Solver        string
	Strategy      string
	Test          TestMetadata
	Duration      int64 // Milliseconds
	Memory        float32
	CpuPercentage int64
	Result        ResultType
}

func main() {
	executablePtr := flag.String("exec", "./bin/timetable", "Path to the timetable executable")
	satisfiablePtr := flag.String("satisfiable", "pkg/model/testdata/satisfiable", "Directory of JSON inputs expected to be satisfiable")
	unsatisfiablePtr := flag.String("unsatisfiable", "pkg/model/testdata/unsatisfiable", "Directory of JSON inputs expected to be unsatisfiable")
	solversPtr := flag.String("solvers", strings.Join(sat.SolverNames(), ","), "Comma-separated engines to benchmark")
	strategiesPtr := flag.String("strategies", strings.Join(model.StrategyNames(), ","), "Comma-separated strategies to benchmark")
	budgetPtr := flag.Duration("budget", model.DefaultTimeBudget, "Time budget granted to every run")
	outPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV report")
	flag.Parse()

	tests := getTests(*satisfiablePtr, *unsatisfiablePtr)
	solvers := splitList(*solversPtr)
	strategies := splitList(*strategiesPtr)
	results := make([]BenchmarkResult, 0, len(tests)*len(strategies)*len(solvers))

	for _, test := range tests {
		for _, strategy := range strategies {
			for _, solver := range solvers {
				fmt.Printf("Benchmarking test \"%v\" with strategy \"%v\" and solver \"%v\"\n", test.Name, strategy, solver)

				duration, maxMemory, cpuPercentage, result := measure(*executablePtr, strategy, solver, *budgetPtr, test.Name)

				results = append(results, BenchmarkResult{
					Solver:        solver,
					Strategy:      strategy,
					Test:          test,
					Duration:      duration,
					Memory:        maxMemory,
					CpuPercentage: cpuPercentage,
					Result:        result,
				})
			}
		}
	}

	file, err := os.Create(*outPtr)
	if err != nil {
		log.Fatalf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := toCsv(file, results); err != nil {
		log.Fatalf("cannot write CSV report: %v", err)
	}
}

func splitList(list string) []string {
	return lo.Compact(lo.Map(strings.Split(list, ","), func(item string, _ int) string { return strings.TrimSpace(item) }))
}

func getTests(satisfiableDirectory, unsatisfiableDirectory string) []TestMetadata {
	tests := make([]TestMetadata, 0)
	for _, tuple := range lo.Zip2([]string{satisfiableDirectory, unsatisfiableDirectory}, []bool{true, false}) {
		directory, satisfiable := tuple.A, tuple.B
		testFiles, err := os.ReadDir(directory)
		if err != nil {
			log.Fatalf("cannot read directory: %v", err)
		}

		for _, file := range testFiles {
			filename := filepath.Join(directory, file.Name())
			raw, err := model.InputFromJson(filename)
			if err != nil {
				log.Fatalf("cannot parse input file: %v", err)
			}

			tests = append(tests, testMetadata(filename, satisfiable, raw))
		}
	}

	return tests
}

func testMetadata(name string, satisfiable bool, raw model.RawModelInput) TestMetadata {
	return TestMetadata{
		Name:        name,
		Satisfiable: satisfiable,
		Courses:     len(raw.Courses),
		Rooms:       len(raw.Rooms),
		Instructors: len(raw.Instructors),
		Timeslots:   len(raw.Timeslots),
		Enrollments: len(raw.Enrollments),
	}
}

func measure(executable, strategy, solver string, budget time.Duration, testFile string) (duration int64, maxMemory float32, cpuPercentage int64, result ResultType) {
	cmd := exec.Command("/usr/bin/time", "-v", executable, "-strategy", strategy, "-solver", solver, "-budget", budget.String(), "-json", testFile, "-out", os.DevNull)

	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	_ = cmd.Run()
	switch cmd.ProcessState.ExitCode() {
	case exitSolved:
		result = solved
	case exitInfeasible:
		result = infeasible
	case exitVerificationFailed:
		result = unverified
	default:
		log.Fatalf("an error occurred during the execution of \"timetable\" at test \"%v\" using strategy \"%v\" and solver \"%v\": %v\n", testFile, strategy, solver, stdErr.String())
	}

	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return duration, maxMemory, cpuPercentage, result
}

func toCsv(w io.Writer, results []BenchmarkResult) error {
	writer := csv.NewWriter(w)

	header := []string{"Solver", "Strategy", "Test", "Satisfiable", "Courses", "Rooms", "Instructors", "Timeslots", "Enrollments", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Solver,
			result.Strategy,
			result.Test.Name,
			strconv.FormatBool(result.Test.Satisfiable),
			strconv.Itoa(result.Test.Courses),
			strconv.Itoa(result.Test.Rooms),
			strconv.Itoa(result.Test.Instructors),
			strconv.Itoa(result.Test.Timeslots),
			strconv.Itoa(result.Test.Enrollments),
			strconv.FormatInt(result.Duration, 10),
			fmt.Sprintf("%.1f", result.Memory),
			strconv.FormatInt(result.CpuPercentage, 10),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func parseDurationLine(line string) int64 {
	durationStr := strings.TrimSpace(strings.Split(line, "(h:mm:ss or m:ss):")[1])
	return parseDuration(durationStr)
}

// parseDuration converts the h:mm:ss.cc or m:ss.cc format of GNU time into milliseconds
func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsParts := strings.Split(parts[len(parts)-1], ".")

	seconds := lo.Must(strconv.Atoi(secondsParts[0]))
	hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))

	var minutes, hours int
	switch len(parts) {
	case 3: // h:mm:ss
		hours = lo.Must(strconv.Atoi(parts[0]))
		minutes = lo.Must(strconv.Atoi(parts[1]))
	case 2: // m:ss
		minutes = lo.Must(strconv.Atoi(parts[0]))
	default:
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
}

func parseMemoryLine(line string) float32 {
	memoryStr := strings.TrimSpace(strings.Split(line, ":")[1])
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / 1024
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.TrimSuffix(strings.TrimSpace(strings.Split(line, ":")[1]), "%")
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
