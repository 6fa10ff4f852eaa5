package model

import (
	"context"
	"time"

	"github.com/limaJavier/coursetable/pkg/sat"
	"go.uber.org/zap"
)

type embeddedRoomTimetabler struct {
	solver sat.Solver
	budget time.Duration
	logger *zap.Logger
}

func NewEmbeddedRoomTimetabler(solver sat.Solver, budget time.Duration, logger *zap.Logger) Timetabler {
	budget, logger = normalizeOptions(budget, logger)
	return &embeddedRoomTimetabler{
		solver: solver,
		budget: budget,
		logger: logger.Named("pure"),
	}
}

func (timetabler *embeddedRoomTimetabler) Build(ctx context.Context, modelInput ModelInput) (schedule Schedule, variables uint64, constraints uint64, err error) {
	//** Extract attributes's domains
	totalCourses, totalTimeslots, totalRooms := getAttributes(modelInput)

	//** Initialize dependencies
	evaluator := newPredicateEvaluator(modelInput)
	generator := newPermutationGenerator(totalCourses, totalTimeslots, totalRooms)
	indexer := newIndexer(generateVariables(evaluator, generator))

	//** Build problem
	families := []func(state constraintState) []sat.Constraint{
		coverageConstraints,
		roomConstraints,
		instructorConstraints,
		studentConstraints,
	}

	state := constraintState{
		evaluator: evaluator,
		indexer:   indexer,
		input:     modelInput,
		courses:   totalCourses,
		timeslots: totalTimeslots,
		rooms:     totalRooms,
	}

	problem := buildProblem(indexer.Variables()+totalCourses, families, state)
	variables, constraints = problem.Variables, uint64(len(problem.Constraints))

	//** Solve problem
	result, err := solve(ctx, timetabler.solver, problem, timetabler.budget, timetabler.logger)
	if err != nil {
		return nil, variables, constraints, err
	}

	schedule, err = extractSchedule(selectAssignments(result, indexer), modelInput)
	return schedule, variables, constraints, err
}

func (timetabler *embeddedRoomTimetabler) Verify(schedule Schedule, modelInput ModelInput) error {
	return verify(schedule, modelInput)
}
