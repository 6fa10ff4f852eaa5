package model

import (
	"context"
	"time"

	"github.com/limaJavier/coursetable/pkg/sat"
	"go.uber.org/zap"
)

type isolatedRoomTimetabler struct {
	solver sat.Solver
	budget time.Duration
	logger *zap.Logger
}

func NewIsolatedRoomTimetabler(solver sat.Solver, budget time.Duration, logger *zap.Logger) Timetabler {
	budget, logger = normalizeOptions(budget, logger)
	return &isolatedRoomTimetabler{
		solver: solver,
		budget: budget,
		logger: logger.Named("postponed"),
	}
}

func (timetabler *isolatedRoomTimetabler) Build(ctx context.Context, modelInput ModelInput) (schedule Schedule, variables uint64, constraints uint64, err error) {
	//** Extract attributes's domains
	totalRooms := uint64(1)
	totalCourses, totalTimeslots, _ := getAttributes(modelInput)

	//** Initialize dependencies
	isolatedEvaluator := newPredicateEvaluatorIsolatedRoom(modelInput)
	standardEvaluator := newPredicateEvaluator(modelInput)
	generator := newPermutationGenerator(totalCourses, totalTimeslots, totalRooms)
	indexer := newIndexer(generateVariables(isolatedEvaluator, generator))

	//** Build problem
	families := []func(state constraintState) []sat.Constraint{
		coverageConstraints,
		instructorConstraints,
		studentConstraints,
		roomCountConstraints,
	}

	state := constraintState{
		evaluator: isolatedEvaluator,
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

	//** Assign rooms timeslot by timeslot
	assignments, err := roomAssignment(selectAssignments(result, indexer), standardEvaluator, modelInput)
	if err != nil {
		return nil, variables, constraints, err
	}

	schedule, err = extractSchedule(assignments, modelInput)
	return schedule, variables, constraints, err
}

func (timetabler *isolatedRoomTimetabler) Verify(schedule Schedule, modelInput ModelInput) error {
	return verify(schedule, modelInput)
}
