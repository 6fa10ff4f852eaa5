package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/limaJavier/coursetable/pkg/sat"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type unassignableError struct {
	timeslot string
	courses  []string
}

func (err unassignableError) Error() string {
	return fmt.Sprintf("courses %v cannot all be given a fitting room at timeslot %q", err.courses, err.timeslot)
}

func getAttributes(modelInput ModelInput) (courses, timeslots, rooms uint64) {
	return uint64(len(modelInput.Courses)), uint64(len(modelInput.Timeslots)), uint64(len(modelInput.Rooms))
}

func buildProblem(variables uint64, families []func(state constraintState) []sat.Constraint, state constraintState) *sat.Problem {
	problem := &sat.Problem{
		Variables:   variables,
		Constraints: []sat.Constraint{},
	}

	// Execute constraint families on different goroutines; results are joined in family order so the problem is the same on every run
	results := make([][]sat.Constraint, len(families))
	var wg sync.WaitGroup
	for i, family := range families {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = family(state)
		}()
	}
	wg.Wait()

	for _, constraints := range results {
		problem.Constraints = append(problem.Constraints, constraints...)
	}
	return problem
}

// solve submits the problem within the time budget and turns every non-solved status into a typed error
func solve(ctx context.Context, solver sat.Solver, problem *sat.Problem, budget time.Duration, logger *zap.Logger) (sat.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	logger.Debug("submitting problem",
		zap.Uint64("variables", problem.Variables),
		zap.Int("constraints", len(problem.Constraints)),
		zap.Duration("budget", budget),
	)

	start := time.Now()
	result, err := solver.Solve(ctx, problem)
	logger.Info("engine finished",
		zap.Stringer("status", result.Status),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)

	if err != nil {
		return sat.Result{}, &EngineError{Err: err}
	}

	switch result.Status {
	case sat.Optimal, sat.Feasible:
		return result, nil
	case sat.Infeasible:
		return sat.Result{}, &InfeasibleError{}
	case sat.TimedOut:
		return sat.Result{}, &InfeasibleError{TimedOut: true}
	default:
		return sat.Result{}, &EngineError{Err: fmt.Errorf("engine returned status %v", result.Status)}
	}
}

// selectAssignments returns the (Course, Timeslot, Room) combinations whose variables are true
func selectAssignments(result sat.Result, indexer indexer) [][3]uint64 {
	assignments := make([][3]uint64, 0)
	for index := int64(1); index <= int64(indexer.Variables()); index++ {
		if result.Value(index) == 1 {
			course, timeslot, room := indexer.Attributes(index)
			assignments = append(assignments, [3]uint64{course, timeslot, room})
		}
	}
	return assignments
}

// extractSchedule joins the display fields of every selected combination and sorts the rows canonically.
// Every course must appear exactly once, otherwise the model or the engine is broken.
func extractSchedule(assignments [][3]uint64, modelInput ModelInput) (Schedule, error) {
	scheduled := make(map[uint64]bool, len(assignments))
	schedule := make(Schedule, 0, len(assignments))

	for _, assignment := range assignments {
		courseIndex, timeslotIndex, roomIndex := assignment[0], assignment[1], assignment[2]
		course, timeslot, room := modelInput.Courses[courseIndex], modelInput.Timeslots[timeslotIndex], modelInput.Rooms[roomIndex]

		if scheduled[courseIndex] {
			return nil, &ConsistencyError{Reason: fmt.Sprintf("course %q is assigned more than once", course.Id)}
		}
		scheduled[courseIndex] = true

		schedule = append(schedule, Assignment{
			CourseId:     course.Id,
			CourseName:   course.Name,
			InstructorId: course.Instructor,
			RoomId:       room.Id,
			TimeslotId:   timeslot.Id,
			Day:          timeslot.Day,
			Start:        timeslot.Start,
			End:          timeslot.End,
			Enrollment:   course.Enrollment,
		})
	}

	if len(scheduled) != len(modelInput.Courses) {
		missing := lo.FilterMap(modelInput.Courses, func(course Course, index int) (string, bool) {
			return course.Id, !scheduled[uint64(index)]
		})
		return nil, &ConsistencyError{Reason: fmt.Sprintf("courses %v are not assigned", missing)}
	}

	schedule.Sort()
	return schedule, nil
}

func verify(schedule Schedule, modelInput ModelInput) error {
	timeslots := lo.SliceToMap(modelInput.Timeslots, func(timeslot Timeslot) (string, Timeslot) {
		return timeslot.Id, timeslot
	})
	courses := lo.SliceToMap(modelInput.Courses, func(course Course) (string, Course) {
		return course.Id, course
	})

	//** Initialize assistance
	courseAssistance := make(map[string]string)        // course -> timeslot
	roomAssistance := make(map[[2]string]string)       // (timeslot, room) -> course
	instructorAssistance := make(map[[2]string]string) // (timeslot, instructor) -> course

	for _, assignment := range schedule {
		course, ok := courses[assignment.CourseId]
		if !ok {
			return fmt.Errorf("unknown course %q", assignment.CourseId)
		}
		timeslot, ok := timeslots[assignment.TimeslotId]
		if !ok {
			return fmt.Errorf("course %q is assigned to unknown timeslot %q", course.Id, assignment.TimeslotId)
		}
		capacity, ok := modelInput.Capacity[assignment.RoomId]
		if !ok {
			return fmt.Errorf("course %q is assigned to unknown room %q", course.Id, assignment.RoomId)
		}
		roomKey := [2]string{timeslot.Id, assignment.RoomId}
		instructorKey := [2]string{timeslot.Id, course.Instructor}

		// Check that:
		// - Course is scheduled only once
		// - Displayed fields match the input
		// - Instructor is available at the timeslot
		// - Course fits in the room
		// - Room is not already taken at the timeslot
		// - Instructor is not already teaching at the timeslot
		if _, ok := courseAssistance[course.Id]; ok {
			return fmt.Errorf("course %q is scheduled more than once", course.Id)
		} else if assignment.InstructorId != course.Instructor || assignment.CourseName != course.Name || assignment.Enrollment != course.Enrollment ||
			assignment.Day != timeslot.Day || assignment.Start != timeslot.Start || assignment.End != timeslot.End {
			return fmt.Errorf("row of course %q does not match the input relations", course.Id)
		} else if !modelInput.Availability[course.Instructor][timeslot.Id] {
			return fmt.Errorf("instructor %q of course %q is not available at timeslot %q", course.Instructor, course.Id, timeslot.Id)
		} else if capacity < course.Enrollment {
			return fmt.Errorf("course %q (%d students) does not fit in room %q (capacity %d)", course.Id, course.Enrollment, assignment.RoomId, capacity)
		} else if other, ok := roomAssistance[roomKey]; ok {
			return fmt.Errorf("room %q is double-booked at timeslot %q by courses %q and %q", assignment.RoomId, timeslot.Id, other, course.Id)
		} else if other, ok := instructorAssistance[instructorKey]; ok {
			return fmt.Errorf("instructor %q is double-booked at timeslot %q by courses %q and %q", course.Instructor, timeslot.Id, other, course.Id)
		}

		courseAssistance[course.Id] = timeslot.Id
		roomAssistance[roomKey] = course.Id
		instructorAssistance[instructorKey] = course.Id
	}

	// Check every course is scheduled
	for _, course := range modelInput.Courses {
		if _, ok := courseAssistance[course.Id]; !ok {
			return fmt.Errorf("course %q is not scheduled", course.Id)
		}
	}

	// Check that courses sharing a student are scheduled at different timeslots
	for i := range len(modelInput.Courses) - 1 {
		for j := i + 1; j < len(modelInput.Courses); j++ {
			course1, course2 := modelInput.Courses[i].Id, modelInput.Courses[j].Id
			if modelInput.ConflictGraph[i][j] && courseAssistance[course1] == courseAssistance[course2] {
				return fmt.Errorf("courses %q and %q share students but are both scheduled at timeslot %q", course1, course2, courseAssistance[course1])
			}
		}
	}

	return nil
}

// roomAssignment gives a fitting room to every (Course, Timeslot) combination by matching, timeslot by timeslot, courses against rooms
func roomAssignment(assignments [][3]uint64, evaluator predicateEvaluator, modelInput ModelInput) ([][3]uint64, error) {
	coursesPerTimeslot := lo.GroupBy(assignments, func(assignment [3]uint64) uint64 { return assignment[1] })
	rooms := lo.Range(len(modelInput.Rooms))

	result := make([][3]uint64, 0, len(assignments))
	for timeslot := range uint64(len(modelInput.Timeslots)) {
		simultaneous, ok := coursesPerTimeslot[timeslot]
		if !ok {
			continue
		}
		courses := lo.Map(simultaneous, func(assignment [3]uint64, _ int) uint64 { return assignment[0] })

		matching, err := assignRooms(courses, rooms, evaluator)
		var unassignable unassignableError
		if errors.As(err, &unassignable) {
			unassignable.timeslot = modelInput.Timeslots[timeslot].Id
			unassignable.courses = lo.Map(courses, func(course uint64, _ int) string { return modelInput.Courses[course].Id })
			return nil, &InfeasibleError{Reason: unassignable.Error() + " (postponed room assignment may miss schedules the pure strategy finds)"}
		} else if err != nil {
			return nil, &EngineError{Err: err}
		}

		for _, pair := range matching {
			result = append(result, [3]uint64{pair[0], timeslot, pair[1]})
		}
	}

	return result, nil
}

func assignRooms(courses []uint64, rooms []int, evaluator predicateEvaluator) ([][2]uint64, error) {
	assignments := make([][2]uint64, 0, len(courses))

	// Build neighbors predicate based on room capacities
	neighbors := func(courseAny any, roomAny any) (bool, error) {
		course := courseAny.(uint64)
		room := roomAny.(int)

		return evaluator.Fits(course, uint64(room)), nil
	}

	// Transform courses and rooms to slices of any
	coursesAny, roomsAny := lo.Map(courses, func(course uint64, _ int) any { return course }), lo.Map(rooms, func(room int, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(coursesAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()

	// Check the matching covers every course
	if len(matching) < len(courses) {
		return nil, unassignableError{}
	}

	for _, edge := range matching {
		courseIndex, roomIndex := edge.Node1, edge.Node2-len(courses)
		assignments = append(assignments, [2]uint64{courses[courseIndex], uint64(rooms[roomIndex])})
	}

	return assignments, nil
}
