package model

import (
	"math"

	"github.com/limaJavier/coursetable/pkg/sat"
	"github.com/samber/lo"
)

type constraintState struct {
	evaluator predicateEvaluator
	indexer   indexer
	input     ModelInput

	courses,
	timeslots,
	rooms uint64 // Rooms of the variable universe (1 when rooms are assigned after solving)
}

// generateVariables keeps the (Course, Timeslot, Room) permutations whose placement is feasible, pruning before any variable exists
func generateVariables(evaluator predicateEvaluator, generator permutationGenerator) [][]uint64 {
	return generator.ConstrainedPermutations([]func(permutation []uint64) bool{
		// InstructorAvailable(c, t) = 1
		func(permutation []uint64) bool {
			course, timeslot := permutation[0], permutation[1]

			return course == math.MaxUint64 ||
				timeslot == math.MaxUint64 ||

				// Actual predicate
				evaluator.InstructorAvailable(course, timeslot)
		},
		// Fits(c, r) = 1
		func(permutation []uint64) bool {
			course, room := permutation[0], permutation[2]

			return course == math.MaxUint64 ||
				room == math.MaxUint64 ||

				// Actual predicate
				evaluator.Fits(course, room)
		},
	})
}

// sentinelVariable returns the extra variable used to make the coverage of a course without placements unsatisfiable
func sentinelVariable(state constraintState, course uint64) int64 {
	return int64(state.indexer.Variables() + course + 1)
}

// coursePlacements returns the variables of a course at a timeslot, over every room
func coursePlacements(state constraintState, course, timeslot uint64) []int64 {
	placements := make([]int64, 0, state.rooms)
	for room := range state.rooms {
		if index, ok := state.indexer.Index(course, timeslot, room); ok {
			placements = append(placements, index)
		}
	}
	return placements
}

// Every course is placed exactly once. A course without feasible placements gets a contradictory pair (s >= 1, not s >= 1) so the engine reports it as infeasible instead of the course being dropped.
func coverageConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0, state.courses)

	for course := range state.courses {
		scope := make([]int64, 0)
		for timeslot := range state.timeslots {
			scope = append(scope, coursePlacements(state, course, timeslot)...)
		}

		if len(scope) == 0 {
			sentinel := sentinelVariable(state, course)
			constraints = append(constraints,
				sat.Constraint{Kind: sat.CustomLinear, Scope: []int64{sentinel}, Bound: 1},
				sat.Constraint{Kind: sat.CustomLinear, Scope: []int64{-sentinel}, Bound: 1},
			)
			continue
		}
		constraints = append(constraints, sat.Constraint{Kind: sat.ExactlyOne, Scope: scope})
	}

	return constraints
}

// A room holds at most one course per timeslot
func roomConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0)

	for timeslot := range state.timeslots {
		for room := range state.rooms {
			scope := make([]int64, 0)
			for course := range state.courses {
				if index, ok := state.indexer.Index(course, timeslot, room); ok {
					scope = append(scope, index)
				}
			}

			if len(scope) > 1 {
				constraints = append(constraints, sat.Constraint{Kind: sat.AtMostOne, Scope: scope})
			}
		}
	}

	return constraints
}

// An instructor teaches at most one course per timeslot
func instructorConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0)

	// Courses grouped by instructor, in the order of each instructor's first course
	grouped := make([]bool, state.courses)
	coursesPerInstructor := make([][]uint64, 0)
	for course1 := range state.courses {
		if grouped[course1] {
			continue
		}
		courses := []uint64{course1}
		for course2 := course1 + 1; course2 < state.courses; course2++ {
			if !grouped[course2] && state.evaluator.SameInstructor(course1, course2) {
				courses = append(courses, course2)
				grouped[course2] = true
			}
		}
		coursesPerInstructor = append(coursesPerInstructor, courses)
	}

	for timeslot := range state.timeslots {
		for _, courses := range coursesPerInstructor {
			scope := make([]int64, 0)
			for _, course := range courses {
				scope = append(scope, coursePlacements(state, course, timeslot)...)
			}

			if len(scope) > 1 {
				constraints = append(constraints, sat.Constraint{Kind: sat.AtMostOne, Scope: scope})
			}
		}
	}

	return constraints
}

// Two courses sharing a student never take place at the same timeslot, whatever their rooms.
// Only edges of the conflict graph are visited.
func studentConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0)

	for course1 := uint64(0); course1+1 < state.courses; course1++ {
		for course2 := course1 + 1; course2 < state.courses; course2++ {
			if !state.evaluator.Conflict(course1, course2) {
				continue
			}

			for timeslot := range state.timeslots {
				scope := append(coursePlacements(state, course1, timeslot), coursePlacements(state, course2, timeslot)...)
				if len(scope) > 1 {
					constraints = append(constraints, sat.Constraint{Kind: sat.AtMostOne, Scope: scope})
				}
			}
		}
	}

	return constraints
}

// With rooms assigned after solving, a timeslot cannot hold more courses than there are rooms
func roomCountConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0)
	totalRooms := len(state.input.Rooms)

	for timeslot := range state.timeslots {
		scope := make([]int64, 0)
		for course := range state.courses {
			scope = append(scope, coursePlacements(state, course, timeslot)...)
		}

		// sum(x) <= rooms  <=>  sum(not x) >= len(x) - rooms
		if len(scope) > totalRooms {
			negated := lo.Map(scope, func(variable int64, _ int) int64 { return -variable })
			constraints = append(constraints, sat.Constraint{Kind: sat.CustomLinear, Scope: negated, Bound: len(scope) - totalRooms})
		}
	}

	return constraints
}
