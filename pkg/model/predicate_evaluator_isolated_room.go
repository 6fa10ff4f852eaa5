package model

import "github.com/samber/lo"

// predicateEvaluatorIsolatedRoom collapses every room into a single virtual room: a course fits it when at least one real room fits the course
type predicateEvaluatorIsolatedRoom struct {
	predicateEvaluatorStandard
}

func (evaluator *predicateEvaluatorIsolatedRoom) Fits(course, _ uint64) bool {
	return lo.SomeBy(evaluator.modelInput.Rooms, func(room Room) bool {
		return room.Capacity >= evaluator.modelInput.Courses[course].Enrollment
	})
}
