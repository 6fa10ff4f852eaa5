package model

type predicateEvaluator interface {
	// Checks whether the instructor of the course is available at the timeslot
	InstructorAvailable(course, timeslot uint64) bool

	// Checks whether the course's enrollment is smaller than or equal to the room's capacity (i.e. the course fits in the room)
	Fits(course, room uint64) bool

	// Checks whether course1 and course2 are taught by the same instructor
	SameInstructor(course1, course2 uint64) bool

	// Checks whether course1 and course2 share at least one enrolled student
	Conflict(course1, course2 uint64) bool
}

func newPredicateEvaluator(modelInput ModelInput) predicateEvaluator {
	return &predicateEvaluatorStandard{modelInput: modelInput}
}

func newPredicateEvaluatorIsolatedRoom(modelInput ModelInput) predicateEvaluator {
	return &predicateEvaluatorIsolatedRoom{
		predicateEvaluatorStandard: predicateEvaluatorStandard{modelInput: modelInput},
	}
}
