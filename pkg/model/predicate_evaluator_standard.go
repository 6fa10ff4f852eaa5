package model

type predicateEvaluatorStandard struct {
	modelInput ModelInput
}

func (evaluator *predicateEvaluatorStandard) InstructorAvailable(course, timeslot uint64) bool {
	instructor := evaluator.modelInput.Courses[course].Instructor
	return evaluator.modelInput.Availability[instructor][evaluator.modelInput.Timeslots[timeslot].Id]
}

func (evaluator *predicateEvaluatorStandard) Fits(course, room uint64) bool {
	return evaluator.modelInput.Rooms[room].Capacity >= evaluator.modelInput.Courses[course].Enrollment
}

func (evaluator *predicateEvaluatorStandard) SameInstructor(course1, course2 uint64) bool {
	return evaluator.modelInput.Courses[course1].Instructor == evaluator.modelInput.Courses[course2].Instructor
}

func (evaluator *predicateEvaluatorStandard) Conflict(course1, course2 uint64) bool {
	return evaluator.modelInput.ConflictGraph[course1][course2]
}
