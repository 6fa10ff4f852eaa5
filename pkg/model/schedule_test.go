package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestCompareDays(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected int
	}{
		{"Monday", "Tuesday", -1},
		{"sun", "Sat", 1},
		{"Wed", "wednesday", -1}, // Same weekday, lexicographic tie break
		{"2", "10", -1},
		{"10", "2", 1},
		{"Friday", "1", -1},
		{"1", "Day A", -1},
		{"Day A", "Day B", -1},
		{"Monday", "Monday", 0},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, CompareDays(testCase.a, testCase.b), "%v vs %v", testCase.a, testCase.b)
	}
}

func TestScheduleSort(t *testing.T) {
	//** Arrange
	schedule := Schedule{
		{CourseId: "C5", RoomId: "R1", Day: "Tuesday", Start: "08:00"},
		{CourseId: "C4", RoomId: "R2", Day: "Monday", Start: "10:00"},
		{CourseId: "C3", RoomId: "R1", Day: "Monday", Start: "10:00"},
		{CourseId: "C2", RoomId: "R1", Day: "Monday", Start: "10:00"},
		{CourseId: "C1", RoomId: "R9", Day: "Monday", Start: "08:00"},
	}

	//** Act
	schedule.Sort()

	//** Assert
	assert.Equal(t, []string{"C1", "C2", "C3", "C4", "C5"}, lo.Map(schedule, func(assignment Assignment, _ int) string {
		return assignment.CourseId
	}))
}

func TestAssignmentRecord(t *testing.T) {
	assignment := Assignment{
		CourseId:     "C1",
		CourseName:   "Algebra",
		InstructorId: "I1",
		RoomId:       "R1",
		TimeslotId:   "T1",
		Day:          "Monday",
		Start:        "09:00",
		End:          "10:00",
		Enrollment:   5,
	}

	record := assignment.Record()

	assert.Len(t, record, len(Columns))
	assert.Equal(t, []string{"C1", "Algebra", "I1", "R1", "T1", "Monday", "09:00", "10:00", "5"}, record)
}
