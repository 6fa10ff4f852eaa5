package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRawInput(t *testing.T) {
	t.Run("Derived tables", func(t *testing.T) {
		//** Arrange
		raw := twoCoursesInput("T1|T2", "T2", 10)
		raw.Courses = append(raw.Courses, RawCourse{Id: "C3", Name: "Chemistry", Instructor: "I2"})
		raw.Enrollments = append(raw.Enrollments,
			RawEnrollment{Course: "C1", Student: "S1"}, // Duplicated enrollment
			RawEnrollment{Course: "C3", Student: "S6"},
		)

		//** Act
		input, err := ProcessRawInput(raw, "")

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, map[string]uint64{"C1": 5, "C2": 3, "C3": 1}, input.Enrollment)
		assert.Equal(t, uint64(5), input.Courses[0].Enrollment)
		assert.Equal(t, map[string]bool{"T1": true, "T2": true}, input.Availability["I1"])
		assert.Equal(t, map[string]bool{"T2": true}, input.Availability["I2"]) // Single value without delimiter
		assert.Equal(t, map[string]string{"C1": "I1", "C2": "I2", "C3": "I2"}, input.CourseInstructor)
		assert.Equal(t, map[string]uint64{"R1": 10}, input.Capacity)
		assert.Len(t, input.Students["C1"], 5)
		assert.Equal(t, [][]bool{
			{false, false, false},
			{false, false, true},
			{false, true, false},
		}, input.ConflictGraph)
	})

	t.Run("Custom delimiter", func(t *testing.T) {
		//** Arrange
		raw := twoCoursesInput("T1; T2", "T2", 10)

		//** Act
		input, err := ProcessRawInput(raw, ";")

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"T1": true, "T2": true}, input.Availability["I1"])
	})

	t.Run("Unknown timeslots in availability are tolerated", func(t *testing.T) {
		//** Act
		input, err := ProcessRawInput(twoCoursesInput("T1|T9", "T2", 10), DefaultDelimiter)

		//** Assert
		require.NoError(t, err)
		assert.True(t, input.Availability["I1"]["T9"])
	})

	t.Run("Instructor without courses or slots", func(t *testing.T) {
		//** Arrange
		raw := twoCoursesInput("T1", "T2", 10)
		raw.Instructors = append(raw.Instructors, RawInstructor{Id: "I3", AvailableSlots: ""})

		//** Act
		input, err := ProcessRawInput(raw, DefaultDelimiter)

		//** Assert
		require.NoError(t, err)
		require.Contains(t, input.Availability, "I3")
		assert.Empty(t, input.Availability["I3"])
		assert.Len(t, input.Availability, 3)
	})

	t.Run("Course without enrollments", func(t *testing.T) {
		//** Arrange
		raw := twoCoursesInput("T1", "T2", 10)
		raw.Enrollments = nil

		//** Act
		input, err := ProcessRawInput(raw, DefaultDelimiter)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, uint64(0), input.Enrollment["C1"])
	})
}

func TestProcessRawInputErrors(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(raw *RawModelInput)
		relation string
		row      int
	}{
		{
			name:     "unknown instructor",
			mutate:   func(raw *RawModelInput) { raw.Courses[1].Instructor = "I9" },
			relation: "courses",
			row:      2,
		},
		{
			name:     "negative capacity",
			mutate:   func(raw *RawModelInput) { raw.Rooms[0].Capacity = "-1" },
			relation: "rooms",
			row:      1,
		},
		{
			name:     "non numeric capacity",
			mutate:   func(raw *RawModelInput) { raw.Rooms[0].Capacity = "ten" },
			relation: "rooms",
			row:      1,
		},
		{
			name:     "unparsable availability",
			mutate:   func(raw *RawModelInput) { raw.Instructors[0].AvailableSlots = "T1||T2" },
			relation: "instructors",
			row:      1,
		},
		{
			name:     "missing course id",
			mutate:   func(raw *RawModelInput) { raw.Courses[0].Id = " " },
			relation: "courses",
			row:      1,
		},
		{
			name:     "duplicated course id",
			mutate:   func(raw *RawModelInput) { raw.Courses[1].Id = "C1" },
			relation: "courses",
			row:      2,
		},
		{
			name:     "duplicated timeslot id",
			mutate:   func(raw *RawModelInput) { raw.Timeslots[1].Id = "T1" },
			relation: "timeslots",
			row:      2,
		},
		{
			name:     "missing timeslot day",
			mutate:   func(raw *RawModelInput) { raw.Timeslots[0].Day = "" },
			relation: "timeslots",
			row:      1,
		},
		{
			name:     "enrollment of unknown course",
			mutate:   func(raw *RawModelInput) { raw.Enrollments[0].Course = "C9" },
			relation: "enrollments",
			row:      1,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			//** Arrange
			raw := twoCoursesInput("T1|T2", "T1|T2", 10)
			testCase.mutate(&raw)

			//** Act
			_, err := ProcessRawInput(raw, DefaultDelimiter)

			//** Assert
			var dataErr *DataError
			require.ErrorAs(t, err, &dataErr)
			assert.Equal(t, testCase.relation, dataErr.Relation)
			assert.Equal(t, testCase.row, dataErr.Row)
		})
	}
}

func TestInputFromJson(t *testing.T) {
	t.Run("Numbers are read as strings", func(t *testing.T) {
		//** Act
		raw, err := InputFromJson(filepath.Join(satisfiableTestDirectory, "two_courses_one_room.json"))

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, "10", raw.Rooms[0].Capacity)
		assert.Len(t, raw.Enrollments, 8)
	})

	t.Run("Malformed document", func(t *testing.T) {
		//** Arrange
		filename := filepath.Join(t.TempDir(), "input.json")
		require.NoError(t, os.WriteFile(filename, []byte(`{"courses": [`), 0o644))

		//** Act
		_, err := InputFromJson(filename)

		//** Assert
		assert.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := InputFromJson(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})
}
