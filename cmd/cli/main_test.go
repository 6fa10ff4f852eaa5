package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/coursetable/pkg/model"
	"github.com/limaJavier/coursetable/pkg/relations"
)

func TestReadInput(t *testing.T) {
	directory := t.TempDir()
	contents := map[string]string{
		relations.Courses:     "course_id,course_name,instructor_id\nC1,Algebra,I1\n",
		relations.Rooms:       "room_id,capacity\nR1,10\n",
		relations.Instructors: "instructor_id,available_slots\nI1,T1\n",
		relations.Timeslots:   "slot_id,day,start,end\nT1,Monday,09:00,10:00\n",
		relations.Enrollments: "course_id,student_id\nC1,S1\n",
	}
	paths := make(map[string]string, len(contents))
	for relation, content := range contents {
		paths[relation] = filepath.Join(directory, relation+".csv")
		require.NoError(t, os.WriteFile(paths[relation], []byte(content), 0o644))
	}

	t.Run("CSV files", func(t *testing.T) {
		raw, err := readInput("", "", paths)

		require.NoError(t, err)
		assert.Len(t, raw.Courses, 1)
		assert.Equal(t, "10", raw.Rooms[0].Capacity)
	})

	t.Run("Incomplete CSV files", func(t *testing.T) {
		_, err := readInput("", "", map[string]string{relations.Courses: paths[relations.Courses], relations.Rooms: ""})

		assert.ErrorContains(t, err, "-rooms")
	})

	t.Run("No input", func(t *testing.T) {
		_, err := readInput("", "", map[string]string{})

		assert.Error(t, err)
	})

	t.Run("Several inputs", func(t *testing.T) {
		_, err := readInput("input.json", "", paths)

		assert.Error(t, err)
	})
}

func TestWriteOutput(t *testing.T) {
	schedule := model.Schedule{{CourseId: "C1", CourseName: "Algebra", InstructorId: "I1", RoomId: "R1", TimeslotId: "T1", Day: "Monday", Start: "09:00", End: "10:00", Enrollment: 1}}

	t.Run("JSON by default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schedule.out")

		require.NoError(t, writeOutput(path, schedule))

		bytes, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded model.Schedule
		require.NoError(t, json.Unmarshal(bytes, &decoded))
		assert.Equal(t, schedule, decoded)
	})

	t.Run("CSV by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schedule.csv")

		require.NoError(t, writeOutput(path, schedule))

		bytes, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "course_id,course_name,instructor_id,room_id,slot_id,day,start,end,enrollment\nC1,Algebra,I1,R1,T1,Monday,09:00,10:00,1\n", string(bytes))
	})
}

func TestOverride(t *testing.T) {
	value := "pure"

	override(&value, "")
	assert.Equal(t, "pure", value)

	override(&value, "postponed")
	assert.Equal(t, "postponed", value)
}
