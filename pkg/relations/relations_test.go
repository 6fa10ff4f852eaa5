package relations

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/limaJavier/coursetable/pkg/model"
)

var sampleRelations = map[string]string{
	Courses:     "course_id,course_name,instructor_id\nC1,Algebra,I1\nC2,Biology,I2\n",
	Rooms:       "room_id,capacity\nR1,10\n",
	Instructors: "instructor_id,available_slots\nI1,T1|T2\nI2,T2\n",
	Timeslots:   "slot_id,day,start,end\nT1,Monday,09:00,10:00\nT2,Monday,10:00,11:00\n",
	Enrollments: "course_id,student_id\nC1,S1\nC1,S2\n\nC2,S3\n",
}

func csvReaders(relations map[string]string) map[string]io.Reader {
	readers := make(map[string]io.Reader, len(relations))
	for relation, content := range relations {
		readers[relation] = strings.NewReader(content)
	}
	return readers
}

func sampleSchedule() model.Schedule {
	return model.Schedule{
		{CourseId: "C1", CourseName: "Algebra", InstructorId: "I1", RoomId: "R1", TimeslotId: "T1", Day: "Monday", Start: "09:00", End: "10:00", Enrollment: 2},
		{CourseId: "C2", CourseName: "Biology, Advanced", InstructorId: "I2", RoomId: "R1", TimeslotId: "T2", Day: "Monday", Start: "10:00", End: "11:00", Enrollment: 1},
	}
}

func TestReadCSV(t *testing.T) {
	t.Run("Five relations", func(t *testing.T) {
		//** Act
		raw, err := ReadCSV(csvReaders(sampleRelations))

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, []model.RawCourse{
			{Id: "C1", Name: "Algebra", Instructor: "I1"},
			{Id: "C2", Name: "Biology", Instructor: "I2"},
		}, raw.Courses)
		assert.Equal(t, []model.RawRoom{{Id: "R1", Capacity: "10"}}, raw.Rooms)
		assert.Equal(t, "T1|T2", raw.Instructors[0].AvailableSlots)
		assert.Len(t, raw.Timeslots, 2)
		assert.Len(t, raw.Enrollments, 3) // Blank line skipped

		_, err = model.ProcessRawInput(raw, model.DefaultDelimiter)
		assert.NoError(t, err)
	})

	t.Run("Reordered and extra columns", func(t *testing.T) {
		//** Arrange
		relations := clone(sampleRelations)
		relations[Rooms] = "Building,Capacity,Room_ID\nNorth,25,R7\n"

		//** Act
		raw, err := ReadCSV(csvReaders(relations))

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, []model.RawRoom{{Id: "R7", Capacity: "25"}}, raw.Rooms)
	})

	t.Run("Missing column", func(t *testing.T) {
		//** Arrange
		relations := clone(sampleRelations)
		relations[Timeslots] = "slot_id,day,start\nT1,Monday,09:00\n"

		//** Act
		_, err := ReadCSV(csvReaders(relations))

		//** Assert
		var dataErr *model.DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Equal(t, Timeslots, dataErr.Relation)
		assert.Contains(t, dataErr.Reason, "end")
	})

	t.Run("Missing relation", func(t *testing.T) {
		//** Arrange
		relations := clone(sampleRelations)
		delete(relations, Enrollments)

		//** Act
		_, err := ReadCSV(csvReaders(relations))

		//** Assert
		var dataErr *model.DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Equal(t, Enrollments, dataErr.Relation)
	})

	t.Run("Empty document", func(t *testing.T) {
		//** Arrange
		relations := clone(sampleRelations)
		relations[Courses] = ""

		//** Act
		_, err := ReadCSV(csvReaders(relations))

		//** Assert
		var dataErr *model.DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Equal(t, Courses, dataErr.Relation)
	})
}

func TestWorkbookRoundTrip(t *testing.T) {
	//** Arrange
	f := excelize.NewFile()
	for _, relation := range Names {
		_, err := f.NewSheet(strings.ToUpper(relation[:1]) + relation[1:])
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(sampleRelations[relation]), "\n")
		for row, line := range lines {
			for column, value := range strings.Split(line, ",") {
				require.NoError(t, f.SetCellValue(strings.ToUpper(relation[:1])+relation[1:], cell(column, row+1), value))
			}
		}
	}
	buffer := new(bytes.Buffer)
	require.NoError(t, f.Write(buffer))

	//** Act
	raw, err := ReadWorkbook(buffer)

	//** Assert
	require.NoError(t, err)
	assert.Len(t, raw.Courses, 2)
	assert.Equal(t, "10", raw.Rooms[0].Capacity)
	assert.Len(t, raw.Enrollments, 3)
}

func TestReadWorkbookErrors(t *testing.T) {
	t.Run("Not a workbook", func(t *testing.T) {
		_, err := ReadWorkbook(strings.NewReader("course_id,course_name"))

		var dataErr *model.DataError
		assert.ErrorAs(t, err, &dataErr)
	})

	t.Run("Missing sheet", func(t *testing.T) {
		//** Arrange
		f := excelize.NewFile()
		buffer := new(bytes.Buffer)
		require.NoError(t, f.Write(buffer))

		//** Act
		_, err := ReadWorkbook(buffer)

		//** Assert
		var dataErr *model.DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Equal(t, Courses, dataErr.Relation)
	})
}

func TestWriteCSV(t *testing.T) {
	//** Arrange
	buffer := new(bytes.Buffer)

	//** Act
	err := WriteCSV(buffer, sampleSchedule())

	//** Assert
	require.NoError(t, err)
	assert.Equal(t,
		"course_id,course_name,instructor_id,room_id,slot_id,day,start,end,enrollment\n"+
			"C1,Algebra,I1,R1,T1,Monday,09:00,10:00,2\n"+
			"C2,\"Biology, Advanced\",I2,R1,T2,Monday,10:00,11:00,1\n",
		buffer.String())
}

func TestWriteJSON(t *testing.T) {
	t.Run("Schedule", func(t *testing.T) {
		//** Arrange
		buffer := new(bytes.Buffer)

		//** Act
		err := WriteJSON(buffer, sampleSchedule())

		//** Assert
		require.NoError(t, err)
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &rows))
		assert.Len(t, rows, 2)
		assert.Equal(t, "C1", rows[0]["course_id"])
		assert.Equal(t, "T1", rows[0]["slot_id"])
	})

	t.Run("Empty schedule", func(t *testing.T) {
		buffer := new(bytes.Buffer)

		require.NoError(t, WriteJSON(buffer, nil))
		assert.Equal(t, "[]\n", buffer.String())
	})
}

func TestWriteWorkbook(t *testing.T) {
	//** Arrange
	buffer := new(bytes.Buffer)

	//** Act
	err := WriteWorkbook(buffer, sampleSchedule())

	//** Assert
	require.NoError(t, err)
	f, err := excelize.OpenReader(buffer)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ScheduleSheet}, f.GetSheetList())
	rows, err := f.GetRows(ScheduleSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.Columns, rows[0])
	assert.Equal(t, sampleSchedule()[1].Record(), rows[2])
}

func TestFormats(t *testing.T) {
	assert.Equal(t, CSV, FormatFromPath("out/schedule.CSV"))
	assert.Equal(t, XLSX, FormatFromPath("schedule.xlsx"))
	assert.Equal(t, JSON, FormatFromPath("schedule.txt"))

	format, err := ParseFormat(" Xlsx ")
	assert.NoError(t, err)
	assert.Equal(t, XLSX, format)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)

	assert.Error(t, Write(io.Discard, Format("pdf"), nil))
}

func clone(relations map[string]string) map[string]string {
	copied := make(map[string]string, len(relations))
	for relation, content := range relations {
		copied[relation] = content
	}
	return copied
}
