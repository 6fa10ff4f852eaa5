package relations

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/limaJavier/coursetable/pkg/model"
)

// Names of the five input relations, used as CSV upload fields and workbook sheet names
const (
	Courses     = "courses"
	Rooms       = "rooms"
	Instructors = "instructors"
	Timeslots   = "timeslots"
	Enrollments = "enrollments"
)

// Names lists the input relations in the order they are read
var Names = []string{Courses, Rooms, Instructors, Timeslots, Enrollments}

// columns lists the header each relation must carry
var columns = map[string][]string{
	Courses:     {"course_id", "course_name", "instructor_id"},
	Rooms:       {"room_id", "capacity"},
	Instructors: {"instructor_id", "available_slots"},
	Timeslots:   {"slot_id", "day", "start", "end"},
	Enrollments: {"course_id", "student_id"},
}

// decodeRows turns a table whose first row is the header into rows keyed by column.
// Header names are matched case-insensitively, extra columns are ignored and blank rows are skipped.
func decodeRows(relation string, table [][]string) ([]map[string]string, error) {
	if len(table) == 0 {
		return nil, &model.DataError{Relation: relation, Reason: "the header row is missing"}
	}

	header := lo.Map(table[0], func(name string, _ int) string {
		return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	})
	missing := lo.Filter(columns[relation], func(column string, _ int) bool { return !lo.Contains(header, column) })
	if len(missing) > 0 {
		return nil, &model.DataError{Relation: relation, Reason: fmt.Sprintf("missing column(s) %v", strings.Join(missing, ", "))}
	}

	rows := make([]map[string]string, 0, len(table)-1)
	for _, record := range table[1:] {
		if lo.EveryBy(record, func(cell string) bool { return strings.TrimSpace(cell) == "" }) {
			continue
		}

		row := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// assemble decodes the rows of every relation into the raw model input
func assemble(tables map[string][]map[string]string) (model.RawModelInput, error) {
	document := lo.MapValues(tables, func(rows []map[string]string, _ string) any { return rows })

	var raw model.RawModelInput
	if err := model.DecodeRelation(document, &raw); err != nil {
		return model.RawModelInput{}, &model.DataError{Relation: "input", Reason: err.Error()}
	}
	return raw, nil
}
