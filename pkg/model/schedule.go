package model

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Assignment is one row of a schedule: a course placed in a room at a timeslot
type Assignment struct {
	CourseId     string `json:"course_id"`
	CourseName   string `json:"course_name"`
	InstructorId string `json:"instructor_id"`
	RoomId       string `json:"room_id"`
	TimeslotId   string `json:"slot_id"`
	Day          string `json:"day"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Enrollment   uint64 `json:"enrollment"`
}

// Schedule holds one assignment per course in canonical order
type Schedule []Assignment

// Columns is the header of the schedule relation
var Columns = []string{"course_id", "course_name", "instructor_id", "room_id", "slot_id", "day", "start", "end", "enrollment"}

// Record returns the assignment's fields in Columns order
func (assignment Assignment) Record() []string {
	return []string{
		assignment.CourseId,
		assignment.CourseName,
		assignment.InstructorId,
		assignment.RoomId,
		assignment.TimeslotId,
		assignment.Day,
		assignment.Start,
		assignment.End,
		strconv.FormatUint(assignment.Enrollment, 10),
	}
}

// Sort orders the schedule by (day, start, room id), ties broken by course id
func (schedule Schedule) Sort() {
	slices.SortFunc(schedule, func(a, b Assignment) int {
		if dayComparison := CompareDays(a.Day, b.Day); dayComparison != 0 {
			return dayComparison
		}
		if startComparison := cmp.Compare(a.Start, b.Start); startComparison != 0 {
			return startComparison
		}
		if roomComparison := cmp.Compare(a.RoomId, b.RoomId); roomComparison != 0 {
			return roomComparison
		}
		return cmp.Compare(a.CourseId, b.CourseId)
	})
}

var weekdays = map[string]int{
	"monday": 0, "mon": 0,
	"tuesday": 1, "tue": 1, "tues": 1,
	"wednesday": 2, "wed": 2,
	"thursday": 3, "thu": 3, "thur": 3, "thurs": 3,
	"friday": 4, "fri": 4,
	"saturday": 5, "sat": 5,
	"sunday": 6, "sun": 6,
}

// CompareDays orders weekday names by their position in the week, integers numerically and anything else lexicographically (in that order of precedence)
func CompareDays(a, b string) int {
	rankA, valueA := dayRank(a)
	rankB, valueB := dayRank(b)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}
	if rankA < 2 && valueA != valueB {
		return cmp.Compare(valueA, valueB)
	}
	return cmp.Compare(a, b)
}

func dayRank(day string) (rank int, value int64) {
	if weekday, ok := weekdays[strings.ToLower(strings.TrimSpace(day))]; ok {
		return 0, int64(weekday)
	}
	if number, err := strconv.ParseInt(strings.TrimSpace(day), 10, 64); err == nil {
		return 1, number
	}
	return 2, 0
}
