package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// DefaultDelimiter separates the timeslot ids of an instructor's availability list
const DefaultDelimiter = "|"

type RawCourse struct {
	Id         string `mapstructure:"course_id" json:"course_id"`
	Name       string `mapstructure:"course_name" json:"course_name"`
	Instructor string `mapstructure:"instructor_id" json:"instructor_id"`
}

type RawRoom struct {
	Id       string `mapstructure:"room_id" json:"room_id"`
	Capacity string `mapstructure:"capacity" json:"capacity"`
}

type RawInstructor struct {
	Id             string `mapstructure:"instructor_id" json:"instructor_id"`
	AvailableSlots string `mapstructure:"available_slots" json:"available_slots"`
}

type RawTimeslot struct {
	Id    string `mapstructure:"slot_id" json:"slot_id"`
	Day   string `mapstructure:"day" json:"day"`
	Start string `mapstructure:"start" json:"start"`
	End   string `mapstructure:"end" json:"end"`
}

type RawEnrollment struct {
	Course  string `mapstructure:"course_id" json:"course_id"`
	Student string `mapstructure:"student_id" json:"student_id"`
}

// RawModelInput holds the five input relations exactly as they were read
type RawModelInput struct {
	Courses     []RawCourse     `mapstructure:"courses"`
	Rooms       []RawRoom       `mapstructure:"rooms"`
	Instructors []RawInstructor `mapstructure:"instructors"`
	Timeslots   []RawTimeslot   `mapstructure:"timeslots"`
	Enrollments []RawEnrollment `mapstructure:"enrollments"`
}

type Course struct {
	Id         string
	Name       string
	Instructor string
	Enrollment uint64 // Number of distinct students enrolled
}

type Room struct {
	Id       string
	Capacity uint64
}

type Timeslot struct {
	Id    string
	Day   string
	Start string
	End   string
}

// ModelInput is the normalized, immutable snapshot every timetabler works on.
// Slices keep the input order, which fixes the numbering of the assignment variables.
type ModelInput struct {
	Courses   []Course
	Rooms     []Room
	Timeslots []Timeslot

	Enrollment       map[string]uint64          // course -> distinct students (missing course -> 0)
	Availability     map[string]map[string]bool // instructor -> available timeslots (every instructor has an entry, possibly empty)
	CourseInstructor map[string]string          // course -> instructor
	Students         map[string]map[string]bool // course -> enrolled students
	Capacity         map[string]uint64          // room -> capacity

	ConflictGraph [][]bool // ConflictGraph[i][j] = true if and only if courses i and j (i != j) share at least one student
}

// InputFromJson reads the five relations from a JSON document with the keys "courses", "rooms", "instructors", "timeslots" and "enrollments"
func InputFromJson(file string) (RawModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return RawModelInput{}, fmt.Errorf("cannot read input file: %w", err)
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return RawModelInput{}, err
	}

	var rawInput RawModelInput
	if err := DecodeRelation(inputJson, &rawInput); err != nil {
		return RawModelInput{}, err
	}
	return rawInput, nil
}

// DecodeRelation decodes loosely typed rows (e.g. numbers where strings are expected) into typed relations
func DecodeRelation(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// ProcessRawInput validates the raw relations and derives the lookup tables used to build the model
func ProcessRawInput(rawInput RawModelInput, delimiter string) (ModelInput, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	input := ModelInput{
		Enrollment:       make(map[string]uint64),
		Availability:     make(map[string]map[string]bool),
		CourseInstructor: make(map[string]string),
		Students:         make(map[string]map[string]bool),
		Capacity:         make(map[string]uint64),
	}

	//** Manage timeslots
	timeslotIds := make(map[string]bool)
	for i, raw := range rawInput.Timeslots {
		timeslot := Timeslot{
			Id:    strings.TrimSpace(raw.Id),
			Day:   strings.TrimSpace(raw.Day),
			Start: strings.TrimSpace(raw.Start),
			End:   strings.TrimSpace(raw.End),
		}
		if err := requireFields("timeslots", i+1, map[string]string{"slot_id": timeslot.Id, "day": timeslot.Day, "start": timeslot.Start, "end": timeslot.End}); err != nil {
			return ModelInput{}, err
		} else if timeslotIds[timeslot.Id] {
			return ModelInput{}, &DataError{Relation: "timeslots", Row: i + 1, Reason: fmt.Sprintf("duplicate slot_id %q", timeslot.Id)}
		}
		timeslotIds[timeslot.Id] = true
		input.Timeslots = append(input.Timeslots, timeslot)
	}

	//** Manage rooms
	for i, raw := range rawInput.Rooms {
		id := strings.TrimSpace(raw.Id)
		if err := requireFields("rooms", i+1, map[string]string{"room_id": id}); err != nil {
			return ModelInput{}, err
		} else if _, ok := input.Capacity[id]; ok {
			return ModelInput{}, &DataError{Relation: "rooms", Row: i + 1, Reason: fmt.Sprintf("duplicate room_id %q", id)}
		}

		capacity, err := strconv.ParseUint(strings.TrimSpace(raw.Capacity), 10, 64)
		if err != nil {
			return ModelInput{}, &DataError{Relation: "rooms", Row: i + 1, Reason: fmt.Sprintf("capacity %q of room %q is not a non-negative integer", raw.Capacity, id)}
		}

		input.Capacity[id] = capacity
		input.Rooms = append(input.Rooms, Room{Id: id, Capacity: capacity})
	}

	//** Manage instructors
	for i, raw := range rawInput.Instructors {
		id := strings.TrimSpace(raw.Id)
		if err := requireFields("instructors", i+1, map[string]string{"instructor_id": id}); err != nil {
			return ModelInput{}, err
		} else if _, ok := input.Availability[id]; ok {
			return ModelInput{}, &DataError{Relation: "instructors", Row: i + 1, Reason: fmt.Sprintf("duplicate instructor_id %q", id)}
		}

		availability, err := parseAvailability(raw.AvailableSlots, delimiter)
		if err != nil {
			return ModelInput{}, &DataError{Relation: "instructors", Row: i + 1, Reason: fmt.Sprintf("instructor %q: %v", id, err)}
		}

		input.Availability[id] = availability
	}

	//** Manage courses
	for i, raw := range rawInput.Courses {
		course := Course{
			Id:         strings.TrimSpace(raw.Id),
			Name:       strings.TrimSpace(raw.Name),
			Instructor: strings.TrimSpace(raw.Instructor),
		}
		if err := requireFields("courses", i+1, map[string]string{"course_id": course.Id, "instructor_id": course.Instructor}); err != nil {
			return ModelInput{}, err
		} else if _, ok := input.CourseInstructor[course.Id]; ok {
			return ModelInput{}, &DataError{Relation: "courses", Row: i + 1, Reason: fmt.Sprintf("duplicate course_id %q", course.Id)}
		} else if _, ok := input.Availability[course.Instructor]; !ok {
			return ModelInput{}, &DataError{Relation: "courses", Row: i + 1, Reason: fmt.Sprintf("course %q references unknown instructor %q", course.Id, course.Instructor)}
		}

		input.CourseInstructor[course.Id] = course.Instructor
		input.Students[course.Id] = make(map[string]bool)
		input.Courses = append(input.Courses, course)
	}

	//** Manage enrollments
	for i, raw := range rawInput.Enrollments {
		courseId, studentId := strings.TrimSpace(raw.Course), strings.TrimSpace(raw.Student)
		if err := requireFields("enrollments", i+1, map[string]string{"course_id": courseId, "student_id": studentId}); err != nil {
			return ModelInput{}, err
		}

		students, ok := input.Students[courseId]
		if !ok {
			return ModelInput{}, &DataError{Relation: "enrollments", Row: i + 1, Reason: fmt.Sprintf("enrollment references unknown course %q", courseId)}
		}
		students[studentId] = true // Duplicated enrollments collapse into the same entry
	}

	for i := range input.Courses {
		enrollment := uint64(len(input.Students[input.Courses[i].Id]))
		input.Courses[i].Enrollment = enrollment
		input.Enrollment[input.Courses[i].Id] = enrollment
	}

	input.ConflictGraph = buildConflictGraph(input.Courses, input.Students)
	return input, nil
}

func requireFields(relation string, row int, fields map[string]string) error {
	missing := lo.Filter(lo.Keys(fields), func(field string, _ int) bool { return fields[field] == "" })
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return &DataError{Relation: relation, Row: row, Reason: fmt.Sprintf("missing required field(s) %v", strings.Join(missing, ", "))}
}

// parseAvailability splits a delimiter-separated list of timeslot ids; an empty field is an empty availability
func parseAvailability(field string, delimiter string) (map[string]bool, error) {
	availability := make(map[string]bool)
	field = strings.TrimSpace(field)
	if field == "" {
		return availability, nil
	}

	for _, token := range strings.Split(field, delimiter) {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("availability list %q contains an empty timeslot id", field)
		}
		availability[token] = true
	}
	return availability, nil
}

func buildConflictGraph(courses []Course, students map[string]map[string]bool) [][]bool {
	conflictGraph := make([][]bool, len(courses))
	for i := range courses {
		conflictGraph[i] = make([]bool, len(courses))
	}

	for i := 0; i < len(courses)-1; i++ {
		for j := i + 1; j < len(courses); j++ {
			students1, students2 := students[courses[i].Id], students[courses[j].Id]

			// Verify course1 and course2 have a student in common
			if lo.SomeBy(lo.Keys(students1), func(student string) bool {
				return students2[student]
			}) {
				conflictGraph[i][j] = true
				conflictGraph[j][i] = true
			}
		}
	}

	return conflictGraph
}
