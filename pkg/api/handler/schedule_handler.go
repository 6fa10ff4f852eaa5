package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/limaJavier/coursetable/pkg/api/middleware"
	"github.com/limaJavier/coursetable/pkg/model"
	"github.com/limaJavier/coursetable/pkg/relations"
	"github.com/limaJavier/coursetable/pkg/sat"
)

// WorkbookField is the multipart field carrying all five relations as one .xlsx workbook
const WorkbookField = "workbook"

// Options are the defaults of every scheduling request
type Options struct {
	Strategy  string
	Budget    time.Duration
	Delimiter string
}

// ScheduleHandler turns uploaded relations into a schedule
type ScheduleHandler struct {
	solver  sat.Solver
	options Options
	logger  *zap.Logger
}

func NewScheduleHandler(solver sat.Solver, options Options, logger *zap.Logger) *ScheduleHandler {
	if options.Delimiter == "" {
		options.Delimiter = model.DefaultDelimiter
	}
	return &ScheduleHandler{solver: solver, options: options, logger: logger}
}

// ScheduleResponse is the JSON answer of a successful request
type ScheduleResponse struct {
	Schedule    model.Schedule `json:"schedule"`
	Variables   uint64         `json:"variables"`
	Constraints uint64         `json:"constraints"`
}

// CreateSchedule builds a schedule from the uploaded relations
// POST /api/v1/schedules?format=json|csv|xlsx&strategy=pure|postponed
// Either the five CSV files (courses, rooms, instructors, timeslots, enrollments) or one workbook file.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	format, err := relations.ParseFormat(c.DefaultQuery("format", string(relations.JSON)))
	if err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	timetabler, err := model.NewTimetabler(c.DefaultQuery("strategy", h.options.Strategy), h.solver, h.options.Budget, h.logger.With(zap.String("request_id", c.GetString(middleware.RequestIDKey))))
	if err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
			fail(c, http.StatusRequestEntityTooLarge, CodeTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("a multipart form is required: %v", err))
		return
	}

	raw, err := readRelations(form)
	if err != nil {
		failWith(c, err)
		return
	}

	input, err := model.ProcessRawInput(raw, h.options.Delimiter)
	if err != nil {
		failWith(c, err)
		return
	}

	schedule, variables, constraints, err := timetabler.Build(c.Request.Context(), input)
	if err != nil {
		failWith(c, err)
		return
	}
	if err := timetabler.Verify(schedule, input); err != nil {
		failWith(c, &model.ConsistencyError{Reason: err.Error()})
		return
	}

	c.Header("X-Model-Variables", fmt.Sprint(variables))
	c.Header("X-Model-Constraints", fmt.Sprint(constraints))

	if format == relations.JSON {
		ok(c, ScheduleResponse{Schedule: schedule, Variables: variables, Constraints: constraints})
		return
	}

	buffer := new(bytes.Buffer)
	if err := relations.Write(buffer, format, schedule); err != nil {
		failWith(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=schedule.%v", format))
	c.Data(http.StatusOK, format.ContentType(), buffer.Bytes())
}

// Ping answers health checks
// GET /api/v1/ping
func (h *ScheduleHandler) Ping(c *gin.Context) {
	ok(c, gin.H{"status": "ok"})
}

func readRelations(form *multipart.Form) (model.RawModelInput, error) {
	if files := form.File[WorkbookField]; len(files) > 0 {
		file, err := files[0].Open()
		if err != nil {
			return model.RawModelInput{}, &model.DataError{Relation: WorkbookField, Reason: err.Error()}
		}
		defer file.Close()
		return relations.ReadWorkbook(file)
	}

	readers := make(map[string]io.Reader, len(relations.Names))
	for _, relation := range relations.Names {
		files := form.File[relation]
		if len(files) == 0 {
			return model.RawModelInput{}, &model.DataError{Relation: relation, Reason: fmt.Sprintf("missing %q file (or a %q file holding every relation)", relation, WorkbookField)}
		}

		file, err := files[0].Open()
		if err != nil {
			return model.RawModelInput{}, &model.DataError{Relation: relation, Reason: err.Error()}
		}
		defer file.Close()
		readers[relation] = file
	}
	return relations.ReadCSV(readers)
}
