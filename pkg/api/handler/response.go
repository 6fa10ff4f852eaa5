package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/limaJavier/coursetable/pkg/model"
)

// Response is the envelope of every JSON answer
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error codes carried next to the HTTP status
const (
	CodeOK = iota
	CodeBadRequest
	CodeDataError
	CodeInfeasible
	CodeTimedOut
	CodeEngineError
	CodeConsistencyError
	CodeTooLarge
	CodeInternal
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: CodeOK, Message: "success", Data: data})
}

func fail(c *gin.Context, status int, code int, message string) {
	c.AbortWithStatusJSON(status, Response{Code: code, Message: message})
}

// failWith maps the typed failures of the timetabling core onto HTTP statuses
func failWith(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		dataErr        *model.DataError
		infeasibleErr  *model.InfeasibleError
		engineErr      *model.EngineError
		consistencyErr *model.ConsistencyError
		maxBytesErr    *http.MaxBytesError
	)

	switch {
	case errors.As(err, &dataErr):
		fail(c, http.StatusBadRequest, CodeDataError, err.Error())
	case errors.As(err, &infeasibleErr):
		fail(c, http.StatusUnprocessableEntity, lo.Ternary(infeasibleErr.TimedOut, CodeTimedOut, CodeInfeasible), err.Error())
	case errors.As(err, &engineErr):
		fail(c, http.StatusBadGateway, CodeEngineError, err.Error())
	case errors.As(err, &consistencyErr):
		fail(c, http.StatusInternalServerError, CodeConsistencyError, err.Error())
	case errors.As(err, &maxBytesErr):
		fail(c, http.StatusRequestEntityTooLarge, CodeTooLarge, "request body too large")
	default:
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
