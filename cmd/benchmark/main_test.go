package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/coursetable/pkg/model"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("00:01:01.12"))
	assert.Equal(t, int64(60*60*1000+60*1000+1000+120), parseDuration("01:01:01.12"))
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("1:01.12"))
	assert.Equal(t, int64(120), parseDuration("0:00.12"))
	assert.Equal(t, int64(120), parseDuration("00:00:00.12"))
}

func TestParseTimeLines(t *testing.T) {
	assert.Equal(t, int64(2500), parseDurationLine("\tElapsed (wall clock) time (h:mm:ss or m:ss): 0:02.50"))
	assert.Equal(t, float32(2), parseMemoryLine("\tMaximum resident set size (kbytes): 2048"))
	assert.Equal(t, int64(97), parseCpuPercentageLine("\tPercent of CPU this job got: 97%"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"gophersat", "kissat"}, splitList(" gophersat, ,kissat"))
}

func TestToCsv(t *testing.T) {
	//** Arrange
	raw := model.RawModelInput{
		Courses:     make([]model.RawCourse, 3),
		Rooms:       make([]model.RawRoom, 2),
		Enrollments: make([]model.RawEnrollment, 7),
	}
	results := []BenchmarkResult{
		{Solver: "gophersat", Strategy: "pure", Test: testMetadata("week.json", true, raw), Duration: 42, Memory: 12.5, CpuPercentage: 99, Result: solved},
		{Solver: "kissat", Strategy: "postponed", Test: testMetadata("clash.json", false, raw), Duration: 7, Memory: 3, CpuPercentage: 50, Result: infeasible},
	}
	buffer := new(bytes.Buffer)

	//** Act
	err := toCsv(buffer, results)

	//** Assert
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "gophersat,pure,week.json,true,3,2,0,0,7,42,12.5,99,solved", lines[1])
	assert.Equal(t, "kissat,postponed,clash.json,false,3,2,0,0,7,7,3.0,50,infeasible", lines[2])
}
