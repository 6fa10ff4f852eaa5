package model

import (
	"fmt"
	"strings"
)

// DataError reports a malformed or missing field in one of the input relations
type DataError struct {
	Relation string
	Row      int // 1-based data row, 0 when the error is not tied to a row
	Reason   string
}

func (err *DataError) Error() string {
	if err.Row > 0 {
		return fmt.Sprintf("invalid %v (row %d): %v", err.Relation, err.Row, err.Reason)
	}
	return fmt.Sprintf("invalid %v: %v", err.Relation, err.Reason)
}

// InfeasibleError reports that no schedule satisfies every hard constraint (or none was found within the time budget)
type InfeasibleError struct {
	TimedOut bool
	Reason   string
}

func (err *InfeasibleError) Error() string {
	var builder strings.Builder
	if err.TimedOut {
		builder.WriteString("no feasible schedule found within the time budget")
	} else {
		builder.WriteString("no feasible schedule found")
	}
	if err.Reason != "" {
		fmt.Fprintf(&builder, ": %v", err.Reason)
	}
	builder.WriteString(". Check instructor availability and room capacities, or add rooms/timeslots")
	return builder.String()
}

// EngineError wraps a failure of the solving engine itself
type EngineError struct {
	Err error
}

func (err *EngineError) Error() string {
	return fmt.Sprintf("solving engine failed: %v", err.Err)
}

func (err *EngineError) Unwrap() error {
	return err.Err
}

// ConsistencyError reports an assignment that breaks an invariant the model guarantees
type ConsistencyError struct {
	Reason string
}

func (err *ConsistencyError) Error() string {
	return fmt.Sprintf("inconsistent solver assignment: %v", err.Reason)
}
