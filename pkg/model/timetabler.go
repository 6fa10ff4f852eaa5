package model

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/limaJavier/coursetable/pkg/sat"
	"go.uber.org/zap"
)

// DefaultTimeBudget bounds the wall-clock time granted to the solving engine
const DefaultTimeBudget = 10 * time.Second

type Timetabler interface {
	// Build places every course of the input in a (timeslot, room) pair. It returns the schedule together with
	// the size of the submitted problem, or one of DataError, InfeasibleError, EngineError and ConsistencyError.
	Build(
		ctx context.Context,
		modelInput ModelInput,
	) (schedule Schedule, variables uint64, constraints uint64, err error)

	// Verify checks a schedule against every hard constraint of the input
	Verify(
		schedule Schedule,
		modelInput ModelInput,
	) error
}

var strategies = map[string]func(solver sat.Solver, budget time.Duration, logger *zap.Logger) Timetabler{
	"pure":      NewEmbeddedRoomTimetabler,
	"postponed": NewIsolatedRoomTimetabler,
}

// StrategyNames lists the strategies accepted by NewTimetabler
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewTimetabler returns the timetabler registered under strategy:
//   - "pure": rooms are part of every assignment variable, so a schedule is found if one exists
//   - "postponed": courses are placed in timeslots first and rooms are matched afterwards (smaller model, may miss solutions)
func NewTimetabler(strategy string, solver sat.Solver, budget time.Duration, logger *zap.Logger) (Timetabler, error) {
	constructor, ok := strategies[strings.ToLower(strategy)]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid strategy, allowed values are %v", strategy, StrategyNames())
	}
	return constructor(solver, budget, logger), nil
}

func normalizeOptions(budget time.Duration, logger *zap.Logger) (time.Duration, *zap.Logger) {
	if budget <= 0 {
		budget = DefaultTimeBudget
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return budget, logger
}
