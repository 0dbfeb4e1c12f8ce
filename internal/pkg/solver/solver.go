package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/ohowland/ehub_core/internal/pkg/optimize"
)

// Status classifies the outcome of one solve.
type Status int

const (
	OK Status = iota
	Infeasible
	Timeout
	Error
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Infeasible:
		return "INFEASIBLE"
	case Timeout:
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// Options control one solve.
type Options struct {
	TimeLimit      time.Duration
	MIPGap         float64
	IntegralityTol float64
}

// DefaultOptions returns the tolerances used when a caller does not care.
func DefaultOptions() Options {
	return Options{
		TimeLimit:      5 * time.Minute,
		MIPGap:         1e-4,
		IntegralityTol: 1e-9,
	}
}

// Relaxed loosens the numerical tolerances for a retry after a failed solve.
func (o Options) Relaxed() Options {
	o.MIPGap *= 10
	o.IntegralityTol *= 100
	return o
}

// Result carries the solve outcome: the status, the objective value, and the
// full variable assignment in model column order (valid only for OK).
type Result struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Solver submits a model with an objective to an external MILP solver. The
// model itself is read-only; the epsilon bound of a Pareto step arrives
// through the objective's column caps.
type Solver interface {
	Solve(ctx context.Context, m optimize.Model, obj optimize.Objective, opts Options) (Result, error)
}

// InfeasibleError reports that a solve proved the model infeasible. For the
// extreme solves of the sweep (and for single-solve mode) this is fatal: the
// hub has no feasible design.
type InfeasibleError struct {
	Op string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("%s: model is infeasible", e.Op)
}

// SolveError reports a solver failure: a timeout, a numerical breakdown, or
// any status that is neither optimal nor infeasible.
type SolveError struct {
	Op     string
	Status Status
	Err    error
}

func (e *SolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: solver returned %v: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: solver returned %v", e.Op, e.Status)
}

func (e *SolveError) Unwrap() error { return e.Err }
