// Package highssolver adapts the hub model to the HiGHS MILP solver.
package highssolver

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/bartolsthoorn/gohighs/highs"
	"github.com/ohowland/ehub_core/internal/pkg/optimize"
	"github.com/ohowland/ehub_core/internal/pkg/solver"
)

// Solver is the HiGHS-backed solver adapter. The zero value is ready to use.
type Solver struct{}

func New() *Solver {
	return &Solver{}
}

// Solve translates the model, submits it to HiGHS, and maps the termination
// status back onto the solver taxonomy. The context deadline is enforced
// through the HiGHS time limit.
func (s *Solver) Solve(ctx context.Context, m optimize.Model, obj optimize.Objective, opts solver.Options) (solver.Result, error) {
	if err := ctx.Err(); err != nil {
		return solver.Result{Status: solver.Timeout}, err
	}

	hm := translate(m, obj)

	limit := opts.TimeLimit
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < limit {
			limit = remaining
		}
	}

	sol, err := hm.Solve(
		highs.WithOutput(false),
		highs.WithTimeLimit(limit.Seconds()),
		highs.WithMIPRelGap(opts.MIPGap),
		highs.WithFloatOption("mip_feasibility_tolerance", opts.IntegralityTol),
	)
	if err != nil {
		return solver.Result{Status: solver.Error}, err
	}

	switch {
	case sol.IsOptimal():
		return solver.Result{
			Status:    solver.OK,
			Objective: sol.Objective,
			Values:    sol.ColValues,
		}, nil
	case sol.IsInfeasible():
		return solver.Result{Status: solver.Infeasible}, nil
	case sol.IsTimeLimit():
		return solver.Result{Status: solver.Timeout}, nil
	default:
		return solver.Result{Status: solver.Error}, nil
	}
}

// translate maps the immutable hub model plus a per-solve objective onto the
// HiGHS model form. Column caps from the objective tighten upper bounds in
// the translated copy only; the source model is never written to.
func translate(m optimize.Model, obj optimize.Objective) highs.Model {
	n := len(m.Vars)
	hm := highs.Model{
		ColCosts: make([]float64, n),
		ColLower: make([]float64, n),
		ColUpper: make([]float64, n),
		VarTypes: make([]highs.VariableType, n),
	}
	hm.ColCosts[obj.Col] = 1

	for col, v := range m.Vars {
		hm.ColLower[col] = v.Lower
		hm.ColUpper[col] = v.Upper
		if v.Integer {
			hm.VarTypes[col] = highs.Integer
		} else {
			hm.VarTypes[col] = highs.Continuous
		}
	}
	for col, ub := range obj.Caps {
		hm.ColUpper[col] = math.Min(hm.ColUpper[col], ub)
	}

	for _, row := range m.Rows {
		cols := make([]int, 0, len(row.Coeffs))
		for col := range row.Coeffs {
			cols = append(cols, col)
		}
		sort.Ints(cols)
		vals := make([]float64, len(cols))
		for i, col := range cols {
			vals[i] = row.Coeffs[col]
		}
		hm.AddSparseRow(row.Lower, cols, vals, row.Upper)
	}
	return hm
}
