package mocksolver

import (
	"context"
	"testing"

	"github.com/ohowland/ehub_core/internal/pkg/optimize"
	"github.com/ohowland/ehub_core/internal/pkg/solver"
	"gotest.tools/assert"
)

func TestReplaysScript(t *testing.T) {
	slv := New(func(obj optimize.Objective, _ solver.Options) (solver.Result, error) {
		if obj.Col == 3 {
			return solver.Result{Status: solver.OK, Objective: 42}, nil
		}
		return solver.Result{Status: solver.Infeasible}, nil
	})

	res, err := slv.Solve(context.Background(), optimize.Model{}, optimize.Objective{Col: 3}, solver.DefaultOptions())
	assert.NilError(t, err)
	assert.Equal(t, res.Objective, 42.0)

	res, _ = slv.Solve(context.Background(), optimize.Model{}, optimize.Objective{Col: 0}, solver.DefaultOptions())
	assert.Equal(t, res.Status, solver.Infeasible)
}

func TestRecordsCalls(t *testing.T) {
	slv := New(func(optimize.Objective, solver.Options) (solver.Result, error) {
		return solver.Result{Status: solver.OK}, nil
	})

	opts := solver.DefaultOptions()
	slv.Solve(context.Background(), optimize.Model{}, optimize.Objective{Col: 1}, opts)
	slv.Solve(context.Background(), optimize.Model{}, optimize.Objective{Col: 2}, opts.Relaxed())

	calls := slv.Calls()
	assert.Equal(t, len(calls), 2)
	assert.Equal(t, calls[0].Obj.Col, 1)
	assert.Equal(t, calls[1].Opts.MIPGap, opts.MIPGap*10)
}
