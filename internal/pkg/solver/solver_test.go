package solver

import (
	"errors"
	"testing"

	"gotest.tools/assert"
)

func TestRelaxedLoosensTolerances(t *testing.T) {
	opts := DefaultOptions()
	relaxed := opts.Relaxed()

	assert.Equal(t, relaxed.MIPGap, opts.MIPGap*10)
	assert.Equal(t, relaxed.IntegralityTol, opts.IntegralityTol*100)
	// the time budget is not relaxed
	assert.Equal(t, relaxed.TimeLimit, opts.TimeLimit)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, OK.String(), "OK")
	assert.Equal(t, Infeasible.String(), "INFEASIBLE")
	assert.Equal(t, Timeout.String(), "TIMEOUT")
	assert.Equal(t, Error.String(), "ERROR")
}

func TestSolveErrorUnwraps(t *testing.T) {
	cause := errors.New("numerical trouble")
	err := &SolveError{Op: "step 3", Status: Error, Err: cause}
	assert.Assert(t, errors.Is(err, cause))
}
