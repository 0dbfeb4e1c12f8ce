// Package mocksolver provides a scripted solver for tests.
package mocksolver

import (
	"context"
	"sync"

	"github.com/ohowland/ehub_core/internal/pkg/optimize"
	"github.com/ohowland/ehub_core/internal/pkg/solver"
)

// Script decides the outcome of one solve given the requested objective.
type Script func(obj optimize.Objective, opts solver.Options) (solver.Result, error)

// Call records one solve request.
type Call struct {
	Obj  optimize.Objective
	Opts solver.Options
}

// Solver replays a Script and records every call it receives.
type Solver struct {
	mux    *sync.Mutex
	script Script
	calls  []Call
}

func New(script Script) *Solver {
	return &Solver{mux: &sync.Mutex{}, script: script}
}

func (s *Solver) Solve(_ context.Context, _ optimize.Model, obj optimize.Objective, opts solver.Options) (solver.Result, error) {
	s.mux.Lock()
	s.calls = append(s.calls, Call{Obj: obj, Opts: opts})
	s.mux.Unlock()
	return s.script(obj, opts)
}

// Calls returns a copy of the recorded solve requests.
func (s *Solver) Calls() []Call {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]Call(nil), s.calls...)
}
