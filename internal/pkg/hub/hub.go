// Package hub wires a validated dataset, the assembled MILP, a solver, and
// the Pareto sweep into the energy hub's public entry point.
package hub

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/ohowland/ehub_core/internal/pkg/datasource"
	"github.com/ohowland/ehub_core/internal/pkg/msg"
	"github.com/ohowland/ehub_core/internal/pkg/optimize"
	"github.com/ohowland/ehub_core/internal/pkg/pareto"
	"github.com/ohowland/ehub_core/internal/pkg/registry"
	"github.com/ohowland/ehub_core/internal/pkg/solver"
)

// Result is one solved hub design: the objective breakdown and the sizing
// decisions, plus the raw assignment for collaborators that want all of it.
type Result struct {
	Cost              float64
	Carbon            float64
	OperatingCost     float64
	IncomeViaExports  float64
	InvestmentCost    float64
	Capacities        map[string]float64
	StorageCapacities map[string]float64
	Installed         map[string]bool
	Assignment        []float64
}

// Hub holds the built model and drives solves against it. The model is
// assembled once at construction; solves never mutate it.
type Hub struct {
	mux       *sync.Mutex
	pid       uuid.UUID
	publisher *msg.PubSub
	registry  *registry.Registry
	model     optimize.Model
	slv       solver.Solver
	numPareto int
	opts      solver.Options
	workers   int
}

// New validates the dataset, builds the model, and returns a ready hub.
// Validation failures surface here, before any solver is touched.
func New(ds datasource.Dataset, numParetoPoints int, slv solver.Solver) (*Hub, error) {
	reg, err := registry.New(ds)
	if err != nil {
		return nil, err
	}
	model, err := optimize.Build(reg)
	if err != nil {
		return nil, err
	}

	pid, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}

	return &Hub{
		mux:       &sync.Mutex{},
		pid:       pid,
		publisher: msg.NewPublisher(pid),
		registry:  reg,
		model:     model,
		slv:       slv,
		numPareto: numParetoPoints,
		opts:      solver.DefaultOptions(),
		workers:   1,
	}, nil
}

// PID is a getter for the hub PID.
func (h *Hub) PID() uuid.UUID {
	return h.pid
}

// Subscribe returns a read only channel for the topic parameter.
func (h *Hub) Subscribe(pid uuid.UUID, topic msg.Topic) (<-chan msg.Msg, error) {
	return h.publisher.Subscribe(pid, topic)
}

// Unsubscribe pid from all topic broadcasts.
func (h *Hub) Unsubscribe(pid uuid.UUID) {
	h.publisher.Unsubscribe(pid)
}

// Model returns the assembled model. Callers must treat it as read-only.
func (h *Hub) Model() optimize.Model {
	return h.model
}

// SetSolveOptions overrides the per-solve solver settings.
func (h *Hub) SetSolveOptions(opts solver.Options) {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.opts = opts
}

// SetWorkers bounds the number of concurrent Pareto solves.
func (h *Hub) SetWorkers(n int) {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.workers = n
}

// SolveSingle minimizes total cost with no carbon bound. Infeasibility is
// fatal in this mode: the hub has no feasible design at all.
func (h *Hub) SolveSingle(ctx context.Context) (Result, error) {
	log.Println("[Hub] single cost-optimal solve")
	h.publisher.Publish(msg.Status, "solving")
	res, err := h.solveWithRetry(ctx, "hub: single solve", h.model.MinimizeCost(nil))
	if err != nil {
		h.publisher.Publish(msg.Status, "failed")
		return Result{}, err
	}
	h.publisher.Publish(msg.Status, "solved")
	result := h.decode(res.Values)
	h.publisher.Publish(msg.Result, result)
	return result, nil
}

// SolvePareto traces the cost-carbon frontier with the epsilon-constraint
// sweep. The returned frontier may be partial; skipped steps carry reasons.
func (h *Hub) SolvePareto(ctx context.Context) (pareto.Frontier, error) {
	h.mux.Lock()
	cfg := pareto.Config{
		NumPoints: h.numPareto,
		Workers:   h.workers,
		Options:   h.opts,
		Publisher: h.publisher,
	}
	h.mux.Unlock()

	sweep, err := pareto.New(h.model, h.slv, cfg)
	if err != nil {
		return pareto.Frontier{}, err
	}
	log.Printf("[Hub] pareto sweep, %d points", h.numPareto)
	h.publisher.Publish(msg.Status, "solving")
	frontier, err := sweep.Run(ctx)
	if err != nil {
		h.publisher.Publish(msg.Status, "failed")
		return pareto.Frontier{}, err
	}
	h.publisher.Publish(msg.Status, "solved")
	for _, p := range frontier.Points {
		result := h.decode(p.Assignment)
		h.publisher.Publish(msg.Result, result)
	}
	return frontier, nil
}

func (h *Hub) solveWithRetry(ctx context.Context, op string, obj optimize.Objective) (solver.Result, error) {
	res, err := h.slv.Solve(ctx, h.model, obj, h.opts)
	if err == nil && res.Status == solver.OK {
		return res, nil
	}
	if res.Status == solver.Infeasible {
		return res, &solver.InfeasibleError{Op: op}
	}

	log.Printf("[Hub] %s: %v, retrying with relaxed tolerances", op, res.Status)
	res, err = h.slv.Solve(ctx, h.model, obj, h.opts.Relaxed())
	if err == nil && res.Status == solver.OK {
		return res, nil
	}
	if res.Status == solver.Infeasible {
		return res, &solver.InfeasibleError{Op: op}
	}
	return res, &solver.SolveError{Op: op, Status: res.Status, Err: err}
}

// decode maps a raw assignment back onto named design decisions.
func (h *Hub) decode(values []float64) Result {
	ix := h.model.Idx
	result := Result{
		Cost:              values[ix.TotalCost()],
		Carbon:            values[ix.TotalCarbon()],
		OperatingCost:     values[ix.OperatingCost()],
		IncomeViaExports:  values[ix.IncomeViaExports()],
		InvestmentCost:    values[ix.InvestmentCost()],
		Capacities:        make(map[string]float64),
		StorageCapacities: make(map[string]float64),
		Installed:         make(map[string]bool),
		Assignment:        values,
	}
	for i, inp := range h.model.Inputs {
		result.Capacities[inp] = values[ix.Capacity(i)]
		result.Installed[inp] = values[ix.Y(i)] > 0.5
	}
	for o, out := range h.model.Outputs {
		result.StorageCapacities[out] = values[ix.StorageCap(o)]
	}
	return result
}
