// Package pareto traces the cost-carbon trade-off frontier of a hub model
// with the epsilon-constraint method: repeated cost-minimizing solves under a
// sweep of carbon bounds between the two single-objective extremes.
package pareto

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ohowland/ehub_core/internal/pkg/msg"
	"github.com/ohowland/ehub_core/internal/pkg/optimize"
	"github.com/ohowland/ehub_core/internal/pkg/solver"
)

// Point is one solved frontier point.
type Point struct {
	Step       int
	Epsilon    float64
	Cost       float64
	Carbon     float64
	Assignment []float64
}

// Skip records a frontier step that could not be solved, with the reason.
// Intermediate steps are only ever infeasible through numerical trouble, so
// a skip is diagnostic rather than fatal.
type Skip struct {
	Step    int
	Epsilon float64
	Reason  string
}

// Frontier is the ordered sweep outcome: the points that solved, in step
// order, plus the steps that were skipped.
type Frontier struct {
	Points  []Point
	Skipped []Skip
}

// Extremes holds the two single-objective anchor solutions that bracket the
// frontier.
type Extremes struct {
	CostMin         float64
	CarbonAtCostMin float64
	CarbonMin       float64
	CostAtCarbonMin float64

	minCost   solver.Result
	minCarbon solver.Result
}

// Config parameterizes a sweep.
type Config struct {
	// NumPoints is the number of frontier points, including both extremes.
	NumPoints int
	// Workers bounds the number of concurrent intermediate solves.
	Workers int
	// Options are the per-solve solver settings.
	Options solver.Options
	// Publisher, when set, receives a Point on the Progress topic as each
	// step finishes.
	Publisher *msg.PubSub
}

// Sweep drives the epsilon-constraint sweep over a fixed, read-only model.
// Workers only ever layer a carbon cap onto their own solve; the model is
// never shared-mutated.
type Sweep struct {
	mux      *sync.Mutex
	model    optimize.Model
	slv      solver.Solver
	cfg      Config
	extremes *Extremes
}

// New returns a configured Sweep.
func New(m optimize.Model, slv solver.Solver, cfg Config) (*Sweep, error) {
	if cfg.NumPoints < 2 {
		return nil, fmt.Errorf("pareto: need at least 2 points, got %d", cfg.NumPoints)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Sweep{
		mux:   &sync.Mutex{},
		model: m,
		slv:   slv,
		cfg:   cfg,
	}, nil
}

// Run computes the ordered frontier. The two extreme solves are fatal on
// infeasibility; intermediate steps that fail are recorded as skipped and the
// partial frontier is still returned.
func (s *Sweep) Run(ctx context.Context) (Frontier, error) {
	ext, err := s.Extremes(ctx)
	if err != nil {
		return Frontier{}, err
	}

	n := s.cfg.NumPoints
	eps := s.epsilons(ext)

	points := make([]*Point, n)
	skips := make([]*Skip, n)

	costCol := s.model.Idx.TotalCost()
	points[0] = &Point{
		Step:       0,
		Epsilon:    eps[0],
		Cost:       ext.CostMin,
		Carbon:     ext.CarbonAtCostMin,
		Assignment: ext.minCost.Values,
	}
	s.publish(*points[0])
	points[n-1] = &Point{
		Step:       n - 1,
		Epsilon:    eps[n-1],
		Cost:       ext.minCarbon.Values[costCol],
		Carbon:     ext.CarbonMin,
		Assignment: ext.minCarbon.Values,
	}
	s.publish(*points[n-1])

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				point, skip := s.solveStep(ctx, k, eps[k])
				if point != nil {
					s.publish(*point)
				}
				s.mux.Lock()
				points[k] = point
				skips[k] = skip
				s.mux.Unlock()
			}
		}()
	}
	for k := 1; k < n-1; k++ {
		jobs <- k
	}
	close(jobs)
	wg.Wait()

	frontier := Frontier{}
	for k := 0; k < n; k++ {
		if points[k] != nil {
			frontier.Points = append(frontier.Points, *points[k])
		} else if skips[k] != nil {
			frontier.Skipped = append(frontier.Skipped, *skips[k])
			log.Printf("[Pareto] step %d skipped: %s", k, skips[k].Reason)
		}
	}
	return frontier, nil
}

// Extremes runs (and caches) the two anchor solves: minimum cost with no
// carbon bound, and minimum carbon with no cost bound.
func (s *Sweep) Extremes(ctx context.Context) (Extremes, error) {
	s.mux.Lock()
	cached := s.extremes
	s.mux.Unlock()
	if cached != nil {
		return *cached, nil
	}

	log.Println("[Pareto] solving cost extreme")
	minCost, err := s.solveWithRetry(ctx, "pareto: minimum cost", s.model.MinimizeCost(nil))
	if err != nil {
		return Extremes{}, err
	}
	log.Println("[Pareto] solving carbon extreme")
	minCarbon, err := s.solveWithRetry(ctx, "pareto: minimum carbon", s.model.MinimizeCarbon())
	if err != nil {
		return Extremes{}, err
	}

	ext := Extremes{
		CostMin:         minCost.Objective,
		CarbonAtCostMin: minCost.Values[s.model.Idx.TotalCarbon()],
		CarbonMin:       minCarbon.Objective,
		CostAtCarbonMin: minCarbon.Values[s.model.Idx.TotalCost()],
		minCost:         minCost,
		minCarbon:       minCarbon,
	}
	s.mux.Lock()
	s.extremes = &ext
	s.mux.Unlock()
	return ext, nil
}

// SolveAt reproduces the frontier point for step k independently of any
// previous Run: it solves minimum cost under the step's carbon bound.
func (s *Sweep) SolveAt(ctx context.Context, k int) (Point, error) {
	if k < 0 || k >= s.cfg.NumPoints {
		return Point{}, fmt.Errorf("pareto: step %d out of range [0,%d)", k, s.cfg.NumPoints)
	}
	ext, err := s.Extremes(ctx)
	if err != nil {
		return Point{}, err
	}
	eps := s.epsilons(ext)
	point, skip := s.solveStep(ctx, k, eps[k])
	if skip != nil {
		return Point{}, fmt.Errorf("pareto: step %d: %s", k, skip.Reason)
	}
	return *point, nil
}

// epsilons partitions [CarbonMin, CarbonAtCostMin] into NumPoints-1 equal
// steps, ordered from the unconstrained carbon level down to the minimum.
func (s *Sweep) epsilons(ext Extremes) []float64 {
	n := s.cfg.NumPoints
	eps := make([]float64, n)
	span := ext.CarbonAtCostMin - ext.CarbonMin
	for k := 0; k < n; k++ {
		eps[k] = ext.CarbonAtCostMin - span*float64(k)/float64(n-1)
	}
	return eps
}

func (s *Sweep) solveStep(ctx context.Context, k int, eps float64) (*Point, *Skip) {
	op := fmt.Sprintf("pareto: step %d", k)
	res, err := s.solveWithRetry(ctx, op, s.model.MinimizeCost(&eps))
	if err != nil {
		return nil, &Skip{Step: k, Epsilon: eps, Reason: err.Error()}
	}
	return &Point{
		Step:       k,
		Epsilon:    eps,
		Cost:       res.Objective,
		Carbon:     res.Values[s.model.Idx.TotalCarbon()],
		Assignment: res.Values,
	}, nil
}

// solveWithRetry submits one solve, retrying once with relaxed numerical
// tolerances after a timeout or solver failure. Infeasibility is never
// retried; the bound itself rules the step out.
func (s *Sweep) solveWithRetry(ctx context.Context, op string, obj optimize.Objective) (solver.Result, error) {
	res, err := s.solveOnce(ctx, obj, s.cfg.Options)
	if err == nil && res.Status == solver.OK {
		return res, nil
	}
	if res.Status == solver.Infeasible {
		return res, &solver.InfeasibleError{Op: op}
	}

	log.Printf("[Pareto] %s: %v, retrying with relaxed tolerances", op, res.Status)
	res, err = s.solveOnce(ctx, obj, s.cfg.Options.Relaxed())
	if err == nil && res.Status == solver.OK {
		return res, nil
	}
	if res.Status == solver.Infeasible {
		return res, &solver.InfeasibleError{Op: op}
	}
	return res, &solver.SolveError{Op: op, Status: res.Status, Err: err}
}

func (s *Sweep) solveOnce(ctx context.Context, obj optimize.Objective, opts solver.Options) (solver.Result, error) {
	solveCtx := ctx
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}
	return s.slv.Solve(solveCtx, s.model, obj, opts)
}

func (s *Sweep) publish(p Point) {
	if s.cfg.Publisher != nil {
		s.cfg.Publisher.Publish(msg.Progress, p)
	}
}
