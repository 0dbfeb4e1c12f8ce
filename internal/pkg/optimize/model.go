package optimize

import (
	"fmt"
	"math"
)

// Variable is one column of the model with its domain.
type Variable struct {
	Name    string
	Lower   float64
	Upper   float64
	Integer bool
}

// Row is one linear constraint: Lower <= sum(Coeffs[col]*x[col]) <= Upper.
// Equalities have Lower == Upper.
type Row struct {
	Name   string
	Lower  float64
	Upper  float64
	Coeffs map[int]float64
}

// Model is the assembled MILP: a variable table, the constraint rows, and
// the column index. It is a value built once from a validated registry and
// never mutated afterwards; solvers work against copies of its bounds.
type Model struct {
	Vars []Variable
	Rows []Row
	Idx  Index

	// Set members in declaration order, for decoding assignments.
	Time    []int
	Inputs  []string
	Outputs []string
}

// Objective selects the column to minimize. Caps are additional upper bounds
// layered onto column bounds by the solver for this solve only; the epsilon
// carbon bound of the Pareto sweep travels here so the shared model is never
// written to.
type Objective struct {
	Col  int
	Caps map[int]float64
}

// MinimizeCost returns the objective minimizing total cost, optionally
// subject to an upper bound on total carbon.
func (m Model) MinimizeCost(carbonCap *float64) Objective {
	obj := Objective{Col: m.Idx.TotalCost()}
	if carbonCap != nil {
		obj.Caps = map[int]float64{m.Idx.TotalCarbon(): *carbonCap}
	}
	return obj
}

// MinimizeCarbon returns the objective minimizing total carbon.
func (m Model) MinimizeCarbon() Objective {
	return Objective{Col: m.Idx.TotalCarbon()}
}

// Check evaluates a candidate assignment against every bound, integrality
// requirement, and row of the model. The first violation beyond tol is
// returned; nil means the assignment is feasible to within tol.
func (m Model) Check(values []float64, tol float64) error {
	if len(values) != len(m.Vars) {
		return fmt.Errorf("assignment has %d values, model has %d variables", len(values), len(m.Vars))
	}
	for col, v := range m.Vars {
		x := values[col]
		if x < v.Lower-tol || x > v.Upper+tol {
			return fmt.Errorf("variable %s = %g outside [%g,%g]", v.Name, x, v.Lower, v.Upper)
		}
		if v.Integer && math.Abs(x-math.Round(x)) > tol {
			return fmt.Errorf("variable %s = %g is not integral", v.Name, x)
		}
	}
	for _, row := range m.Rows {
		var sum float64
		for col, coeff := range row.Coeffs {
			sum += coeff * values[col]
		}
		// scale ignores infinite bounds; an open side must not widen the
		// violation window on the closed side.
		scale := 1.0
		if !math.IsInf(row.Lower, 0) {
			scale = math.Max(scale, math.Abs(row.Lower))
		}
		if !math.IsInf(row.Upper, 0) {
			scale = math.Max(scale, math.Abs(row.Upper))
		}
		if sum < row.Lower-tol*scale || sum > row.Upper+tol*scale {
			return fmt.Errorf("constraint %s: %g outside [%g,%g]", row.Name, sum, row.Lower, row.Upper)
		}
	}
	return nil
}

// Index maps the structured decision variables onto a flat column space.
// The layout is deterministic: two models built from the same registry get
// identical indices.
type Index struct {
	nT, nI, nO int

	p, export, y, capacity int
	qin, qout, soc         int
	yStor, storCap         int
	scalar                 int
}

func newIndex(nT, nI, nO int) Index {
	ix := Index{nT: nT, nI: nI, nO: nO}
	off := 0
	ix.p = off
	off += nT * nI
	ix.export = off
	off += nT * nO
	ix.y = off
	off += nI
	ix.capacity = off
	off += nI
	ix.qin = off
	off += nT * nO
	ix.qout = off
	off += nT * nO
	ix.soc = off
	off += nT * nO
	ix.yStor = off
	off += nO
	ix.storCap = off
	off += nO
	ix.scalar = off
	return ix
}

// P is the input energy stream of technology i at time step t.
func (ix Index) P(t, i int) int { return ix.p + t*ix.nI + i }

// Export is the exported energy of output o at time step t.
func (ix Index) Export(t, o int) int { return ix.export + t*ix.nO + o }

// Y is the binary installation flag of technology i.
func (ix Index) Y(i int) int { return ix.y + i }

// Capacity is the installed capacity of technology i.
func (ix Index) Capacity(i int) int { return ix.capacity + i }

// Qin is the storage charging rate for output o at time step t.
func (ix Index) Qin(t, o int) int { return ix.qin + t*ix.nO + o }

// Qout is the storage discharging rate for output o at time step t.
func (ix Index) Qout(t, o int) int { return ix.qout + t*ix.nO + o }

// SOC is the storage state of charge for output o at time step t.
func (ix Index) SOC(t, o int) int { return ix.soc + t*ix.nO + o }

// YStor is the binary installation flag of the storage for output o.
func (ix Index) YStor(o int) int { return ix.yStor + o }

// StorageCap is the installed storage capacity for output o.
func (ix Index) StorageCap(o int) int { return ix.storCap + o }

// The five objective-component scalars.
func (ix Index) OperatingCost() int    { return ix.scalar }
func (ix Index) IncomeViaExports() int { return ix.scalar + 1 }
func (ix Index) InvestmentCost() int   { return ix.scalar + 2 }
func (ix Index) TotalCost() int        { return ix.scalar + 3 }
func (ix Index) TotalCarbon() int      { return ix.scalar + 4 }

// NumVars is the total column count.
func (ix Index) NumVars() int { return ix.scalar + 5 }
