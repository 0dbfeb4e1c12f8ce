package optimize

import (
	"fmt"
	"math"

	"github.com/ohowland/ehub_core/internal/pkg/registry"
)

// Build assembles the complete hub model from a validated registry: every
// decision variable with its domain, every constraint family, and the
// objective accounting rows. Build is pure; it reads only the registry and
// produces structurally identical models for identical inputs.
func Build(r *registry.Registry) (Model, error) {
	ds := r.Data()
	nT, nI, nO := len(ds.Time), len(ds.Inputs), len(ds.Outputs)
	ix := newIndex(nT, nI, nO)

	m := Model{
		Vars:    declareVariables(r, ix),
		Idx:     ix,
		Time:    append([]int(nil), ds.Time...),
		Inputs:  append([]string(nil), ds.Inputs...),
		Outputs: append([]string(nil), ds.Outputs...),
	}

	m.Rows = append(m.Rows, loadBalanceRows(r, ix)...)
	m.Rows = append(m.Rows, dispatchCapacityRows(r, ix)...)
	m.Rows = append(m.Rows, solarGenerationRows(r, ix)...)
	m.Rows = append(m.Rows, installLinkingRows(r, ix)...)
	m.Rows = append(m.Rows, storageDynamicsRows(r, ix)...)
	m.Rows = append(m.Rows, storageRateRows(r, ix)...)
	m.Rows = append(m.Rows, storageEnergyCapRows(r, ix)...)
	m.Rows = append(m.Rows, storageInstallLinkingRows(r, ix)...)
	m.Rows = append(m.Rows, roofAreaRows(r, ix)...)
	m.Rows = append(m.Rows, accountingRows(r, ix)...)

	return m, nil
}

func declareVariables(r *registry.Registry, ix Index) []Variable {
	ds := r.Data()
	vars := make([]Variable, ix.NumVars())
	inf := math.Inf(1)

	nonneg := func(col int, name string) {
		vars[col] = Variable{Name: name, Lower: 0, Upper: inf}
	}
	binary := func(col int, name string) {
		vars[col] = Variable{Name: name, Lower: 0, Upper: 1, Integer: true}
	}

	for t, step := range ds.Time {
		for i, inp := range ds.Inputs {
			nonneg(ix.P(t, i), fmt.Sprintf("P[%d,%s]", step, inp))
		}
		for o, out := range ds.Outputs {
			nonneg(ix.Export(t, o), fmt.Sprintf("P_export[%d,%s]", step, out))
			nonneg(ix.Qin(t, o), fmt.Sprintf("Qin[%d,%s]", step, out))
			nonneg(ix.Qout(t, o), fmt.Sprintf("Qout[%d,%s]", step, out))
			nonneg(ix.SOC(t, o), fmt.Sprintf("E[%d,%s]", step, out))
		}
	}
	for i, inp := range ds.Inputs {
		binary(ix.Y(i), fmt.Sprintf("y[%s]", inp))
		nonneg(ix.Capacity(i), fmt.Sprintf("Capacity[%s]", inp))
	}
	for o, out := range ds.Outputs {
		binary(ix.YStor(o), fmt.Sprintf("y_stor[%s]", out))
		// The maximum allowable storage capacity is a hard column bound.
		vars[ix.StorageCap(o)] = Variable{
			Name:  fmt.Sprintf("Storage_cap[%s]", out),
			Lower: 0,
			Upper: ds.StorageMaxCap[out],
		}
	}

	nonneg(ix.OperatingCost(), "Operating_cost")
	nonneg(ix.IncomeViaExports(), "Income_via_exports")
	nonneg(ix.InvestmentCost(), "Investment_cost")
	nonneg(ix.TotalCost(), "Total_cost")
	nonneg(ix.TotalCarbon(), "Total_carbon")

	return vars
}
