package optimize

import (
	"fmt"
	"math"

	"github.com/ohowland/ehub_core/internal/pkg/registry"
)

// Constraint generators, one per constraint family. Each returns the rows it
// emits; the builder appends them to the model in a fixed order.

// loadBalanceRows ties generation, storage flows, demand and exports together
// for every time step and output. These are strict equalities: the hub
// balance admits no slack.
func loadBalanceRows(r *registry.Registry, ix Index) []Row {
	ds := r.Data()
	rows := make([]Row, 0, len(ds.Time)*len(ds.Outputs))
	for t, step := range ds.Time {
		for o, out := range ds.Outputs {
			coeffs := make(map[int]float64)
			for i, inp := range ds.Inputs {
				if eff := ds.Cmatrix[out][inp]; eff != 0 {
					coeffs[ix.P(t, i)] = eff
				}
			}
			coeffs[ix.Qout(t, o)] = 1
			coeffs[ix.Qin(t, o)] = -1
			coeffs[ix.Export(t, o)] = -1

			demand := r.Demand[out][t]
			rows = append(rows, Row{
				Name:   fmt.Sprintf("Load_balance[%d,%s]", step, out),
				Lower:  demand,
				Upper:  demand,
				Coeffs: coeffs,
			})
		}
	}
	return rows
}

// dispatchCapacityRows keeps the output of every dispatchable technology at
// or below its installed capacity, for each output it feeds.
func dispatchCapacityRows(r *registry.Registry, ix Index) []Row {
	ds := r.Data()
	var rows []Row
	for t, step := range ds.Time {
		for i, inp := range ds.Inputs {
			if !r.IsDispatchable(inp) {
				continue
			}
			for _, out := range ds.Outputs {
				eff := ds.Cmatrix[out][inp]
				if eff == 0 {
					continue
				}
				rows = append(rows, Row{
					Name:  fmt.Sprintf("Capacity_constraint[%d,%s,%s]", step, inp, out),
					Lower: math.Inf(-1),
					Upper: 0,
					Coeffs: map[int]float64{
						ix.P(t, i):     eff,
						ix.Capacity(i): -1,
					},
				})
			}
		}
	}
	return rows
}

// solarGenerationRows force each solar technology to track its radiation
// profile scaled by the installed capacity. Solar is non-dispatchable, so
// these are equalities, not upper bounds.
func solarGenerationRows(r *registry.Registry, ix Index) []Row {
	ds := r.Data()
	var rows []Row
	for t, step := range ds.Time {
		for i, inp := range ds.Inputs {
			if !r.IsSolar(inp) {
				continue
			}
			rows = append(rows, Row{
				Name:  fmt.Sprintf("Solar_input[%d,%s]", step, inp),
				Lower: 0,
				Upper: 0,
				Coeffs: map[int]float64{
					ix.P(t, i):     1,
					ix.Capacity(i): -ds.PSolar[inp][t],
				},
			})
		}
	}
	return rows
}

// installLinkingRows emit the big-M coupling between a technology's capacity
// and its binary installation flag: Capacity <= BigM * y.
func installLinkingRows(r *registry.Registry, ix Index) []Row {
	ds := r.Data()
	rows := make([]Row, 0, len(ds.Inputs))
	for i, inp := range ds.Inputs {
		rows = append(rows, Row{
			Name:  fmt.Sprintf("Fixed_cost_constr[%s]", inp),
			Lower: math.Inf(-1),
			Upper: 0,
			Coeffs: map[int]float64{
				ix.Capacity(i): 1,
				ix.Y(i):        -ds.BigM,
			},
		})
	}
	return rows
}

// storageDynamicsRows carry the state of charge from hour to hour, with
// standing losses and charge/discharge efficiencies. The first hour of each
// typical day wraps to the last hour of the same day, so each representative
// day cycles independently. Outputs without storage capacity are skipped;
// their storage variables are pinned to zero by the rate and capacity rows.
func storageDynamicsRows(r *registry.Registry, ix Index) []Row {
	ds := r.Data()
	var rows []Row
	for o, out := range ds.Outputs {
		if !r.HasStorage(out) {
			continue
		}
		loss := ds.StorageStandingLosses[out]
		ceff := ds.StorageChargingEff[out]
		deff := ds.StorageDischargingEff[out]
		for t, step := range ds.Time {
			coeffs := make(map[int]float64)
			coeffs[ix.SOC(t, o)] += 1
			coeffs[ix.SOC(r.Prev(t), o)] -= 1 - loss
			coeffs[ix.Qin(t, o)] -= ceff
			coeffs[ix.Qout(t, o)] += 1 / deff
			rows = append(rows, Row{
				Name:   fmt.Sprintf("Storage_balance[%d,%s]", step, out),
				Lower:  0,
				Upper:  0,
				Coeffs: coeffs,
			})
		}
	}
	return rows
}

// storageRateRows bound charging and discharging to a fraction of the
// installed storage capacity.
func storageRateRows(r *registry.Registry, ix Index) []Row {
	ds := r.Data()
	var rows []Row
	for t, step := range ds.Time {
		for o, out := range ds.Outputs {
			rows = append(rows,
				Row{
					Name:  fmt.Sprintf("Storage_charg_rate[%d,%s]", step, out),
					Lower: math.Inf(-1),
					Upper: 0,
					Coeffs: map[int]float64{
						ix.Qin(t, o):     1,
						ix.StorageCap(o): -ds.StorageMaxCharge[out],
					},
				},
				Row{
					Name:  fmt.Sprintf("Storage_disch_rate[%d,%s]", step, out),
					Lower: math.Inf(-1),
					Upper: 0,
					Coeffs: map[int]float64{
						ix.Qout(t, o):    1,
						ix.StorageCap(o): -ds.StorageMaxDischarge[out],
					},
				},
			)
		}
	}
	return rows
}

// storageEnergyCapRows keep the state of charge below the installed storage
// capacity at every time step. The installed capacity itself is bounded by
// Storage_max_cap as a column bound.
func storageEnergyCapRows(r *registry.Registry, ix Index) []Row {
	ds := r.Data()
	var rows []Row
	for t, step := range ds.Time {
		for o, out := range ds.Outputs {
			rows = append(rows, Row{
				Name:  fmt.Sprintf("Storage_cap_constr[%d,%s]", step, out),
				Lower: math.Inf(-1),
				Upper: 0,
				Coeffs: map[int]float64{
					ix.SOC(t, o):     1,
					ix.StorageCap(o): -1,
				},
			})
		}
	}
	return rows
}

// storageInstallLinkingRows is the storage analogue of installLinkingRows.
func storageInstallLinkingRows(r *registry.Registry, ix Index) []Row {
	ds := r.Data()
	rows := make([]Row, 0, len(ds.Outputs))
	for o, out := range ds.Outputs {
		rows = append(rows, Row{
			Name:  fmt.Sprintf("Stor_fixed_cost_constr[%s]", out),
			Lower: math.Inf(-1),
			Upper: 0,
			Coeffs: map[int]float64{
				ix.StorageCap(o): 1,
				ix.YStor(o):      -ds.BigM,
			},
		})
	}
	return rows
}

// roofAreaRows limit the combined installed area of solar technologies to
// the available roof area.
func roofAreaRows(r *registry.Registry, ix Index) []Row {
	ds := r.Data()
	if len(ds.SolarInputs) == 0 {
		return nil
	}
	coeffs := make(map[int]float64)
	for i, inp := range ds.Inputs {
		if r.IsSolar(inp) {
			coeffs[ix.Capacity(i)] = 1
		}
	}
	return []Row{{
		Name:   "Roof_area_constr",
		Lower:  math.Inf(-1),
		Upper:  ds.RoofArea,
		Coeffs: coeffs,
	}}
}
