package optimize

import "github.com/ohowland/ehub_core/internal/pkg/registry"

// accountingRows define the five objective-component scalars as equalities
// over the decision variables. The scalars are never free: Total_cost and
// Total_carbon take exactly the values these expressions evaluate to, which
// is what lets the Pareto sweep bound one while minimizing the other.
func accountingRows(r *registry.Registry, ix Index) []Row {
	ds := r.Data()

	// Operating_cost = sum_t sum_i Number_of_days[t]*Operating_costs[i]*P[t,i]
	opCoeffs := map[int]float64{ix.OperatingCost(): 1}
	for t := range ds.Time {
		w := ds.NumberOfDays[t]
		for i, inp := range ds.Inputs {
			if c := w * ds.OperatingCosts[inp]; c != 0 {
				opCoeffs[ix.P(t, i)] = -c
			}
		}
	}

	// Income_via_exports = sum_t sum_o Number_of_days[t]*FiT[o]*P_export[t,o]
	incomeCoeffs := map[int]float64{ix.IncomeViaExports(): 1}
	for t := range ds.Time {
		w := ds.NumberOfDays[t]
		for o, out := range ds.Outputs {
			if c := w * ds.FiT[out]; c != 0 {
				incomeCoeffs[ix.Export(t, o)] = -c
			}
		}
	}

	// Investment_cost = sum_i CRF_tech[i]*(lin[i]*Capacity[i] + fix[i]*y[i])
	//                 + sum_o CRF_stor[o]*(lin[o]*Storage_cap[o] + fix[o]*y_stor[o])
	//                 + Net_inv_cost_per_m * Network_length * CRF_network
	// The network term is a constant and moves to the right-hand side.
	invCoeffs := map[int]float64{ix.InvestmentCost(): 1}
	for i, inp := range ds.Inputs {
		crf := r.CRFTech[inp]
		if c := crf * ds.LinearInvCosts[inp]; c != 0 {
			invCoeffs[ix.Capacity(i)] = -c
		}
		if c := crf * ds.FixedInvCosts[inp]; c != 0 {
			invCoeffs[ix.Y(i)] = -c
		}
	}
	for o, out := range ds.Outputs {
		crf := r.CRFStor[out]
		if c := crf * ds.LinearStorCosts[out]; c != 0 {
			invCoeffs[ix.StorageCap(o)] = -c
		}
		if c := crf * ds.FixedStorCosts[out]; c != 0 {
			invCoeffs[ix.YStor(o)] = -c
		}
	}
	var netLength float64
	for _, out := range ds.Outputs {
		netLength += ds.NetworkLength[out]
	}
	networkCost := ds.NetInvCostPerM * netLength * r.CRFNetwork

	// Total_cost = Investment_cost + Operating_cost - Income_via_exports
	totalCostCoeffs := map[int]float64{
		ix.TotalCost():        1,
		ix.InvestmentCost():   -1,
		ix.OperatingCost():    -1,
		ix.IncomeViaExports(): 1,
	}

	// Total_carbon = sum_t sum_i Number_of_days[t]*Carbon_factors[i]*P[t,i]
	carbonCoeffs := map[int]float64{ix.TotalCarbon(): 1}
	for t := range ds.Time {
		w := ds.NumberOfDays[t]
		for i, inp := range ds.Inputs {
			if c := w * ds.CarbonFactors[inp]; c != 0 {
				carbonCoeffs[ix.P(t, i)] = -c
			}
		}
	}

	return []Row{
		{Name: "Operating_cost_def", Lower: 0, Upper: 0, Coeffs: opCoeffs},
		{Name: "Income_via_exports_def", Lower: 0, Upper: 0, Coeffs: incomeCoeffs},
		{Name: "Investment_cost_def", Lower: networkCost, Upper: networkCost, Coeffs: invCoeffs},
		{Name: "Total_cost_def", Lower: 0, Upper: 0, Coeffs: totalCostCoeffs},
		{Name: "Total_carbon_def", Lower: 0, Upper: 0, Coeffs: carbonCoeffs},
	}
}
