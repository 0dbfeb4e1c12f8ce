package registry

import (
	"fmt"

	"github.com/ohowland/ehub_core/internal/pkg/datasource"
)

func validateSets(ds datasource.Dataset) error {
	if len(ds.Time) == 0 {
		return &DataValidationError{Name: "Time", Reason: "empty set"}
	}
	if len(ds.Inputs) == 0 {
		return &DataValidationError{Name: "Inputs", Reason: "empty set"}
	}
	if len(ds.Outputs) == 0 {
		return &DataValidationError{Name: "Outputs", Reason: "empty set"}
	}

	seenT := make(map[int]bool, len(ds.Time))
	for _, t := range ds.Time {
		if seenT[t] {
			return &DataValidationError{Name: "Time", Reason: fmt.Sprintf("duplicate time step %d", t)}
		}
		seenT[t] = true
	}
	for _, f := range ds.FirstHour {
		if !seenT[f] {
			return &DataValidationError{Name: "First_hour", Reason: fmt.Sprintf("hour %d not in Time", f)}
		}
	}

	inputs, err := uniqueSet("Inputs", ds.Inputs)
	if err != nil {
		return err
	}
	if _, err := uniqueSet("Outputs", ds.Outputs); err != nil {
		return err
	}

	for _, sub := range []struct {
		name    string
		members []string
	}{
		{"Solar_inputs", ds.SolarInputs},
		{"Inputs_wo_grid", ds.InputsWoGrid},
		{"Dispatchable_Tech", ds.DispatchableTech},
		{"CHP_Tech", ds.CHPTech},
	} {
		if _, err := uniqueSet(sub.name, sub.members); err != nil {
			return err
		}
		for _, m := range sub.members {
			if !inputs[m] {
				return &DataValidationError{Name: sub.name, Reason: fmt.Sprintf("%q is not a member of Inputs", m)}
			}
		}
	}
	return nil
}

func uniqueSet(name string, members []string) (map[string]bool, error) {
	set := make(map[string]bool, len(members))
	for _, m := range members {
		if set[m] {
			return nil, &DataValidationError{Name: name, Reason: fmt.Sprintf("duplicate member %q", m)}
		}
		set[m] = true
	}
	return set, nil
}

func validateParams(ds datasource.Dataset) error {
	nT := len(ds.Time)

	// Parameters indexed over Inputs.
	for _, p := range []struct {
		name   string
		values map[string]float64
	}{
		{"Operating_costs", ds.OperatingCosts},
		{"Linear_inv_costs", ds.LinearInvCosts},
		{"Fixed_inv_costs", ds.FixedInvCosts},
		{"Carbon_factors", ds.CarbonFactors},
		{"Lifetime_tech", ds.LifetimeTech},
	} {
		if err := coverSet(p.name, p.values, ds.Inputs); err != nil {
			return err
		}
	}

	// Parameters indexed over Outputs.
	for _, p := range []struct {
		name   string
		values map[string]float64
	}{
		{"Storage_max_charge", ds.StorageMaxCharge},
		{"Storage_max_discharge", ds.StorageMaxDischarge},
		{"Storage_standing_losses", ds.StorageStandingLosses},
		{"Storage_charging_eff", ds.StorageChargingEff},
		{"Storage_discharging_eff", ds.StorageDischargingEff},
		{"Storage_max_cap", ds.StorageMaxCap},
		{"Linear_stor_costs", ds.LinearStorCosts},
		{"Fixed_stor_costs", ds.FixedStorCosts},
		{"Lifetime_stor", ds.LifetimeStor},
		{"Network_efficiency", ds.NetworkEfficiency},
		{"Network_length", ds.NetworkLength},
		{"FiT", ds.FiT},
	} {
		if err := coverSet(p.name, p.values, ds.Outputs); err != nil {
			return err
		}
	}

	// Coupling matrix: every (output, input) pair must be defined.
	for _, out := range ds.Outputs {
		row, ok := ds.Cmatrix[out]
		if !ok {
			return &DataValidationError{Name: "Cmatrix", Reason: fmt.Sprintf("missing row for output %q", out)}
		}
		for _, inp := range ds.Inputs {
			eff, ok := row[inp]
			if !ok {
				return &DataValidationError{Name: "Cmatrix", Reason: fmt.Sprintf("missing entry [%q,%q]", out, inp)}
			}
			if eff < 0 {
				return &DataValidationError{Name: "Cmatrix", Reason: fmt.Sprintf("negative efficiency at [%q,%q]", out, inp)}
			}
		}
	}

	// Time series.
	if len(ds.NumberOfDays) != nT {
		return &DataValidationError{Name: "Number_of_days", Reason: fmt.Sprintf("length %d, want %d", len(ds.NumberOfDays), nT)}
	}
	for t, w := range ds.NumberOfDays {
		if w <= 0 {
			return &DataValidationError{Name: "Number_of_days", Reason: fmt.Sprintf("non-positive weight at step %d", t)}
		}
	}
	for _, out := range ds.Outputs {
		series, ok := ds.Loads[out]
		if !ok {
			return &DataValidationError{Name: "Loads", Reason: fmt.Sprintf("missing series for output %q", out)}
		}
		if len(series) != nT {
			return &DataValidationError{Name: "Loads", Reason: fmt.Sprintf("series for %q has length %d, want %d", out, len(series), nT)}
		}
		for t, v := range series {
			if v < 0 {
				return &DataValidationError{Name: "Loads", Reason: fmt.Sprintf("negative demand for %q at step %d", out, t)}
			}
		}
	}
	for _, sol := range ds.SolarInputs {
		series, ok := ds.PSolar[sol]
		if !ok {
			return &DataValidationError{Name: "P_solar", Reason: fmt.Sprintf("missing series for solar input %q", sol)}
		}
		if len(series) != nT {
			return &DataValidationError{Name: "P_solar", Reason: fmt.Sprintf("series for %q has length %d, want %d", sol, len(series), nT)}
		}
		for t, v := range series {
			if v < 0 {
				return &DataValidationError{Name: "P_solar", Reason: fmt.Sprintf("negative radiation for %q at step %d", sol, t)}
			}
		}
	}

	return validateRanges(ds)
}

func coverSet(name string, values map[string]float64, members []string) error {
	for _, m := range members {
		if _, ok := values[m]; !ok {
			return &DataValidationError{Name: name, Reason: fmt.Sprintf("missing entry for %q", m)}
		}
	}
	return nil
}

func validateRanges(ds datasource.Dataset) error {
	if ds.InterestRate < 0 || ds.InterestRate >= 1 {
		return &DataValidationError{Name: "Interest_rate", Reason: "outside [0,1)"}
	}
	if ds.BigM <= 0 {
		return &DataValidationError{Name: "BigM", Reason: "must be positive"}
	}
	if ds.RoofArea < 0 {
		return &DataValidationError{Name: "Roof_area", Reason: "negative area"}
	}
	if ds.NetworkLifetime < 0 {
		return &DataValidationError{Name: "Network_lifetime", Reason: "negative lifetime"}
	}

	for _, out := range ds.Outputs {
		eta := ds.NetworkEfficiency[out]
		if eta <= 0 || eta > 1 {
			return &DataValidationError{Name: "Network_efficiency", Reason: fmt.Sprintf("%q outside (0,1]", out)}
		}
		loss := ds.StorageStandingLosses[out]
		if loss < 0 || loss >= 1 {
			return &DataValidationError{Name: "Storage_standing_losses", Reason: fmt.Sprintf("%q outside [0,1)", out)}
		}
		if ds.StorageMaxCap[out] < 0 {
			return &DataValidationError{Name: "Storage_max_cap", Reason: fmt.Sprintf("%q negative", out)}
		}
		for _, p := range []struct {
			name string
			v    float64
		}{
			{"Storage_max_charge", ds.StorageMaxCharge[out]},
			{"Storage_max_discharge", ds.StorageMaxDischarge[out]},
		} {
			if p.v < 0 || p.v > 1 {
				return &DataValidationError{Name: p.name, Reason: fmt.Sprintf("%q outside [0,1]", out)}
			}
		}

		// The charge and discharge efficiencies enter the storage dynamics,
		// the latter as a divisor. They only matter where storage can exist.
		if ds.StorageMaxCap[out] > 0 {
			for _, p := range []struct {
				name string
				v    float64
			}{
				{"Storage_charging_eff", ds.StorageChargingEff[out]},
				{"Storage_discharging_eff", ds.StorageDischargingEff[out]},
			} {
				if p.v <= 0 || p.v > 1 {
					return &NumericalError{Name: p.name, Reason: fmt.Sprintf("%q outside (0,1]", out)}
				}
			}
		}
	}
	return nil
}
