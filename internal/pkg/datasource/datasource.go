package datasource

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultBigM is used when a dataset omits the BigM parameter. It must be
// larger than any plausible installed capacity so the installation-linking
// constraints never bind an installed technology.
const DefaultBigM = 1e5

// Dataset is the fixed input schema for an energy hub. It carries the index
// sets and every named parameter keyed over them. A Dataset is treated as
// read-only once handed to the registry; the hub never writes back into it.
//
// Time-indexed parameters are slices aligned with Time by position.
// Output- and input-indexed parameters are maps keyed by the set member name.
type Dataset struct {
	Time             []int    `json:"Time"`
	FirstHour        []int    `json:"First_hour"`
	Inputs           []string `json:"Inputs"`
	SolarInputs      []string `json:"Solar_inputs"`
	InputsWoGrid     []string `json:"Inputs_wo_grid"`
	DispatchableTech []string `json:"Dispatchable_Tech"`
	CHPTech          []string `json:"CHP_Tech"`
	Outputs          []string `json:"Outputs"`

	Loads        map[string][]float64 `json:"Loads"`
	NumberOfDays []float64            `json:"Number_of_days"`

	Cmatrix               map[string]map[string]float64 `json:"Cmatrix"`
	StorageMaxCharge      map[string]float64            `json:"Storage_max_charge"`
	StorageMaxDischarge   map[string]float64            `json:"Storage_max_discharge"`
	StorageStandingLosses map[string]float64            `json:"Storage_standing_losses"`
	StorageChargingEff    map[string]float64            `json:"Storage_charging_eff"`
	StorageDischargingEff map[string]float64            `json:"Storage_discharging_eff"`
	StorageMaxCap         map[string]float64            `json:"Storage_max_cap"`
	LifetimeTech          map[string]float64            `json:"Lifetime_tech"`
	LifetimeStor          map[string]float64            `json:"Lifetime_stor"`
	NetworkEfficiency     map[string]float64            `json:"Network_efficiency"`
	NetworkLength         map[string]float64            `json:"Network_length"`
	NetworkLifetime       float64                       `json:"Network_lifetime"`

	OperatingCosts  map[string]float64 `json:"Operating_costs"`
	LinearInvCosts  map[string]float64 `json:"Linear_inv_costs"`
	FixedInvCosts   map[string]float64 `json:"Fixed_inv_costs"`
	LinearStorCosts map[string]float64 `json:"Linear_stor_costs"`
	FixedStorCosts  map[string]float64 `json:"Fixed_stor_costs"`
	NetInvCostPerM  float64            `json:"Net_inv_cost_per_m"`
	FiT             map[string]float64 `json:"FiT"`
	InterestRate    float64            `json:"Interest_rate"`

	CarbonFactors map[string]float64 `json:"Carbon_factors"`

	RoofArea float64              `json:"Roof_area"`
	PSolar   map[string][]float64 `json:"P_solar"`
	BigM     float64              `json:"BigM"`
}

// FromFile reads a Dataset from a JSON file.
func FromFile(path string) (Dataset, error) {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("datasource: %w", err)
	}
	return FromJSON(jsonData)
}

// FromJSON decodes a Dataset from raw JSON and applies defaults.
func FromJSON(jsonData []byte) (Dataset, error) {
	ds := Dataset{}
	if err := json.Unmarshal(jsonData, &ds); err != nil {
		return Dataset{}, fmt.Errorf("datasource: %w", err)
	}
	ds.ApplyDefaults()
	return ds, nil
}

// ApplyDefaults fills parameters a dataset may omit.
func (ds *Dataset) ApplyDefaults() {
	if ds.BigM == 0 {
		ds.BigM = DefaultBigM
	}
}
