package registry

import (
	"math"
	"testing"

	"github.com/ohowland/ehub_core/internal/pkg/datasource"
	"gotest.tools/assert"
)

// testDataset builds a small two-typical-day hub: grid and boiler plus a
// rooftop PV array, electric and heat outputs, heat storage. Each call
// returns fresh maps so tests can mutate their copy.
func testDataset() datasource.Dataset {
	ds := datasource.Dataset{
		Time:             []int{1, 2, 3, 4},
		FirstHour:        []int{1, 3},
		Inputs:           []string{"grid", "boiler", "pv"},
		SolarInputs:      []string{"pv"},
		InputsWoGrid:     []string{"boiler", "pv"},
		DispatchableTech: []string{"boiler"},
		CHPTech:          []string{},
		Outputs:          []string{"elec", "heat"},

		Loads: map[string][]float64{
			"elec": {10, 12, 8, 9},
			"heat": {5, 6, 4, 4},
		},
		NumberOfDays: []float64{10, 10, 15, 15},

		Cmatrix: map[string]map[string]float64{
			"elec": {"grid": 1, "boiler": 0, "pv": 0.15},
			"heat": {"grid": 0, "boiler": 0.9, "pv": 0},
		},
		StorageMaxCharge:      map[string]float64{"elec": 0, "heat": 0.25},
		StorageMaxDischarge:   map[string]float64{"elec": 0, "heat": 0.25},
		StorageStandingLosses: map[string]float64{"elec": 0, "heat": 0.01},
		StorageChargingEff:    map[string]float64{"elec": 0, "heat": 0.9},
		StorageDischargingEff: map[string]float64{"elec": 0, "heat": 0.9},
		StorageMaxCap:         map[string]float64{"elec": 0, "heat": 20},
		LifetimeTech:          map[string]float64{"grid": 20, "boiler": 20, "pv": 25},
		LifetimeStor:          map[string]float64{"elec": 0, "heat": 15},
		NetworkEfficiency:     map[string]float64{"elec": 0.95, "heat": 0.9},
		NetworkLength:         map[string]float64{"elec": 100, "heat": 100},
		NetworkLifetime:       40,

		OperatingCosts:  map[string]float64{"grid": 0.2, "boiler": 0.05, "pv": 0},
		LinearInvCosts:  map[string]float64{"grid": 0, "boiler": 300, "pv": 2500},
		FixedInvCosts:   map[string]float64{"grid": 0, "boiler": 1000, "pv": 0},
		LinearStorCosts: map[string]float64{"elec": 0, "heat": 100},
		FixedStorCosts:  map[string]float64{"elec": 0, "heat": 50},
		NetInvCostPerM:  800,
		FiT:             map[string]float64{"elec": 0.12, "heat": 0},
		InterestRate:    0.05,

		CarbonFactors: map[string]float64{"grid": 0.59, "boiler": 0.27, "pv": 0},

		RoofArea: 50,
		PSolar:   map[string][]float64{"pv": {0, 0.3, 0.8, 0.2}},
	}
	ds.ApplyDefaults()
	return ds
}

func TestCRF(t *testing.T) {
	got := CRF(0.05, 20)
	assert.Assert(t, math.Abs(got-0.080243) < 1e-5)

	// zero interest degenerates to straight-line recovery
	assert.Equal(t, CRF(0, 20), 0.05)
}

func TestNewDerivesCRFs(t *testing.T) {
	r, err := New(testDataset())
	assert.NilError(t, err)

	assert.Equal(t, r.CRFTech["boiler"], CRF(0.05, 20))
	assert.Equal(t, r.CRFTech["pv"], CRF(0.05, 25))
	assert.Equal(t, r.CRFStor["heat"], CRF(0.05, 15))
	assert.Equal(t, r.CRFNetwork, CRF(0.05, 40))

	// elec carries no storage cost, so its zero lifetime yields a zero factor
	assert.Equal(t, r.CRFStor["elec"], float64(0))
}

func TestZeroLifetimeWithCostRejected(t *testing.T) {
	ds := testDataset()
	ds.LifetimeStor["heat"] = 0

	_, err := New(ds)
	assert.Assert(t, err != nil)
	_, ok := err.(*NumericalError)
	assert.Assert(t, ok)
}

func TestDemandScaledByNetworkEfficiency(t *testing.T) {
	ds := testDataset()
	r, err := New(ds)
	assert.NilError(t, err)

	assert.Equal(t, r.Demand["elec"][0], ds.Loads["elec"][0]/ds.NetworkEfficiency["elec"])
	assert.Equal(t, r.Demand["heat"][1], ds.Loads["heat"][1]/ds.NetworkEfficiency["heat"])
}

func TestPrevWrapsPerTypicalDay(t *testing.T) {
	r, err := New(testDataset())
	assert.NilError(t, err)

	// day one spans positions 0-1, day two spans positions 2-3
	assert.Equal(t, r.Prev(0), 1)
	assert.Equal(t, r.Prev(1), 0)
	assert.Equal(t, r.Prev(2), 3)
	assert.Equal(t, r.Prev(3), 2)
}

func TestSetMembership(t *testing.T) {
	r, err := New(testDataset())
	assert.NilError(t, err)

	assert.Assert(t, r.IsSolar("pv"))
	assert.Assert(t, !r.IsSolar("grid"))
	assert.Assert(t, r.IsDispatchable("boiler"))
	assert.Assert(t, !r.IsDispatchable("pv"))
	assert.Assert(t, r.HasStorage("heat"))
	assert.Assert(t, !r.HasStorage("elec"))
}

func TestValidationFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*datasource.Dataset)
	}{
		{"empty time set", func(ds *datasource.Dataset) { ds.Time = nil }},
		{"empty outputs", func(ds *datasource.Dataset) { ds.Outputs = nil }},
		{"duplicate input", func(ds *datasource.Dataset) { ds.Inputs = append(ds.Inputs, "grid") }},
		{"solar input not an input", func(ds *datasource.Dataset) { ds.SolarInputs = []string{"windmill"} }},
		{"first hour outside time", func(ds *datasource.Dataset) { ds.FirstHour = []int{1, 7} }},
		{"first hour misses first step", func(ds *datasource.Dataset) { ds.FirstHour = []int{2, 3} }},
		{"missing coupling entry", func(ds *datasource.Dataset) { delete(ds.Cmatrix["elec"], "pv") }},
		{"negative coupling efficiency", func(ds *datasource.Dataset) { ds.Cmatrix["heat"]["boiler"] = -0.9 }},
		{"missing operating cost", func(ds *datasource.Dataset) { delete(ds.OperatingCosts, "boiler") }},
		{"load series length mismatch", func(ds *datasource.Dataset) { ds.Loads["elec"] = []float64{10, 12} }},
		{"negative load", func(ds *datasource.Dataset) { ds.Loads["heat"][2] = -1 }},
		{"day weight length mismatch", func(ds *datasource.Dataset) { ds.NumberOfDays = []float64{10} }},
		{"non-positive day weight", func(ds *datasource.Dataset) { ds.NumberOfDays[0] = 0 }},
		{"missing radiation series", func(ds *datasource.Dataset) { delete(ds.PSolar, "pv") }},
		{"interest rate out of range", func(ds *datasource.Dataset) { ds.InterestRate = 1.0 }},
		{"network efficiency zero", func(ds *datasource.Dataset) { ds.NetworkEfficiency["heat"] = 0 }},
		{"standing losses at one", func(ds *datasource.Dataset) { ds.StorageStandingLosses["heat"] = 1 }},
		{"charge rate above one", func(ds *datasource.Dataset) { ds.StorageMaxCharge["heat"] = 1.5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds := testDataset()
			tc.mutate(&ds)
			_, err := New(ds)
			assert.Assert(t, err != nil)
			_, ok := err.(*DataValidationError)
			assert.Assert(t, ok)
		})
	}
}

func TestStorageEfficiencyRequiredOnlyWithCapacity(t *testing.T) {
	// zero efficiency is fine while the output cannot carry storage
	ds := testDataset()
	ds.StorageMaxCap["heat"] = 0
	ds.StorageChargingEff["heat"] = 0
	ds.StorageDischargingEff["heat"] = 0
	_, err := New(ds)
	assert.NilError(t, err)

	// but degenerate once capacity is allowed
	ds = testDataset()
	ds.StorageDischargingEff["heat"] = 0
	_, err = New(ds)
	assert.Assert(t, err != nil)
	_, ok := err.(*NumericalError)
	assert.Assert(t, ok)
}
