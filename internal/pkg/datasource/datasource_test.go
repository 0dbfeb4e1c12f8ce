package datasource

import (
	"testing"

	"gotest.tools/assert"
)

var jsonDataset = []byte(`{
	"Time": [1, 2],
	"First_hour": [1],
	"Inputs": ["grid", "boiler"],
	"Solar_inputs": [],
	"Inputs_wo_grid": ["boiler"],
	"Dispatchable_Tech": ["boiler"],
	"CHP_Tech": [],
	"Outputs": ["heat"],
	"Loads": {"heat": [5.0, 6.0]},
	"Number_of_days": [182.5, 182.5],
	"Cmatrix": {"heat": {"grid": 0.0, "boiler": 0.9}},
	"Operating_costs": {"grid": 0.2, "boiler": 0.05},
	"Interest_rate": 0.05,
	"Roof_area": 50.0
}`)

func TestFromJSON(t *testing.T) {
	ds, err := FromJSON(jsonDataset)
	assert.NilError(t, err)

	assert.Equal(t, len(ds.Time), 2)
	assert.Equal(t, ds.Inputs[1], "boiler")
	assert.Equal(t, ds.Cmatrix["heat"]["boiler"], 0.9)
	assert.Equal(t, ds.Loads["heat"][1], 6.0)
	assert.Equal(t, ds.NumberOfDays[0], 182.5)
	assert.Equal(t, ds.InterestRate, 0.05)
}

func TestFromJSONRejectsMalformed(t *testing.T) {
	_, err := FromJSON([]byte(`{"Time": "not a list"}`))
	assert.Assert(t, err != nil)
}

func TestBigMDefault(t *testing.T) {
	ds, err := FromJSON(jsonDataset)
	assert.NilError(t, err)
	assert.Equal(t, ds.BigM, DefaultBigM)
}

func TestBigMOverride(t *testing.T) {
	ds := Dataset{BigM: 2e6}
	ds.ApplyDefaults()
	assert.Equal(t, ds.BigM, 2e6)
}
