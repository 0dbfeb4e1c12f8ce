package registry

import (
	"fmt"

	"github.com/ohowland/ehub_core/internal/pkg/datasource"
)

// Registry holds a validated dataset plus the quantities derived from it:
// capital recovery factors, hub-side demand, and the typical-day time
// topology. It is constructed once and read-only thereafter; every piece of
// model algebra downstream trusts the checks performed here.
type Registry struct {
	ds datasource.Dataset

	// CRFTech, CRFStor and CRFNetwork annualize the one-time investment
	// costs of generation technologies, storage technologies and the
	// thermal network.
	CRFTech    map[string]float64
	CRFStor    map[string]float64
	CRFNetwork float64

	// Demand is the load seen at the hub: Loads divided by the efficiency
	// of the distribution network for each output.
	Demand map[string][]float64

	prev     []int
	inputPos map[string]int
	solar    map[string]bool
	disp     map[string]bool
}

// New validates the dataset and derives CRFs, hub-side demand, and the
// per-typical-day wraparound mapping. It returns a DataValidationError or
// NumericalError naming the offending set or parameter on any violation.
func New(ds datasource.Dataset) (*Registry, error) {
	if err := validateSets(ds); err != nil {
		return nil, err
	}
	if err := validateParams(ds); err != nil {
		return nil, err
	}

	r := &Registry{
		ds:       ds,
		CRFTech:  make(map[string]float64),
		CRFStor:  make(map[string]float64),
		Demand:   make(map[string][]float64),
		inputPos: make(map[string]int),
		solar:    make(map[string]bool),
		disp:     make(map[string]bool),
	}

	for i, inp := range ds.Inputs {
		r.inputPos[inp] = i
	}
	for _, sol := range ds.SolarInputs {
		r.solar[sol] = true
	}
	for _, d := range ds.DispatchableTech {
		r.disp[d] = true
	}

	if err := r.deriveCRFs(); err != nil {
		return nil, err
	}
	r.deriveDemand()
	if err := r.deriveTimeTopology(); err != nil {
		return nil, err
	}

	return r, nil
}

// Data returns the validated dataset. Callers must treat it as read-only.
func (r *Registry) Data() datasource.Dataset {
	return r.ds
}

// Prev maps a time step position to the position its storage state carries
// over from. The first hour of each typical day wraps to the last hour of
// the same day, so the state of charge cycles per day rather than globally.
func (r *Registry) Prev(pos int) int {
	return r.prev[pos]
}

// IsSolar reports whether the input is a solar-driven technology.
func (r *Registry) IsSolar(inp string) bool {
	return r.solar[inp]
}

// IsDispatchable reports whether the input is a controllable technology.
func (r *Registry) IsDispatchable(inp string) bool {
	return r.disp[inp]
}

// HasStorage reports whether the output carries a storage technology.
func (r *Registry) HasStorage(out string) bool {
	return r.ds.StorageMaxCap[out] > 0
}

func (r *Registry) deriveCRFs() error {
	ds := r.ds
	for _, inp := range ds.Inputs {
		crf, err := assetCRF("Lifetime_tech["+inp+"]", ds.InterestRate,
			ds.LifetimeTech[inp], ds.LinearInvCosts[inp]+ds.FixedInvCosts[inp])
		if err != nil {
			return err
		}
		r.CRFTech[inp] = crf
	}
	for _, out := range ds.Outputs {
		crf, err := assetCRF("Lifetime_stor["+out+"]", ds.InterestRate,
			ds.LifetimeStor[out], ds.LinearStorCosts[out]+ds.FixedStorCosts[out])
		if err != nil {
			return err
		}
		r.CRFStor[out] = crf
	}

	var netLength float64
	for _, out := range ds.Outputs {
		netLength += ds.NetworkLength[out]
	}
	crf, err := assetCRF("Network_lifetime", ds.InterestRate,
		ds.NetworkLifetime, ds.NetInvCostPerM*netLength)
	if err != nil {
		return err
	}
	r.CRFNetwork = crf
	return nil
}

// assetCRF computes the CRF for one asset class. An asset with no investment
// cost needs no annualization and gets a zero factor; an asset that does
// carry cost must have a positive lifetime or the CRF is undefined.
func assetCRF(name string, interest, lifetime, invCost float64) (float64, error) {
	if lifetime < 0 {
		return 0, &NumericalError{Name: name, Reason: "negative lifetime"}
	}
	if lifetime == 0 {
		if invCost != 0 {
			return 0, &NumericalError{Name: name, Reason: "zero lifetime with nonzero investment cost"}
		}
		return 0, nil
	}
	return CRF(interest, lifetime), nil
}

func (r *Registry) deriveDemand() {
	ds := r.ds
	for _, out := range ds.Outputs {
		eta := ds.NetworkEfficiency[out]
		demand := make([]float64, len(ds.Time))
		for t := range ds.Time {
			demand[t] = ds.Loads[out][t] / eta
		}
		r.Demand[out] = demand
	}
}

func (r *Registry) deriveTimeTopology() error {
	ds := r.ds
	pos := make(map[int]int, len(ds.Time))
	for i, t := range ds.Time {
		pos[t] = i
	}

	firstPos := make([]int, 0, len(ds.FirstHour))
	for _, f := range ds.FirstHour {
		p, ok := pos[f]
		if !ok {
			return &DataValidationError{Name: "First_hour", Reason: fmt.Sprintf("hour %d not in Time", f)}
		}
		firstPos = append(firstPos, p)
	}
	for i := 1; i < len(firstPos); i++ {
		if firstPos[i] <= firstPos[i-1] {
			return &DataValidationError{Name: "First_hour", Reason: "not in ascending Time order"}
		}
	}
	if len(firstPos) == 0 || firstPos[0] != 0 {
		return &DataValidationError{Name: "First_hour", Reason: "must start at the first time step"}
	}

	r.prev = make([]int, len(ds.Time))
	for i, start := range firstPos {
		end := len(ds.Time) - 1
		if i+1 < len(firstPos) {
			end = firstPos[i+1] - 1
		}
		r.prev[start] = end
		for p := start + 1; p <= end; p++ {
			r.prev[p] = p - 1
		}
	}
	return nil
}
