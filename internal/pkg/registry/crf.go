package registry

import "math"

// CRF returns the capital recovery factor for interest rate i and asset
// lifetime n years: i*(1+i)^n / ((1+i)^n - 1). The i -> 0 limit is 1/n.
// A non-positive lifetime is degenerate and rejected by the caller before
// this is evaluated.
func CRF(i, n float64) float64 {
	if i == 0 {
		return 1 / n
	}
	f := math.Pow(1+i, n)
	return i * f / (f - 1)
}
