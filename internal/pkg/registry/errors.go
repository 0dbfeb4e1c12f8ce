package registry

import "fmt"

// DataValidationError reports a malformed, missing, or inconsistent set or
// parameter. It names the offending field so the dataset can be corrected.
type DataValidationError struct {
	Name   string
	Reason string
}

func (e *DataValidationError) Error() string {
	return fmt.Sprintf("data validation: %s: %s", e.Name, e.Reason)
}

// NumericalError reports a degenerate numeric input, such as a zero asset
// lifetime behind a capital recovery factor or a zero storage efficiency.
// These are caught here, before any algebra reaches the solver.
type NumericalError struct {
	Name   string
	Reason string
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("numerical: %s: %s", e.Name, e.Reason)
}
