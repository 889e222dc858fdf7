package bond

import "errors"

var (
	// ErrEmptyPath is returned when a bond is priced against an empty rate path.
	ErrEmptyPath = errors.New("empty rate path")
	// ErrInvalidTimeStep is returned when the path time step is not positive.
	ErrInvalidTimeStep = errors.New("time step must be positive")
	// ErrInvalidBond is returned when bond terms are not strictly positive.
	ErrInvalidBond = errors.New("invalid bond terms")
)

// Cashflow is a single scheduled payment of a bond.
//
// Time is measured in the same unit as the bond maturity and the path time step.
type Cashflow struct {
	Time      float64
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}
