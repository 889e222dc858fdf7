package bond

import (
	"fmt"
	"math"
)

// YieldResult is the output of ImpliedYield.
type YieldResult struct {
	// Yield is the flat continuously compounded rate, as a decimal (0.05 == 5%).
	Yield float64
	// Iterations is the number of Newton-Raphson steps taken.
	Iterations int
}

// ImpliedYield solves for the flat continuously compounded yield y such that
//
//	Σ CF_t · exp(-y · t) == price
//
// over the bond's own cashflow schedule. It turns a path-dependent price back
// into a single comparable rate.
//
// The solver uses Newton-Raphson with analytic first derivative.
func (b Bond) ImpliedYield(price float64) (YieldResult, error) {
	if err := b.Validate(); err != nil {
		return YieldResult{}, fmt.Errorf("Bond.ImpliedYield: %w", err)
	}
	if !(price > 0) || math.IsInf(price, 1) {
		return YieldResult{}, fmt.Errorf("Bond.ImpliedYield: price must be positive and finite, got %g", price)
	}

	y, iterations, err := solveYield(price, b.Cashflows())
	if err != nil {
		return YieldResult{}, err
	}
	return YieldResult{Yield: y, Iterations: iterations}, nil
}

// ---------------------------------------------------------------------------
// Newton-Raphson solver (unexported)
// ---------------------------------------------------------------------------

const (
	yieldTolerance = 1e-12
	yieldMaxIter   = 100
	yieldFloor     = -0.50
	yieldCeiling   = 5.0
)

// solveYield finds y such that priceAndDeriv(y) == target via Newton-Raphson.
func solveYield(target float64, cfs []Cashflow) (float64, int, error) {
	// Initial guess: 5%.
	y := 0.05

	for iter := 0; iter < yieldMaxIter; iter++ {
		price, dPdy := priceAndDeriv(y, cfs)
		f := price - target

		if math.Abs(f) < yieldTolerance*math.Max(1, target) {
			return y, iter + 1, nil
		}
		if math.Abs(dPdy) < 1e-15 {
			return y, iter + 1, fmt.Errorf("Bond.ImpliedYield: derivative too small at iter %d", iter)
		}

		y = clamp(y-f/dPdy, yieldFloor, yieldCeiling)
	}

	return y, yieldMaxIter, fmt.Errorf("Bond.ImpliedYield: did not converge after %d iterations", yieldMaxIter)
}

// priceAndDeriv returns (price, dPrice/dy) under flat continuous compounding.
//
//	price = Σ CF_t · exp(-y·t)
//	dP/dy = Σ -t · CF_t · exp(-y·t)
func priceAndDeriv(y float64, cfs []Cashflow) (float64, float64) {
	var price, deriv float64
	for _, cf := range cfs {
		pv := cf.Amount() * math.Exp(-y*cf.Time)
		price += pv
		deriv -= cf.Time * pv
	}
	return price, deriv
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
