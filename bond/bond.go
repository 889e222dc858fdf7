package bond

import (
	"fmt"
	"math"
)

// Bond is a fixed-coupon bullet bond.
//
// Frequency is the interval between coupons in time units (0.5 = semi-annual
// when time is in years), not a count per year.
type Bond struct {
	FaceValue  float64
	Maturity   float64
	CouponRate float64
	Frequency  float64
}

// New returns a validated Bond.
func New(faceValue, maturity, couponRate, frequency float64) (Bond, error) {
	b := Bond{
		FaceValue:  faceValue,
		Maturity:   maturity,
		CouponRate: couponRate,
		Frequency:  frequency,
	}
	if err := b.Validate(); err != nil {
		return Bond{}, err
	}
	return b, nil
}

// Validate reports ErrInvalidBond unless every term is positive and finite.
func (b Bond) Validate() error {
	if !positive(b.FaceValue) || !positive(b.Maturity) || !positive(b.CouponRate) || !positive(b.Frequency) {
		return fmt.Errorf("%w: face=%g maturity=%g coupon=%g frequency=%g",
			ErrInvalidBond, b.FaceValue, b.Maturity, b.CouponRate, b.Frequency)
	}
	return nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 1) }

// CouponPeriods is the number of whole coupon periods to maturity. A trailing
// partial period pays no coupon.
func (b Bond) CouponPeriods() int {
	return int(b.Maturity / b.Frequency)
}

// Cashflows returns the coupon schedule followed by the redemption at maturity.
func (b Bond) Cashflows() []Cashflow {
	n := b.CouponPeriods()
	if n < 0 {
		n = 0
	}
	coupon := b.FaceValue * b.CouponRate * b.Frequency

	out := make([]Cashflow, 0, n+1)
	for i := 0; i < n; i++ {
		out = append(out, Cashflow{Time: float64(i+1) * b.Frequency, Coupon: coupon})
	}
	return append(out, Cashflow{Time: b.Maturity, Principal: b.FaceValue})
}

// Price discounts the cashflows against a simulated short-rate path.
//
// Each cashflow at time t is discounted with the path rate at index
// int(t/timeStep):
//
//	PV = Σ CF_t · exp(-r[idx(t)] · t)
//
// Indices past the end of the path reuse the last rate. On error the price is 0.
func (b Bond) Price(ratePath []float64, timeStep float64) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("Bond.Price: %w", err)
	}
	if len(ratePath) == 0 {
		return 0, fmt.Errorf("Bond.Price: %w", ErrEmptyPath)
	}
	if !(timeStep > 0) {
		return 0, fmt.Errorf("Bond.Price: %w (dt=%g)", ErrInvalidTimeStep, timeStep)
	}

	pv := 0.0
	for _, cf := range b.Cashflows() {
		r := ratePath[rateIndex(cf.Time, timeStep, len(ratePath))]
		pv += cf.Amount() * math.Exp(-r*cf.Time)
	}
	return pv, nil
}

// rateIndex maps a time onto the path, truncating and clamping to the last index.
func rateIndex(t, timeStep float64, n int) int {
	x := t / timeStep
	if x >= float64(n) {
		return n - 1
	}
	return int(x)
}
