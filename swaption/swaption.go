package swaption

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrInsufficientPath is returned when the rate path ends before the swap does.
	ErrInsufficientPath = errors.New("insufficient rates data for pricing")
	// ErrInvalidTimeStep is returned when the path time step is not positive.
	ErrInvalidTimeStep = errors.New("time step must be positive")
	// ErrInvalidVolatility is returned when the Black volatility is not positive.
	ErrInvalidVolatility = errors.New("volatility must be positive")
	// ErrInvalidFrequency is returned when the annuity payment frequency is not positive.
	ErrInvalidFrequency = errors.New("payment frequency must be positive")
	// ErrSwapTooShort is returned when the swap spans less than one path step.
	ErrSwapTooShort = errors.New("swap length shorter than one time step")
	// ErrInvalidForward is returned when the simulated forward swap rate is
	// negative or not finite.
	ErrInvalidForward = errors.New("forward swap rate must be finite and non-negative")
	// ErrInvalidSwaption is returned when swaption terms are not strictly positive.
	ErrInvalidSwaption = errors.New("invalid swaption terms")
)

// Swaption is a European option, exercisable at Maturity, to enter a swap of
// SwapLength struck at StrikeRate.
type Swaption struct {
	StrikeRate float64
	Maturity   float64
	Notional   float64
	SwapLength float64
}

// New returns a validated Swaption.
func New(strikeRate, maturity, notional, swapLength float64) (Swaption, error) {
	s := Swaption{
		StrikeRate: strikeRate,
		Maturity:   maturity,
		Notional:   notional,
		SwapLength: swapLength,
	}
	if err := s.Validate(); err != nil {
		return Swaption{}, err
	}
	return s, nil
}

// Validate reports ErrInvalidSwaption unless every term is positive and finite.
func (s Swaption) Validate() error {
	if !positive(s.StrikeRate) || !positive(s.Maturity) || !positive(s.Notional) || !positive(s.SwapLength) {
		return fmt.Errorf("%w: strike=%g maturity=%g notional=%g swap_length=%g",
			ErrInvalidSwaption, s.StrikeRate, s.Maturity, s.Notional, s.SwapLength)
	}
	return nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 1) }

// ForwardSwapRate is the arithmetic mean of the path over the swap window
// [int(Maturity/dt), int(Maturity/dt)+int(SwapLength/dt)).
func (s Swaption) ForwardSwapRate(ratePath []float64, timeStep float64) (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, fmt.Errorf("Swaption.ForwardSwapRate: %w", err)
	}
	if !(timeStep > 0) {
		return 0, fmt.Errorf("Swaption.ForwardSwapRate: %w (dt=%g)", ErrInvalidTimeStep, timeStep)
	}

	// compared as floats so that a tiny dt cannot overflow the index
	start, width := math.Trunc(s.Maturity/timeStep), math.Trunc(s.SwapLength/timeStep)
	if start+width > float64(len(ratePath)) {
		return 0, fmt.Errorf("Swaption.ForwardSwapRate: %w (need %g rates, have %d)",
			ErrInsufficientPath, start+width, len(ratePath))
	}
	steps, swapSteps := int(start), int(width)
	if swapSteps == 0 {
		return 0, fmt.Errorf("Swaption.ForwardSwapRate: %w (swap_length=%g dt=%g)",
			ErrSwapTooShort, s.SwapLength, timeStep)
	}

	return stat.Mean(ratePath[steps:steps+swapSteps], nil), nil
}

// Annuity is the present value of a unit annuity paying paymentFrequency times
// per period until Maturity, discounted at the strike:
//
//	A = (1 - (1 + K/f)^(-f·T)) / K
func (s Swaption) Annuity(paymentFrequency float64) float64 {
	k := s.StrikeRate
	return (1 - math.Pow(1+k/paymentFrequency, -paymentFrequency*s.Maturity)) / k
}

// Price values the swaption with Black's formula, using the forward swap rate
// implied by the simulated path:
//
//	d1 = (ln(F/K) + σ²T/2) / (σ√T),  d2 = d1 - σ√T
//	payer    = N·A·(F·Φ(d1) - K·Φ(d2))
//	receiver = N·A·(K·Φ(-d2) - F·Φ(-d1))
//
// A zero forward is priced at its limit: the payer is worthless and the
// receiver is worth N·A·K. On error the price is 0.
func (s Swaption) Price(ratePath []float64, volatility, timeStep, paymentFrequency float64, isPayer bool) (float64, error) {
	if !(volatility > 0) {
		return 0, fmt.Errorf("Swaption.Price: %w (vol=%g)", ErrInvalidVolatility, volatility)
	}
	if !(paymentFrequency > 0) {
		return 0, fmt.Errorf("Swaption.Price: %w (f=%g)", ErrInvalidFrequency, paymentFrequency)
	}

	forward, err := s.ForwardSwapRate(ratePath, timeStep)
	if err != nil {
		return 0, err
	}
	if !(forward >= 0) || math.IsInf(forward, 1) {
		return 0, fmt.Errorf("Swaption.Price: %w (forward=%g)", ErrInvalidForward, forward)
	}

	k := s.StrikeRate
	annuity := s.Annuity(paymentFrequency)
	if forward == 0 {
		if isPayer {
			return 0, nil
		}
		return s.Notional * annuity * k, nil
	}

	sqrtT := math.Sqrt(s.Maturity)
	d1 := (math.Log(forward/k) + 0.5*volatility*volatility*s.Maturity) / (volatility * sqrtT)
	d2 := d1 - volatility*sqrtT

	if isPayer {
		return s.Notional * annuity * (forward*NormCDF(d1) - k*NormCDF(d2)), nil
	}
	return s.Notional * annuity * (k*NormCDF(-d2) - forward*NormCDF(-d1)), nil
}

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
