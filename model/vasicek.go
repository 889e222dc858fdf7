package model

import (
	"fmt"
	"math"
)

// Vasicek is the Gaussian Ornstein-Uhlenbeck short-rate model discretized with
// an Euler step:
//
//	r' = r + a(b - r)dt + σ √dt Z
//
// Rates may go negative.
type Vasicek struct {
	params Params
	src    NormalSource
}

// NewVasicek builds a Vasicek model drawing from src. A nil src is replaced by
// a clock-seeded stream.
func NewVasicek(p Params, src NormalSource) (*Vasicek, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("NewVasicek: %w", err)
	}
	if src == nil {
		src = NewRandomSource()
	}
	return &Vasicek{params: p, src: src}, nil
}

func (v *Vasicek) SimulateNextRate(currentRate, timeStep float64) (float64, error) {
	if timeStep < 0 {
		return 0, fmt.Errorf("Vasicek.SimulateNextRate: %w (dt=%g)", ErrInvalidTimeStep, timeStep)
	}

	z := v.src.NormFloat64()
	return currentRate + v.params.drift(currentRate, timeStep) +
		v.params.Volatility*math.Sqrt(timeStep)*z, nil
}

func (v *Vasicek) Params() Params { return v.params }

func (v *Vasicek) Name() string { return "vasicek" }
