package model

import (
	"fmt"
	"math"
)

// CIR is the Cox-Ingersoll-Ross square-root model with a full-truncation
// Euler step:
//
//	r' = max(r + a(b - r)dt + σ √max(r,0) √dt Z, 0)
//
// Every rate it returns is >= 0.
type CIR struct {
	params Params
	src    NormalSource
}

// NewCIR builds a CIR model drawing from src. A nil src is replaced by a
// clock-seeded stream.
func NewCIR(p Params, src NormalSource) (*CIR, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("NewCIR: %w", err)
	}
	if src == nil {
		src = NewRandomSource()
	}
	return &CIR{params: p, src: src}, nil
}

func (c *CIR) SimulateNextRate(currentRate, timeStep float64) (float64, error) {
	if timeStep < 0 {
		return 0, fmt.Errorf("CIR.SimulateNextRate: %w (dt=%g)", ErrInvalidTimeStep, timeStep)
	}
	if currentRate < 0 {
		return 0, fmt.Errorf("CIR.SimulateNextRate: %w (rate=%g)", ErrInvalidRate, currentRate)
	}

	z := c.src.NormFloat64()
	diffusion := c.params.Volatility * math.Sqrt(math.Max(currentRate, 0)) * math.Sqrt(timeStep) * z
	next := currentRate + c.params.drift(currentRate, timeStep) + diffusion

	return math.Max(next, 0), nil
}

func (c *CIR) Params() Params { return c.params }

func (c *CIR) Name() string { return "cir" }
