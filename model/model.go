package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidTimeStep is returned when a step is requested with a negative time step.
	ErrInvalidTimeStep = errors.New("time step may not be negative")
	// ErrInvalidRate is returned by CIR when the current rate is negative.
	ErrInvalidRate = errors.New("current rate must be non-negative")
	// ErrInvalidParams is returned when model parameters fail validation.
	ErrInvalidParams = errors.New("invalid model parameters")
)

// RateModel advances a short rate by one discrete time step.
//
// Implementations own a private normal source; one successful call consumes
// exactly one draw. On error the returned rate is 0 and no draw is consumed.
type RateModel interface {
	SimulateNextRate(currentRate, timeStep float64) (float64, error)
	Params() Params
	Name() string
}

// Params are the one-factor mean-reverting dynamics shared by Vasicek and CIR:
//
//	dr = MeanReversion * (LongTermMean - r) dt + Volatility * (...) dW
type Params struct {
	MeanReversion float64
	LongTermMean  float64
	Volatility    float64
}

func (p Params) Validate() error {
	switch {
	case math.IsNaN(p.MeanReversion) || math.IsNaN(p.LongTermMean) || math.IsNaN(p.Volatility):
		return fmt.Errorf("%w: NaN parameter", ErrInvalidParams)
	case p.MeanReversion < 0:
		return fmt.Errorf("%w: mean reversion %g is negative", ErrInvalidParams, p.MeanReversion)
	case p.Volatility < 0:
		return fmt.Errorf("%w: volatility %g is negative", ErrInvalidParams, p.Volatility)
	}
	return nil
}

// drift is the deterministic Euler increment shared by both models.
func (p Params) drift(currentRate, timeStep float64) float64 {
	return p.MeanReversion * (p.LongTermMean - currentRate) * timeStep
}
