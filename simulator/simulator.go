package simulator

import (
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/meenmo/ratesim/bond"
	"github.com/meenmo/ratesim/model"
)

var (
	// ErrNegativeSteps is returned when a path of negative length is requested.
	ErrNegativeSteps = errors.New("steps must be non-negative")
	// ErrNegativePaths is returned when an ensemble of negative size is requested.
	ErrNegativePaths = errors.New("paths must be non-negative")
	// ErrNilModel is returned when no model is supplied.
	ErrNilModel = errors.New("nil rate model")
)

// Simulator drives a RateModel forward over discrete time steps.
//
// By default the first failed step aborts the path. With WithDegradeOnError
// the failed step is logged, recorded as 0 and fed into the next step, which
// reproduces the best-effort batch behaviour of the legacy pricer.
type Simulator struct {
	logger  log.Logger
	degrade bool
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used to report degraded steps.
func WithLogger(logger log.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDegradeOnError keeps simulating after a failed step instead of aborting.
func WithDegradeOnError() Option {
	return func(s *Simulator) {
		s.degrade = true
	}
}

func New(opts ...Option) *Simulator {
	s := &Simulator{logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SimulatePath returns steps successive rates starting from initialRate.
//
// Index i holds the rate at (i+1)*timeStep; initialRate itself is not stored.
// steps == 0 gives an empty, non-nil path.
func (s *Simulator) SimulatePath(m model.RateModel, initialRate, timeStep float64, steps int) ([]float64, error) {
	if m == nil {
		return nil, fmt.Errorf("Simulator.SimulatePath: %w", ErrNilModel)
	}
	if steps < 0 {
		return nil, fmt.Errorf("Simulator.SimulatePath: %w (steps=%d)", ErrNegativeSteps, steps)
	}

	rates := make([]float64, steps)
	current := initialRate
	for i := range rates {
		next, err := m.SimulateNextRate(current, timeStep)
		if err != nil {
			if !s.degrade {
				return nil, fmt.Errorf("Simulator.SimulatePath: %s step %d: %w", m.Name(), i, err)
			}
			level.Warn(s.logger).Log(
				"msg", "degraded step",
				"model", m.Name(),
				"step", i,
				"rate", current,
				"dt", timeStep,
				"err", err,
			)
			next = 0
		}
		rates[i] = next
		current = next
	}
	return rates, nil
}

// PriceBond simulates one path and prices b against it.
func (s *Simulator) PriceBond(b bond.Bond, m model.RateModel, initialRate, timeStep float64, steps int) (float64, error) {
	rates, err := s.SimulatePath(m, initialRate, timeStep, steps)
	if err != nil {
		return 0, err
	}
	return b.Price(rates, timeStep)
}

// SimulateEnsemble draws paths successive paths from the same model. The
// model's random stream continues across paths, so the paths are independent.
func (s *Simulator) SimulateEnsemble(m model.RateModel, initialRate, timeStep float64, steps, paths int) ([][]float64, error) {
	if paths < 0 {
		return nil, fmt.Errorf("Simulator.SimulateEnsemble: %w (paths=%d)", ErrNegativePaths, paths)
	}

	out := make([][]float64, paths)
	for i := range out {
		path, err := s.SimulatePath(m, initialRate, timeStep, steps)
		if err != nil {
			return nil, fmt.Errorf("Simulator.SimulateEnsemble: path %d: %w", i, err)
		}
		out[i] = path
	}
	return out, nil
}
