package model

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// loggingModel decorates a RateModel, reporting failed steps.
type loggingModel struct {
	next   RateModel
	logger log.Logger
}

// WithLogging returns m wrapped so that every failed step is written to logger.
// Successful steps are silent.
func WithLogging(logger log.Logger, m RateModel) RateModel {
	return &loggingModel{
		next:   m,
		logger: logger,
	}
}

func (l *loggingModel) SimulateNextRate(currentRate, timeStep float64) (next float64, err error) {
	defer func() {
		if err == nil {
			return
		}
		level.Error(l.logger).Log(
			"method", "simulate_next_rate",
			"model", l.next.Name(),
			"rate", currentRate,
			"dt", timeStep,
			"err", err,
		)
	}()
	return l.next.SimulateNextRate(currentRate, timeStep)
}

func (l *loggingModel) Params() Params { return l.next.Params() }

func (l *loggingModel) Name() string { return l.next.Name() }
