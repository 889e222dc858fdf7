package model

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalSource yields independent standard-normal draws.
//
// A source is not safe for concurrent use and must not be shared between
// models that run in parallel.
type NormalSource interface {
	NormFloat64() float64
}

// normalSource samples N(0,1) from a PCG stream.
type normalSource struct {
	dist distuv.Normal
}

func (s normalSource) NormFloat64() float64 { return s.dist.Rand() }

// NewSource returns a PCG-backed stream; equal seeds give equal sequences.
func NewSource(seed uint64) NormalSource {
	return normalSource{dist: distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}}
}

// NewRandomSource returns a stream seeded from the wall clock.
func NewRandomSource() NormalSource {
	return NewSource(uint64(time.Now().UnixNano()))
}
