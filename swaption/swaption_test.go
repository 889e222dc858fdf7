package swaption_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratesim/swaption"
)

func constRates(rate float64, steps int) []float64 {
	rates := make([]float64, steps)
	for i := range rates {
		rates[i] = rate
	}
	return rates
}

// blackPrice is an independent Black's formula with erfc-based Φ.
func blackPrice(isPayer bool, forward, strike, vol, f, expiry, notional float64) float64 {
	d1 := (math.Log(forward/strike) + 0.5*math.Pow(vol, 2)*expiry) / (vol * math.Sqrt(expiry))
	d2 := d1 - vol*math.Sqrt(expiry)
	pva := (1 - math.Pow(1+strike/f, -(f*expiry))) / strike

	if isPayer {
		return notional * pva * (forward*0.5*math.Erfc(-d1*math.Sqrt(0.5)) - strike*0.5*math.Erfc(-d2*math.Sqrt(0.5)))
	}
	return notional * pva * (strike*0.5*math.Erfc(d2*math.Sqrt(0.5)) - forward*0.5*math.Erfc(d1*math.Sqrt(0.5)))
}

func TestPrice_ConstantRatesMatchBlack(t *testing.T) {
	t.Parallel()

	const (
		strike   = 0.05
		maturity = 5.0
		notional = 1000.0
		swapLen  = 1.0
		dt       = 0.01
	)
	s, err := swaption.New(strike, maturity, notional, swapLen)
	require.NoError(t, err)

	path := constRates(strike, int((maturity+swapLen)/dt)+1)

	for _, vol := range []float64{0.1, 0.2, 0.3} {
		for _, isPayer := range []bool{true, false} {
			got, err := s.Price(path, vol, dt, 4, isPayer)
			require.NoError(t, err)

			want := blackPrice(isPayer, strike, strike, vol, 4, maturity, notional)
			assert.InEpsilon(t, want, got, 0.01, "vol=%g payer=%v", vol, isPayer)
			assert.Greater(t, got, 0.0)
		}
	}
}

func TestPrice_PayerReceiverParityAtTheMoney(t *testing.T) {
	t.Parallel()

	s, err := swaption.New(0.04, 2, 1e6, 3)
	require.NoError(t, err)

	path := constRates(0.04, 600)
	payer, err := s.Price(path, 0.25, 0.01, 2, true)
	require.NoError(t, err)
	receiver, err := s.Price(path, 0.25, 0.01, 2, false)
	require.NoError(t, err)

	// payer - receiver = N·A·(F - K) = 0 when F == K
	assert.InDelta(t, payer, receiver, 1e-9*payer)
}

func TestPrice_ForwardIsWindowMean(t *testing.T) {
	t.Parallel()

	s, err := swaption.New(0.03, 2, 100, 1)
	require.NoError(t, err)

	// dt=1: window is path[2:3]
	path := []float64{0.9, 0.9, 0.045, 0.9}
	fwd, err := s.ForwardSwapRate(path, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.045, fwd)

	// dt=0.5: window is path[4:6]
	path = []float64{0, 0, 0, 0, 0.02, 0.04, 1}
	fwd, err = s.ForwardSwapRate(path, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, fwd, 1e-15)

	got, err := s.Price(path, 0.2, 0.5, 1, true)
	require.NoError(t, err)
	assert.InEpsilon(t, blackPrice(true, 0.03, 0.03, 0.2, 1, 2, 100), got, 1e-12)
}

func TestPrice_OffTheMoney(t *testing.T) {
	t.Parallel()

	s, err := swaption.New(0.05, 5, 1000, 1)
	require.NoError(t, err)

	for _, fwd := range []float64{0.03, 0.07} {
		path := constRates(fwd, 700)
		for _, isPayer := range []bool{true, false} {
			got, err := s.Price(path, 0.2, 0.01, 4, isPayer)
			require.NoError(t, err)
			assert.InEpsilon(t, blackPrice(isPayer, fwd, 0.05, 0.2, 4, 5, 1000), got, 1e-9)
		}
	}
}

func TestPrice_MonotoneInVolatility(t *testing.T) {
	t.Parallel()

	s, err := swaption.New(0.05, 5, 1000, 1)
	require.NoError(t, err)

	for _, fwd := range []float64{0.02, 0.05, 0.09} {
		path := constRates(fwd, 700)
		for _, isPayer := range []bool{true, false} {
			prev := -1.0
			for vol := 0.01; vol <= 1.0; vol += 0.01 {
				got, err := s.Price(path, vol, 0.01, 4, isPayer)
				require.NoError(t, err)
				if got < prev-1e-12 {
					t.Fatalf("fwd=%g payer=%v: price fell from %.12f to %.12f at vol %.2f", fwd, isPayer, prev, got, vol)
				}
				prev = got
			}
		}
	}
}

func TestPrice_InsufficientPath(t *testing.T) {
	t.Parallel()

	s, err := swaption.New(0.05, 5, 1000, 1)
	require.NoError(t, err)

	got, err := s.Price(constRates(0.05, 550), 0.2, 0.01, 4, true)
	assert.ErrorIs(t, err, swaption.ErrInsufficientPath)
	assert.Equal(t, 0.0, got)

	got, err = s.Price(nil, 0.2, 0.01, 4, false)
	assert.ErrorIs(t, err, swaption.ErrInsufficientPath)
	assert.Equal(t, 0.0, got)
}

func TestPrice_GuardsDegenerateInputs(t *testing.T) {
	t.Parallel()

	s, err := swaption.New(0.05, 5, 1000, 1)
	require.NoError(t, err)
	path := constRates(0.05, 700)

	_, err = s.Price(path, 0, 0.01, 4, true)
	assert.ErrorIs(t, err, swaption.ErrInvalidVolatility)

	_, err = s.Price(path, 0.2, 0, 4, true)
	assert.ErrorIs(t, err, swaption.ErrInvalidTimeStep)

	_, err = s.Price(path, 0.2, 0.01, 0, true)
	assert.ErrorIs(t, err, swaption.ErrInvalidFrequency)

	_, err = s.Price(constRates(-0.01, 700), 0.2, 0.01, 4, true)
	assert.ErrorIs(t, err, swaption.ErrInvalidForward)

	_, err = s.Price(constRates(math.NaN(), 700), 0.2, 0.01, 4, false)
	assert.ErrorIs(t, err, swaption.ErrInvalidForward)

	_, err = s.Price(constRates(math.Inf(1), 700), 0.2, 0.01, 4, true)
	assert.ErrorIs(t, err, swaption.ErrInvalidForward)

	_, err = s.Price(path, 0.2, 1e-320, 4, true)
	assert.ErrorIs(t, err, swaption.ErrInsufficientPath)

	short, err := swaption.New(0.05, 5, 1000, 0.005)
	require.NoError(t, err)
	_, err = short.Price(path, 0.2, 0.01, 4, true)
	assert.ErrorIs(t, err, swaption.ErrSwapTooShort)
}

func TestPrice_ZeroForwardLimit(t *testing.T) {
	t.Parallel()

	s, err := swaption.New(0.05, 5, 1000, 1)
	require.NoError(t, err)
	zeros := constRates(0, 700)

	payer, err := s.Price(zeros, 0.2, 0.01, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, payer)

	receiver, err := s.Price(zeros, 0.2, 0.01, 4, false)
	require.NoError(t, err)
	assert.InDelta(t, 1000*s.Annuity(4)*0.05, receiver, 1e-9)

	// the limit agrees with a vanishing forward
	tiny, err := s.Price(constRates(1e-12, 700), 0.2, 0.01, 4, false)
	require.NoError(t, err)
	assert.InDelta(t, receiver, tiny, 1e-6)
}

func TestPrice_ValidatesLiteralTerms(t *testing.T) {
	t.Parallel()

	path := make([]float64, 200)
	for _, s := range []swaption.Swaption{
		{StrikeRate: 0.05, Maturity: -1, Notional: 1000, SwapLength: 1},
		{StrikeRate: 0.05, Maturity: 1, Notional: 1000, SwapLength: -1},
		{StrikeRate: 0.05, Maturity: math.Inf(1), Notional: 1000, SwapLength: 1},
		{},
	} {
		got, err := s.Price(path, 0.2, 0.01, 4, true)
		assert.ErrorIs(t, err, swaption.ErrInvalidSwaption, "%+v", s)
		assert.Equal(t, 0.0, got)

		_, err = s.ForwardSwapRate(path, 0.01)
		assert.ErrorIs(t, err, swaption.ErrInvalidSwaption, "%+v", s)
	}
}

func TestNew_RejectsNonPositiveTerms(t *testing.T) {
	t.Parallel()

	for _, c := range [][4]float64{
		{0, 5, 1000, 1},
		{0.05, 0, 1000, 1},
		{0.05, 5, -1, 1},
		{0.05, 5, 1000, 0},
	} {
		_, err := swaption.New(c[0], c[1], c[2], c[3])
		assert.ErrorIs(t, err, swaption.ErrInvalidSwaption, "%v", c)
	}
}

func TestNormCDF(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, swaption.NormCDF(0), 1e-15)
	assert.InDelta(t, 0.8413447460685429, swaption.NormCDF(1), 1e-12)
	assert.InDelta(t, 0.022750131948179195, swaption.NormCDF(-2), 1e-12)
	assert.InDelta(t, 1.0, swaption.NormCDF(1)+swaption.NormCDF(-1), 1e-15)
}
