package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/ratesim/bond"
	"github.com/meenmo/ratesim/model"
	"github.com/meenmo/ratesim/swaption"
)

// Scenario is a complete pricing run: two models, one bond, one swaption.
//
// Rates and volatilities are decimals (0.05 == 5%); times share one unit (years).
type Scenario struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Vasicek    ModelConfig      `yaml:"vasicek"`
	CIR        ModelConfig      `yaml:"cir"`
	Bond       BondConfig       `yaml:"bond"`
	Swaption   SwaptionConfig   `yaml:"swaption"`
	Output     OutputConfig     `yaml:"output"`
}

type SimulationConfig struct {
	InitialRate float64 `yaml:"initial_rate"`
	TimeStep    float64 `yaml:"time_step"`
	// Horizon is the simulated span; the path has int(Horizon/TimeStep) rates.
	Horizon float64 `yaml:"horizon"`
	// DegradeOnError records 0 for failed steps instead of aborting the path.
	DegradeOnError bool `yaml:"degrade_on_error"`
}

type ModelConfig struct {
	MeanReversion float64 `yaml:"mean_reversion"`
	LongTermMean  float64 `yaml:"long_term_mean"`
	Volatility    float64 `yaml:"volatility"`
	// Seed fixes the random stream; 0 seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

type BondConfig struct {
	FaceValue  float64 `yaml:"face_value"`
	Maturity   float64 `yaml:"maturity"`
	CouponRate float64 `yaml:"coupon_rate"`
	Frequency  float64 `yaml:"frequency"`
}

type SwaptionConfig struct {
	StrikeRate       float64 `yaml:"strike_rate"`
	Maturity         float64 `yaml:"maturity"`
	Notional         float64 `yaml:"notional"`
	SwapLength       float64 `yaml:"swap_length"`
	Volatility       float64 `yaml:"volatility"`
	PaymentFrequency float64 `yaml:"payment_frequency"`
}

type OutputConfig struct {
	CSVPath string `yaml:"csv_path"`
}

// Default reproduces the reference run.
func Default() Scenario {
	return Scenario{
		Simulation: SimulationConfig{
			InitialRate: 0.03,
			TimeStep:    0.05,
			Horizon:     20,
		},
		Vasicek: ModelConfig{MeanReversion: 0.1, LongTermMean: 0.05, Volatility: 0.01},
		CIR:     ModelConfig{MeanReversion: 0.1, LongTermMean: 0.05, Volatility: 0.01},
		Bond: BondConfig{
			FaceValue:  1000,
			Maturity:   10,
			CouponRate: 0.05,
			Frequency:  0.5,
		},
		Swaption: SwaptionConfig{
			StrikeRate:       0.05,
			Maturity:         10,
			Notional:         1000,
			SwapLength:       1,
			Volatility:       0.2,
			PaymentFrequency: 4,
		},
		Output: OutputConfig{CSVPath: "data/output.csv"},
	}
}

// Load reads a YAML (or JSON) scenario file over Default. An empty path
// returns Default unchanged.
func Load(path string) (Scenario, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(raw)
}

// Parse decodes raw over Default and validates the result.
func Parse(raw []byte) (Scenario, error) {
	s := Default()
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Steps is the number of simulated rates per path.
func (s Scenario) Steps() int {
	return int(s.Simulation.Horizon / s.Simulation.TimeStep)
}

func (s Scenario) Validate() error {
	var errs []error
	if !(s.Simulation.TimeStep > 0) {
		errs = append(errs, fmt.Errorf("simulation.time_step must be positive, got %g", s.Simulation.TimeStep))
	}
	if s.Simulation.Horizon < 0 {
		errs = append(errs, fmt.Errorf("simulation.horizon must be non-negative, got %g", s.Simulation.Horizon))
	}
	if err := s.Vasicek.params().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("vasicek: %w", err))
	}
	if err := s.CIR.params().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("cir: %w", err))
	}
	if _, err := s.BuildBond(); err != nil {
		errs = append(errs, fmt.Errorf("bond: %w", err))
	}
	if _, err := s.BuildSwaption(); err != nil {
		errs = append(errs, fmt.Errorf("swaption: %w", err))
	}
	if !(s.Swaption.Volatility > 0) {
		errs = append(errs, fmt.Errorf("swaption.volatility must be positive, got %g", s.Swaption.Volatility))
	}
	if !(s.Swaption.PaymentFrequency > 0) {
		errs = append(errs, fmt.Errorf("swaption.payment_frequency must be positive, got %g", s.Swaption.PaymentFrequency))
	}
	return errors.Join(errs...)
}

func (c ModelConfig) params() model.Params {
	return model.Params{
		MeanReversion: c.MeanReversion,
		LongTermMean:  c.LongTermMean,
		Volatility:    c.Volatility,
	}
}

func (c ModelConfig) source() model.NormalSource {
	if c.Seed == 0 {
		return model.NewRandomSource()
	}
	return model.NewSource(c.Seed)
}

// BuildModels returns fresh Vasicek and CIR models, in that order.
func (s Scenario) BuildModels() ([]model.RateModel, error) {
	vas, err := model.NewVasicek(s.Vasicek.params(), s.Vasicek.source())
	if err != nil {
		return nil, err
	}
	cir, err := model.NewCIR(s.CIR.params(), s.CIR.source())
	if err != nil {
		return nil, err
	}
	return []model.RateModel{vas, cir}, nil
}

func (s Scenario) BuildBond() (bond.Bond, error) {
	return bond.New(s.Bond.FaceValue, s.Bond.Maturity, s.Bond.CouponRate, s.Bond.Frequency)
}

func (s Scenario) BuildSwaption() (swaption.Swaption, error) {
	return swaption.New(s.Swaption.StrikeRate, s.Swaption.Maturity, s.Swaption.Notional, s.Swaption.SwapLength)
}
