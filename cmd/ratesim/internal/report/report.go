package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meenmo/ratesim/bond"
	"github.com/meenmo/ratesim/model"
	"github.com/meenmo/ratesim/simulator"
	"github.com/meenmo/ratesim/swaption"
)

// ErrNonFinite is recorded when a price or yield comes out NaN or ±Inf, which
// happens when the simulated path diverged.
var ErrNonFinite = errors.New("non-finite result")

// Instruments are the static terms priced on every simulated path.
type Instruments struct {
	Bond             bond.Bond
	Swaption         swaption.Swaption
	Volatility       float64
	PaymentFrequency float64
}

// ModelReport holds the prices obtained on one model's path.
//
// A price that failed is left zero and its error is listed in Errors.
type ModelReport struct {
	Model            string          `json:"model"`
	BondPrice        decimal.Decimal `json:"bond_price"`
	BondYield        decimal.Decimal `json:"bond_yield"`
	PayerSwaption    decimal.Decimal `json:"payer_swaption"`
	ReceiverSwaption decimal.Decimal `json:"receiver_swaption"`
	PathMean         decimal.Decimal `json:"path_mean"`
	PathStdDev       decimal.Decimal `json:"path_std_dev"`
	PathFinal        decimal.Decimal `json:"path_final"`
	Errors           []string        `json:"errors,omitempty"`
}

func (r ModelReport) Failed() bool { return len(r.Errors) > 0 }

// Price values the instruments on path, continuing past individual failures.
func Price(modelName string, path []float64, timeStep float64, in Instruments) ModelReport {
	out := ModelReport{Model: modelName}
	fail := func(what string, err error) {
		out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", what, err))
	}

	if p, err := checked(in.Bond.Price(path, timeStep)); err != nil {
		fail("bond", err)
	} else {
		out.BondPrice = money(p)
		if y, err := in.Bond.ImpliedYield(p); err != nil {
			fail("bond yield", err)
		} else {
			out.BondYield = rate(y.Yield)
		}
	}

	if p, err := checked(in.Swaption.Price(path, in.Volatility, timeStep, in.PaymentFrequency, true)); err != nil {
		fail("payer swaption", err)
	} else {
		out.PayerSwaption = money(p)
	}
	if p, err := checked(in.Swaption.Price(path, in.Volatility, timeStep, in.PaymentFrequency, false)); err != nil {
		fail("receiver swaption", err)
	} else {
		out.ReceiverSwaption = money(p)
	}

	if st, err := simulator.Summarize(path); err != nil {
		fail("path", err)
	} else {
		out.PathMean = rate(st.Mean)
		out.PathStdDev = rate(st.StdDev)
		out.PathFinal = rate(st.Final)
	}
	return out
}

// PriceModels simulates one path per model and prices the instruments on each.
// Paths are returned alongside the reports, in model order.
func PriceModels(sim *simulator.Simulator, models []model.RateModel, initialRate, timeStep float64, steps int, in Instruments) ([]ModelReport, [][]float64, error) {
	reports := make([]ModelReport, 0, len(models))
	paths := make([][]float64, 0, len(models))
	for _, m := range models {
		path, err := sim.SimulatePath(m, initialRate, timeStep, steps)
		if err != nil {
			return nil, nil, err
		}
		paths = append(paths, path)
		reports = append(reports, Price(m.Name(), path, timeStep, in))
	}
	return reports, paths, nil
}

// WriteText prints one line per price in the legacy console layout.
func WriteText(w io.Writer, reports []ModelReport) error {
	var b strings.Builder
	for _, r := range reports {
		name := displayName(r.Model)
		fmt.Fprintf(&b, "%s Model Bond Price: %s\n", name, r.BondPrice.StringFixed(2))
		fmt.Fprintf(&b, "%s Model Bond Yield: %s\n", name, r.BondYield.StringFixed(6))
		fmt.Fprintf(&b, "%s Model Payer Swaption Price: %s\n", name, r.PayerSwaption.StringFixed(2))
		fmt.Fprintf(&b, "%s Model Receiver Swaption Price: %s\n", name, r.ReceiverSwaption.StringFixed(2))
		fmt.Fprintf(&b, "%s Model Path Mean/StdDev/Final: %s / %s / %s\n", name,
			r.PathMean.StringFixed(6), r.PathStdDev.StringFixed(6), r.PathFinal.StringFixed(6))
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "%s Model Error: %s\n", name, e)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes the reports as a single JSON array.
func WriteJSON(w io.Writer, reports []ModelReport) error {
	b, err := json.Marshal(reports)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func displayName(model string) string {
	switch model {
	case "vasicek":
		return "Vasicek"
	case "cir":
		return "CIR"
	default:
		return model
	}
}

// checked passes a pricing result through, turning NaN or ±Inf into ErrNonFinite.
func checked(v float64, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %g", ErrNonFinite, v)
	}
	return v, nil
}

func money(v float64) decimal.Decimal { return decimal.NewFromFloat(v).Round(2) }

func rate(v float64) decimal.Decimal { return decimal.NewFromFloat(v).Round(6) }
