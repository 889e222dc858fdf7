package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/meenmo/ratesim/cmd/ratesim/internal/report"
	"github.com/meenmo/ratesim/cmd/ratesim/internal/scenario"
	"github.com/meenmo/ratesim/simulator"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(stderr))
	logger = level.NewFilter(logger, level.AllowInfo())
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "price":
		return runPrice(args[1:], stdout, stderr, logger)
	case "paths":
		return runPaths(args[1:], stdout, stderr, logger)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ratesim <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  price   Simulate Vasicek and CIR paths, price the bond and swaptions, save the paths CSV")
	fmt.Fprintln(w, "  paths   Simulate Vasicek and CIR paths and write the CSV to stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `ratesim <command> -h` for command-specific help.")
}

func runPrice(args []string, stdout, stderr io.Writer, logger log.Logger) int {
	fs := flag.NewFlagSet("price", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "scenario file, YAML or JSON (defaults to the reference run)")
	output := fs.String("output", "", "CSV path for the simulated paths (overrides output.csv_path; \"-\" disables)")
	format := fs.String("format", "text", "report format: text or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(stderr, "unsupported format %q\n", *format)
		return 2
	}

	scn, err := scenario.Load(*configPath)
	if err != nil {
		level.Error(logger).Log("msg", "load scenario", "err", err)
		return 1
	}
	if *output != "" {
		scn.Output.CSVPath = *output
	}

	reports, paths, err := simulate(scn, logger)
	if err != nil {
		level.Error(logger).Log("msg", "simulate", "err", err)
		return 1
	}

	if *format == "json" {
		err = report.WriteJSON(stdout, reports)
	} else {
		err = report.WriteText(stdout, reports)
	}
	if err != nil {
		level.Error(logger).Log("msg", "write report", "err", err)
		return 1
	}

	if csvPath := scn.Output.CSVPath; csvPath != "" && csvPath != "-" {
		if err := report.SaveCSV(csvPath, paths[0], paths[1]); err != nil {
			level.Error(logger).Log("msg", "save paths", "path", csvPath, "err", err)
			return 1
		}
		level.Info(logger).Log("msg", "saved paths", "path", csvPath, "rows", len(paths[0]))
	}

	for _, r := range reports {
		if r.Failed() {
			return 1
		}
	}
	return 0
}

func runPaths(args []string, stdout, stderr io.Writer, logger log.Logger) int {
	fs := flag.NewFlagSet("paths", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "scenario file, YAML or JSON (defaults to the reference run)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	scn, err := scenario.Load(*configPath)
	if err != nil {
		level.Error(logger).Log("msg", "load scenario", "err", err)
		return 1
	}

	_, paths, err := simulate(scn, logger)
	if err != nil {
		level.Error(logger).Log("msg", "simulate", "err", err)
		return 1
	}
	if err := report.WriteCSV(stdout, paths[0], paths[1]); err != nil {
		level.Error(logger).Log("msg", "write paths", "err", err)
		return 1
	}
	return 0
}

// simulate runs both models of the scenario and prices its instruments.
func simulate(scn scenario.Scenario, logger log.Logger) ([]report.ModelReport, [][]float64, error) {
	models, err := scn.BuildModels()
	if err != nil {
		return nil, nil, err
	}

	b, err := scn.BuildBond()
	if err != nil {
		return nil, nil, err
	}
	s, err := scn.BuildSwaption()
	if err != nil {
		return nil, nil, err
	}

	// failed steps are reported once: by the simulator in degrade mode,
	// through the returned error otherwise
	opts := []simulator.Option{simulator.WithLogger(logger)}
	if scn.Simulation.DegradeOnError {
		opts = append(opts, simulator.WithDegradeOnError())
	}

	in := report.Instruments{
		Bond:             b,
		Swaption:         s,
		Volatility:       scn.Swaption.Volatility,
		PaymentFrequency: scn.Swaption.PaymentFrequency,
	}
	reports, paths, err := report.PriceModels(simulator.New(opts...), models,
		scn.Simulation.InitialRate, scn.Simulation.TimeStep, scn.Steps(), in)
	if err != nil {
		return nil, nil, err
	}

	for _, r := range reports {
		for _, e := range r.Errors {
			level.Warn(logger).Log("msg", "pricing failed", "model", r.Model, "err", e)
		}
	}
	return reports, paths, nil
}
