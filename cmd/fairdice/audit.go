package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/lox/fairdice/cmd/fairdice/shared"
	"github.com/lox/fairdice/internal/fairness"
)

// AuditCmd checks the fair random generator for bias.
type AuditCmd struct {
	Modulus int     `default:"6" help:"Number of outcomes"`
	Samples int     `default:"60000" help:"Number of values to draw"`
	Workers int     `help:"Parallel workers (0 = number of CPUs)"`
	Alpha   float64 `default:"0.001" help:"Significance level for the uniformity test"`
	Hash    string  `default:"sha3-256" help:"Hash inside the HMAC (sha3-256 or sha256)" env:"FAIRDICE_HASH"`
}

func (cmd *AuditCmd) Run(g *Globals) error {
	logger, closer, err := shared.SetupLogger(g.Debug, g.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	return cmd.run(ctx, os.Stdout, logger)
}

func (cmd *AuditCmd) run(ctx context.Context, out io.Writer, logger *log.Logger) error {
	alg, err := fairness.ParseAlgorithm(cmd.Hash)
	if err != nil {
		return err
	}
	workers := cmd.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger.Debug("Starting audit", "modulus", cmd.Modulus, "samples", cmd.Samples, "workers", workers)
	report, err := fairness.Audit(ctx, fairness.NewGenerator(fairness.WithAlgorithm(alg)), cmd.Modulus, cmd.Samples, workers)
	if err != nil {
		return err
	}

	expected := float64(report.Samples) / float64(report.Modulus)
	fmt.Fprintf(out, "Drew %d values in [0, %d) using %s\n", report.Samples, report.Modulus, alg.Label())
	for v, c := range report.Counts {
		fmt.Fprintf(out, "  %3d: %8d (%+.2f%%)\n", v, c, 100*(float64(c)-expected)/expected)
	}
	fmt.Fprintf(out, "chi-square = %.4f, df = %d, p = %.4f\n", report.ChiSquare, report.DegreesOfFreedom, report.PValue)

	if !report.Uniform(cmd.Alpha) {
		return fmt.Errorf("generator failed the uniformity test at alpha=%g (p=%.6f, mismatches=%d)",
			cmd.Alpha, report.PValue, report.Mismatches)
	}
	fmt.Fprintf(out, "Uniform at alpha=%g\n", cmd.Alpha)
	return nil
}
