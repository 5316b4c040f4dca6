package fairness

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// AuditReport summarises a uniformity check of a Generator.
type AuditReport struct {
	Modulus          int
	Samples          int
	Counts           []int
	ChiSquare        float64
	DegreesOfFreedom int
	// PValue is the probability of a chi-square statistic at least this large
	// under a uniform generator.
	PValue float64
	// Mismatches counts disclosures that failed to verify. Always zero for a
	// correct generator.
	Mismatches int
}

// Uniform reports whether the sample is consistent with a uniform
// distribution at significance alpha.
func (r *AuditReport) Uniform(alpha float64) bool {
	return r.Mismatches == 0 && r.PValue >= alpha
}

// Audit draws samples values in [0, modulus) from g across workers, reveals
// and verifies every commitment, and runs a chi-square goodness-of-fit test.
func Audit(ctx context.Context, g *Generator, modulus, samples, workers int) (*AuditReport, error) {
	if modulus < 2 {
		return nil, fmt.Errorf("%w: audit needs at least 2 outcomes, got %d", ErrInvalidModulus, modulus)
	}
	if samples < modulus {
		return nil, fmt.Errorf("audit needs at least %d samples, got %d", modulus, samples)
	}
	if workers < 1 {
		workers = 1
	}

	type partial struct {
		counts     []int
		mismatches int
	}
	parts := make([]partial, workers)

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		n := samples / workers
		if w < samples%workers {
			n++
		}
		eg.Go(func() error {
			p := partial{counts: make([]int, modulus)}
			for i := 0; i < n; i++ {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				pending, err := g.Generate(modulus)
				if err != nil {
					return err
				}
				d, err := pending.Reveal()
				if err != nil {
					return err
				}
				if !d.Verify() {
					p.mismatches++
				}
				p.counts[d.Value]++
			}
			parts[w] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := &AuditReport{
		Modulus:          modulus,
		Samples:          samples,
		Counts:           make([]int, modulus),
		DegreesOfFreedom: modulus - 1,
	}
	for _, p := range parts {
		report.Mismatches += p.mismatches
		for i, c := range p.counts {
			report.Counts[i] += c
		}
	}

	observed := make([]float64, modulus)
	expected := make([]float64, modulus)
	for i, c := range report.Counts {
		observed[i] = float64(c)
		expected[i] = float64(samples) / float64(modulus)
	}
	report.ChiSquare = stat.ChiSquare(observed, expected)
	report.PValue = distuv.ChiSquared{K: float64(report.DegreesOfFreedom)}.Survival(report.ChiSquare)

	return report, nil
}
