// Package parity re-runs recorded analyses and compares the engine's numbers
// with the values the system of record produced for the same inputs.
package parity

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/deal"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/utils"
)

// DefaultTolerance is the absolute gap allowed per value.
const DefaultTolerance = 0.01

// Keys outside the strategy metric names.
const (
	KeyMarketValue      = "appraisal.market_value"
	KeyAfterRepairValue = "appraisal.after_repair_value"
	KeyMarketRent       = "appraisal.market_rent"
	KeyBasePrice        = "base_price"
	KeyIRR              = "projection.irr"
	KeyEquityMultiple   = "projection.equity_multiple"
	KeyTotalWealth      = "projection.total_wealth"
)

// Case is one recorded analysis. Expected is keyed by metric name or one of
// the Key constants.
type Case struct {
	Name     string             `json:"name"`
	Input    deal.Input         `json:"input"`
	Expected map[string]float64 `json:"expected"`
}

// Gap is one value that differs by more than the tolerance.
type Gap struct {
	Key      string  `json:"key"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
	Diff     float64 `json:"diff"`
}

// VerificationResult holds the outcome of one case.
type VerificationResult struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Checked  int      `json:"checked"`
	Gaps     []Gap    `json:"gaps,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Verify runs c through the engine. Expected keys the report does not
// produce are warnings and fail the case.
func Verify(c Case, tolerance float64) (VerificationResult, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	report, err := deal.Analyze(c.Input)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("failed to analyze case %q: %w", c.Name, err)
	}
	actual := Values(report)

	res := VerificationResult{Name: c.Name}
	keys := make([]string, 0, len(c.Expected))
	for k := range c.Expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		want := c.Expected[k]
		got, ok := actual[k]
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s not produced for strategy %s", k, report.Strategy))
			continue
		}
		res.Checked++
		if diff := got - want; math.Abs(diff) > tolerance || math.IsNaN(diff) {
			res.Gaps = append(res.Gaps, Gap{Key: k, Expected: want, Actual: got, Diff: diff})
		}
	}
	res.Passed = len(res.Gaps) == 0 && len(res.Warnings) == 0
	return res, nil
}

// Values flattens a report into the key space used by Case.Expected.
func Values(r deal.Report) map[string]float64 {
	out := make(map[string]float64, len(r.Metrics)+7)
	for _, m := range r.Metrics {
		out[m.Name] = m.Value
	}
	out[KeyMarketValue] = r.Appraisal.MarketValue
	out[KeyAfterRepairValue] = r.Appraisal.AfterRepairValue
	out[KeyMarketRent] = r.Appraisal.MarketRent
	out[KeyBasePrice] = r.BasePrice
	if r.Projection != nil {
		out[KeyIRR] = r.Projection.Summary.IRR
		out[KeyEquityMultiple] = r.Projection.Summary.EquityMultiple
		out[KeyTotalWealth] = r.Projection.Summary.TotalWealth
	}
	return out
}

// LoadCase reads a case fixture. Fixtures may be JSON or Hjson.
func LoadCase(path string) (Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Case{}, fmt.Errorf("failed to read case: %w", err)
	}
	var c Case
	if _, err := utils.SmartParse(data, &c); err != nil {
		return Case{}, fmt.Errorf("failed to parse case %s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = path
	}
	return c, nil
}
