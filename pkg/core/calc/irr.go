package calc

import (
	"math"
)

// =============================================================================
// DISCOUNTING
// =============================================================================

// PresentValue calculates PV of a single cash flow.
//
// FORMULA: PV = CF / (1 + r)^t
func PresentValue(cashFlow, discountRate float64, periods int) float64 {
	if periods < 0 {
		return 0
	}
	return cashFlow / math.Pow(1+discountRate, float64(periods))
}

// NPV discounts a cash-flow stream whose first element occurs at t=0.
//
// FORMULA: NPV = Σ [ CF_t / (1 + r)^t ],  t = 0..n
func NPV(rate float64, cashFlows []float64) float64 {
	var npv float64
	for t, cf := range cashFlows {
		npv += PresentValue(cf, rate, t)
	}
	return npv
}

// NPVDerivative is dNPV/dr for the same stream.
//
// FORMULA: dNPV/dr = Σ [ −t × CF_t / (1 + r)^(t+1) ]
func NPVDerivative(rate float64, cashFlows []float64) float64 {
	var d float64
	for t, cf := range cashFlows {
		if t == 0 {
			continue
		}
		d -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return d
}

// =============================================================================
// INTERNAL RATE OF RETURN
// =============================================================================

// IRR solver constants. These are part of the cross-client numeric contract.
const (
	IRRInitialGuess   = 0.10
	IRRMaxIterations  = 100
	IRRTolerance      = 1e-4
	IRRDerivativeZero = 1e-10
	IRRMinRate        = -0.99
	IRRMaxRate        = 2.0
)

// IRRResult carries the solved rate plus how the solve ended.
// Rate is always the last Newton estimate, converged or not.
type IRRResult struct {
	Rate       float64 `json:"rate"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// SolveIRR finds the rate at which NPV(cashFlows) = 0 by Newton-Raphson.
//
// The solve starts at 10%, stops when |NPV| < 1e-4 or the derivative
// vanishes, clamps every step to [−0.99, 2.0] and gives up after 100
// iterations, returning the last estimate with Converged=false.
func SolveIRR(cashFlows []float64) IRRResult {
	rate := IRRInitialGuess
	res := IRRResult{Rate: rate}
	if len(cashFlows) == 0 {
		return res
	}

	for i := 0; i < IRRMaxIterations; i++ {
		res.Iterations = i + 1

		npv := NPV(rate, cashFlows)
		if math.Abs(npv) < IRRTolerance {
			res.Converged = true
			break
		}

		d := NPVDerivative(rate, cashFlows)
		if math.Abs(d) < IRRDerivativeZero {
			break
		}

		rate -= npv / d
		rate = math.Max(IRRMinRate, math.Min(IRRMaxRate, rate))
	}

	res.Rate = rate
	return res
}

// IRR is SolveIRR without the convergence detail.
func IRR(cashFlows []float64) float64 {
	return SolveIRR(cashFlows).Rate
}
