// Package calc provides the deterministic financing primitives shared by every
// other engine package: loan amortization, present value and the IRR solve.
// This file implements the fixed-rate amortization recurrence.
package calc

import (
	"math"
)

// MonthsPerYear is the number of payment periods per year on a fixed-rate loan.
const MonthsPerYear = 12

// =============================================================================
// FIXED-RATE AMORTIZATION
// =============================================================================

// MonthlyPayment returns the level monthly principal-and-interest payment.
//
// FORMULA: PMT = P × m × (1+m)^n / ((1+m)^n − 1)
//
// Where:
//   - P = principal
//   - m = annualRate / 12
//   - n = termYears × 12
//
// A zero rate degrades to P / (12 × termYears) so the result is exact for
// interest-free loans. A non-positive principal or term yields 0.
func MonthlyPayment(principal, annualRate float64, termYears int) float64 {
	if principal <= 0 || termYears <= 0 {
		return 0
	}
	n := float64(termYears * MonthsPerYear)
	if annualRate == 0 {
		return principal / n
	}
	m := annualRate / MonthsPerYear
	growth := math.Pow(1+m, n)
	return principal * m * growth / (growth - 1)
}

// AnnualDebtService is twelve level monthly payments.
func AnnualDebtService(principal, annualRate float64, termYears int) float64 {
	return MonthlyPayment(principal, annualRate, termYears) * MonthsPerYear
}

// RemainingBalance returns the outstanding principal after elapsedYears of
// scheduled payments.
//
// FORMULA: B_k = P × (1+m)^p − PMT × ((1+m)^p − 1) / m,  p = 12k
//
// The balance is P before the first payment, 0 once the term has elapsed,
// and never negative in between.
func RemainingBalance(principal, annualRate float64, termYears int, elapsedYears int) float64 {
	if principal <= 0 {
		return 0
	}
	if elapsedYears <= 0 {
		return principal
	}
	if termYears <= 0 || elapsedYears >= termYears {
		return 0
	}

	payment := MonthlyPayment(principal, annualRate, termYears)
	periods := float64(elapsedYears * MonthsPerYear)

	var balance float64
	if annualRate == 0 {
		balance = principal - payment*periods
	} else {
		m := annualRate / MonthsPerYear
		growth := math.Pow(1+m, periods)
		balance = principal*growth - payment*(growth-1)/m
	}
	return math.Max(0, balance)
}

// PrincipalPaidInYear is the drop in outstanding balance during loan year y (1-based).
func PrincipalPaidInYear(principal, annualRate float64, termYears int, year int) float64 {
	return RemainingBalance(principal, annualRate, termYears, year-1) -
		RemainingBalance(principal, annualRate, termYears, year)
}

// AmortizationYear is one loan year of a schedule.
type AmortizationYear struct {
	Year               int     `json:"year"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	EndingBalance      float64 `json:"ending_balance"`
	CumulativeInterest float64 `json:"cumulative_interest"`
}

// Schedule lists every loan year of a fixed-rate loan. Empty when the loan
// has no principal or term.
func Schedule(principal, annualRate float64, termYears int) []AmortizationYear {
	if principal <= 0 || termYears <= 0 {
		return nil
	}
	annual := AnnualDebtService(principal, annualRate, termYears)
	rows := make([]AmortizationYear, 0, termYears)
	var cumulative float64
	for y := 1; y <= termYears; y++ {
		paid := PrincipalPaidInYear(principal, annualRate, termYears, y)
		interest := math.Max(0, annual-paid)
		cumulative += interest
		rows = append(rows, AmortizationYear{
			Year:               y,
			Payment:            annual,
			Principal:          paid,
			Interest:           interest,
			EndingBalance:      RemainingBalance(principal, annualRate, termYears, y),
			CumulativeInterest: cumulative,
		})
	}
	return rows
}
