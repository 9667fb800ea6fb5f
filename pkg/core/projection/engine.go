// Package projection builds the year-by-year hold-period table for a rental
// property and solves the investor's internal rate of return over it.
package projection

import (
	"math"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/calc"
)

// Project builds the hold-period table to in.Years (default 10) and summarises it.
func Project(in Input) Result {
	years := in.Years
	if years <= 0 {
		years = DefaultYears
	}

	rows := make([]YearlyProjection, 0, years)
	prev := YearlyProjection{LoanBalance: math.Max(0, in.LoanAmount)}
	for y := 1; y <= years; y++ {
		row := ProjectYear(prev, in, y)
		rows = append(rows, row)
		prev = row
	}

	return Result{
		Years:   rows,
		Summary: Summarize(in, rows),
	}
}

// ProjectYear calculates year y from year y-1. prev is the zero row with the
// opening loan balance when y == 1.
func ProjectYear(prev YearlyProjection, in Input, y int) YearlyProjection {
	grow := func(base, rate float64) float64 {
		return base * math.Pow(1+rate, float64(y-1))
	}

	row := YearlyProjection{Year: y}

	// 1. Value
	row.PropertyValue = in.PurchasePrice * math.Pow(1+in.Appreciation, float64(y))

	// 2. Income
	row.GrossRent = grow(in.MonthlyRent*12, in.RentGrowth)
	row.VacancyLoss = row.GrossRent * in.VacancyRate
	row.EffectiveRent = row.GrossRent - row.VacancyLoss

	// 3. Expenses: fixed lines compound on their own rates, variable lines track gross rent
	row.PropertyTaxes = grow(in.PropertyTaxes, in.PropertyTaxGrowth)
	row.Insurance = grow(in.Insurance, in.InsuranceGrowth)
	row.HOA = grow(in.HOAMonthly*12, in.ExpenseGrowth)
	row.Management = row.GrossRent * in.ManagementPct
	row.Maintenance = row.GrossRent * in.MaintenancePct
	row.CapEx = row.GrossRent * in.CapExPct
	row.TotalExpenses = row.PropertyTaxes + row.Insurance + row.HOA +
		row.Management + row.Maintenance + row.CapEx

	// 4. Debt: level payment, no refinance inside the horizon
	row.NOI = row.EffectiveRent - row.TotalExpenses
	if in.LoanAmount > 0 && y <= in.LoanTermYears {
		row.DebtService = calc.AnnualDebtService(in.LoanAmount, in.InterestRate, in.LoanTermYears)
	}
	row.CashFlow = row.NOI - row.DebtService
	row.CumulativeCashFlow = prev.CumulativeCashFlow + row.CashFlow

	row.LoanBalance = calc.RemainingBalance(in.LoanAmount, in.InterestRate, in.LoanTermYears, y)
	row.PrincipalPaid = prev.LoanBalance - row.LoanBalance
	row.InterestPaid = math.Max(0, row.DebtService-row.PrincipalPaid)

	// 5. Equity
	row.TotalEquity = row.PropertyValue - row.LoanBalance
	row.TotalWealth = row.CumulativeCashFlow + row.TotalEquity

	if invested := TotalCashInvested(in); invested > 0 {
		row.CashOnCash = row.CashFlow / invested
	}
	return row
}

// TotalCashInvested is down payment plus closing costs. OtherCash counts only
// when IncludeOtherCash is set.
func TotalCashInvested(in Input) float64 {
	invested := in.DownPayment + in.ClosingCosts
	if in.IncludeOtherCash {
		invested += in.OtherCash
	}
	return invested
}

// Summarize derives totals, equity multiple and IRR from the rows.
//
// IRR stream: [−invested, CF_1, ..., CF_{N−1}, CF_N + Equity_N]
func Summarize(in Input, rows []YearlyProjection) Summary {
	invested := TotalCashInvested(in)
	s := Summary{
		Years:             len(rows),
		TotalCashInvested: invested,
	}
	if len(rows) == 0 {
		return s
	}

	for _, r := range rows {
		s.TotalCashFlow += r.CashFlow
		s.AverageCashOnCash += r.CashOnCash
		s.TotalPrincipalPaid += r.PrincipalPaid
	}
	n := float64(len(rows))
	s.AverageCashFlow = s.TotalCashFlow / n
	s.AverageCashOnCash /= n

	last := rows[len(rows)-1]
	s.FinalPropertyValue = last.PropertyValue
	s.FinalLoanBalance = last.LoanBalance
	s.FinalEquity = last.TotalEquity
	s.TotalWealth = last.TotalWealth
	s.TotalAppreciation = last.PropertyValue - in.PurchasePrice
	if invested > 0 {
		s.EquityMultiple = last.TotalWealth / invested
	}

	irr := calc.SolveIRR(CashFlowStream(invested, rows))
	s.IRR = irr.Rate
	s.IRRIterations = irr.Iterations
	s.IRRConverged = irr.Converged
	return s
}

// CashFlowStream is the investor's stream: equity out at t=0, yearly cash
// flow, and the final year's equity released on sale.
func CashFlowStream(invested float64, rows []YearlyProjection) []float64 {
	flows := make([]float64, 0, len(rows)+1)
	flows = append(flows, -invested)
	for i, r := range rows {
		cf := r.CashFlow
		if i == len(rows)-1 {
			cf += r.TotalEquity
		}
		flows = append(flows, cf)
	}
	return flows
}
