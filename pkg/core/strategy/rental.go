package strategy

import (
	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/calc"
)

// loan is a level-payment purchase loan.
type loan struct {
	DownPayment       float64
	ClosingCosts      float64
	Amount            float64
	MonthlyPayment    float64
	AnnualDebtService float64
}

func newLoan(price, downPct, rate float64, termYears int, closingPct float64) loan {
	l := loan{
		DownPayment:  price * downPct,
		ClosingCosts: price * closingPct,
	}
	l.Amount = price - l.DownPayment
	l.MonthlyPayment = calc.MonthlyPayment(l.Amount, rate, termYears)
	l.AnnualDebtService = l.MonthlyPayment * calc.MonthsPerYear
	return l
}

func conventionalLoan(price float64, f assumption.Financing) loan {
	return newLoan(price, f.DownPaymentPct, f.InterestRate, f.LoanTermYears, f.ClosingCostsPct)
}

// operations is a year of rental income and operating expense.
type operations struct {
	GrossIncome       float64
	VacancyLoss       float64
	EffectiveIncome   float64
	OperatingExpenses float64
	NOI               float64
}

// rentalOperations applies the operating assumptions to a monthly rent.
//
// FORMULA:
//
//	gross     = rent × 12
//	effective = gross − gross × vacancy + otherIncome × 12
//	opex      = taxes + insurance + gross × (mgmt + maint + capex) + (hoa + utilities) × 12
//	NOI       = effective − opex
func rentalOperations(monthlyRent float64, op assumption.Operating) operations {
	var o operations
	o.GrossIncome = monthlyRent * calc.MonthsPerYear
	o.VacancyLoss = o.GrossIncome * op.VacancyRate
	o.EffectiveIncome = o.GrossIncome - o.VacancyLoss + op.OtherIncomeMonthly*calc.MonthsPerYear
	o.OperatingExpenses = op.PropertyTaxes + op.Insurance +
		o.GrossIncome*(op.ManagementPct+op.MaintenancePct+op.CapExPct) +
		(op.HOAMonthly+op.UtilitiesMonthly)*calc.MonthsPerYear
	o.NOI = o.EffectiveIncome - o.OperatingExpenses
	return o
}
