package deal

import (
	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/calc"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/projection"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/strategy"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/valuation"
)

// Analyze runs appraisal → strategy → projection. The only error is an
// unknown strategy.
func Analyze(in Input) (Report, error) {
	appraisal := valuation.Appraise(valuation.AppraisalInput{
		Subject:            in.Subject,
		SaleComps:          in.SaleComps,
		RentalComps:        in.RentalComps,
		ImprovementPremium: in.ImprovementPremium,
	})

	sin := StrategyInput(in, appraisal)
	result, err := strategy.Calculate(sin)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Appraisal: appraisal,
		Strategy:  in.Strategy,
		BasePrice: sin.BasePrice(),
		Result:    result,
		Metrics:   result.Metrics(),
		Headline:  strategy.ExtractHeadline(result),
	}
	if pin, ok := ProjectionInput(sin, result); ok {
		proj := projection.Project(pin)
		report.Projection = &proj
	}
	return report, nil
}

// StrategyInput builds the strategy input from the request and the
// appraisal. Appraised values fill only the inputs the caller left at zero;
// in.Assumptions itself is not modified.
func StrategyInput(in Input, a valuation.Appraisal) strategy.Input {
	set := fillAssumptions(in.Assumptions, in.Subject, a)

	prices := in.Prices
	if prices.Market == 0 {
		prices.Market = a.MarketValue
	}
	if prices.List == 0 {
		prices.List = prices.Market
	}

	return strategy.Input{
		Strategy:         in.Strategy,
		PriceTarget:      in.PriceTarget,
		Prices:           prices,
		AfterRepairValue: a.AfterRepairValue,
		Assumptions:      set,
	}
}

func fillAssumptions(set assumption.Set, subject valuation.SubjectProperty, a valuation.Appraisal) assumption.Set {
	if set.Operating.MonthlyRent == 0 {
		set.Operating.MonthlyRent = a.MarketRent
	}
	if set.Operating.RehabCost == 0 {
		set.Operating.RehabCost = subject.RehabCost
	}
	if set.BRRRR.RehabBudget == 0 {
		set.BRRRR.RehabBudget = subject.RehabCost
	}
	if set.BRRRR.PostRehabRent == 0 {
		set.BRRRR.PostRehabRent = a.MarketRent
	}
	if set.Flip.RehabBudget == 0 {
		set.Flip.RehabBudget = subject.RehabCost
	}
	if set.Wholesale.EstimatedRepairs == 0 {
		set.Wholesale.EstimatedRepairs = subject.RehabCost
	}
	if set.HouseHack.RentPerUnit == 0 {
		set.HouseHack.RentPerUnit = a.MarketRent
	}
	return set
}

// ProjectionInput maps a hold strategy's result onto the projection engine.
// Flip and wholesale have no hold period and return false.
func ProjectionInput(in strategy.Input, r strategy.Result) (projection.Input, bool) {
	a := in.Assumptions
	op := a.Operating
	pin := projection.Input{
		VacancyRate:       op.VacancyRate,
		PropertyTaxes:     op.PropertyTaxes,
		Insurance:         op.Insurance,
		HOAMonthly:        op.HOAMonthly + op.UtilitiesMonthly,
		ManagementPct:     op.ManagementPct,
		MaintenancePct:    op.MaintenancePct,
		CapExPct:          op.CapExPct,
		InterestRate:      a.Financing.InterestRate,
		LoanTermYears:     a.Financing.LoanTermYears,
		RentGrowth:        a.Growth.RentGrowth,
		PropertyTaxGrowth: a.Growth.PropertyTaxGrowth,
		InsuranceGrowth:   a.Growth.InsuranceGrowth,
		ExpenseGrowth:     a.Growth.ExpenseGrowth,
		Appreciation:      a.Growth.Appreciation,
		Years:             a.Growth.HoldYears,
		IncludeOtherCash:  a.Growth.IncludeUpfrontCash,
	}

	switch v := r.(type) {
	case *strategy.LTRResult:
		pin.PurchasePrice = v.PurchasePrice
		pin.DownPayment = v.DownPayment
		pin.ClosingCosts = v.ClosingCosts
		pin.LoanAmount = v.LoanAmount
		pin.OtherCash = op.RehabCost
		pin.MonthlyRent = op.MonthlyRent
	case *strategy.STRResult:
		// Nightly operations collapse onto the rental model: all variable
		// costs and turnover cleaning become a share of gross income.
		pin.PurchasePrice = v.PurchasePrice
		pin.DownPayment = v.DownPayment
		pin.ClosingCosts = v.ClosingCosts
		pin.LoanAmount = v.LoanAmount
		pin.OtherCash = v.FurnishingCost + op.RehabCost
		pin.MonthlyRent = v.GrossIncome / calc.MonthsPerYear
		pin.VacancyRate = 0
		pin.HOAMonthly += a.ShortTermRental.SuppliesMonthly
		pin.ManagementPct = safeDiv(v.VariableExpenses+v.CleaningCosts, v.GrossIncome)
		pin.MaintenancePct = 0
		pin.CapExPct = 0
	case *strategy.BRRRRResult:
		// The hold starts after the refinance: the property is worth ARV,
		// the refinance loan is the debt and the cash left in is the equity.
		pin.PurchasePrice = v.AfterRepairValue
		pin.DownPayment = v.CashLeftInDeal
		pin.LoanAmount = v.RefinanceLoan
		pin.InterestRate = a.BRRRR.RefinanceRate
		pin.LoanTermYears = a.BRRRR.RefinanceTermYears
		pin.MonthlyRent = v.MonthlyRent
	case *strategy.HouseHackResult:
		// Projected as the move-out scenario with every unit rented.
		pin.PurchasePrice = v.PurchasePrice
		pin.DownPayment = v.DownPayment
		pin.ClosingCosts = v.ClosingCosts
		pin.LoanAmount = v.LoanAmount
		pin.OtherCash = op.RehabCost
		pin.MonthlyRent = float64(v.Units) * a.HouseHack.RentPerUnit
	default:
		return projection.Input{}, false
	}
	return pin, true
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
