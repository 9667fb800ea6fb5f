package strategy

import "github.com/humblehuman369/dealscope-sub001/pkg/core/calc"

var (
	ltrCashFlowCurve   = Curve{Cap: 25, Breakpoints: []Breakpoint{{-500, 0}, {0, 5}, {200, 15}, {500, 25}}}
	ltrCashOnCashCurve = Curve{Cap: 25, Breakpoints: []Breakpoint{{0, 0}, {0.04, 8}, {0.08, 18}, {0.12, 25}}}
	ltrCapRateCurve    = Curve{Cap: 20, Breakpoints: []Breakpoint{{0.03, 0}, {0.05, 8}, {0.07, 15}, {0.09, 20}}}
	ltrDSCRCurve       = Curve{Cap: 20, Breakpoints: []Breakpoint{{1, 0}, {1.2, 10}, {1.5, 20}}}
	ltrOnePercentCurve = Curve{Cap: 10, Breakpoints: []Breakpoint{{0.004, 0}, {0.007, 5}, {0.01, 10}}}
)

// LTRResult is a long-term rental analysis.
type LTRResult struct {
	PurchasePrice     float64 `json:"purchase_price"`
	DownPayment       float64 `json:"down_payment"`
	ClosingCosts      float64 `json:"closing_costs"`
	LoanAmount        float64 `json:"loan_amount"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	GrossIncome       float64 `json:"gross_income"`
	VacancyLoss       float64 `json:"vacancy_loss"`
	EffectiveIncome   float64 `json:"effective_income"`
	OperatingExpenses float64 `json:"operating_expenses"`
	NOI               float64 `json:"noi"`
	AnnualDebtService float64 `json:"annual_debt_service"`
	AnnualCashFlow    float64 `json:"annual_cash_flow"`
	MonthlyCashFlow   float64 `json:"monthly_cash_flow"`
	TotalCashRequired float64 `json:"total_cash_required"`
	CapRate           float64 `json:"cap_rate"`
	CashOnCash        float64 `json:"cash_on_cash"`
	DSCR              float64 `json:"dscr"`
	GRM               float64 `json:"grm"`
	OnePercentRule    float64 `json:"one_percent_rule"`
	BreakEvenRatio    float64 `json:"break_even_ratio"`

	DealScore DealScore `json:"deal_score"`
}

// CalculateLTR analyses a buy-and-hold rental at the base price.
func CalculateLTR(in Input) *LTRResult {
	a := in.Assumptions
	price := in.BasePrice()
	l := conventionalLoan(price, a.Financing)
	ops := rentalOperations(a.Operating.MonthlyRent, a.Operating)

	r := &LTRResult{
		PurchasePrice:     price,
		DownPayment:       l.DownPayment,
		ClosingCosts:      l.ClosingCosts,
		LoanAmount:        l.Amount,
		MonthlyPayment:    l.MonthlyPayment,
		GrossIncome:       ops.GrossIncome,
		VacancyLoss:       ops.VacancyLoss,
		EffectiveIncome:   ops.EffectiveIncome,
		OperatingExpenses: ops.OperatingExpenses,
		NOI:               ops.NOI,
		AnnualDebtService: l.AnnualDebtService,
	}
	r.AnnualCashFlow = r.NOI - r.AnnualDebtService
	r.MonthlyCashFlow = r.AnnualCashFlow / calc.MonthsPerYear
	r.TotalCashRequired = l.DownPayment + l.ClosingCosts + a.Operating.RehabCost
	r.CapRate = safeDiv(r.NOI, price)
	r.CashOnCash = safeDiv(r.AnnualCashFlow, r.TotalCashRequired)
	r.DSCR = safeDiv(r.NOI, r.AnnualDebtService)
	r.GRM = safeDiv(price, r.GrossIncome)
	r.OnePercentRule = safeDiv(a.Operating.MonthlyRent, price)
	r.BreakEvenRatio = safeDiv(r.OperatingExpenses+r.AnnualDebtService, r.GrossIncome)

	r.DealScore = composite(
		component("cash_flow", r.MonthlyCashFlow, ltrCashFlowCurve),
		component("cash_on_cash", r.CashOnCash, ltrCashOnCashCurve),
		component("cap_rate", r.CapRate, ltrCapRateCurve),
		component("dscr", dscrForScore(r.DSCR, r.AnnualDebtService), ltrDSCRCurve),
		component("one_percent_rule", r.OnePercentRule, ltrOnePercentCurve),
	)
	return r
}

// dscrForScore treats an unlevered deal as fully covered.
func dscrForScore(dscr, debt float64) float64 {
	if debt == 0 {
		return ltrDSCRCurve.Breakpoints[len(ltrDSCRCurve.Breakpoints)-1].X
	}
	return dscr
}

func (r *LTRResult) Strategy() Strategy { return LongTermRental }
func (r *LTRResult) Score() DealScore   { return r.DealScore }

func (r *LTRResult) Metrics() []Metric {
	ms := []Metric{
		currency(MetricPurchasePrice, r.PurchasePrice),
		currency(MetricDownPayment, r.DownPayment),
		currency(MetricClosingCosts, r.ClosingCosts),
		currency(MetricLoanAmount, r.LoanAmount),
		currency(MetricMonthlyPayment, r.MonthlyPayment),
		currency(MetricGrossIncome, r.GrossIncome),
		currency(MetricVacancyLoss, r.VacancyLoss),
		currency(MetricEffectiveIncome, r.EffectiveIncome),
		currency(MetricOperatingExpenses, r.OperatingExpenses),
		currency(MetricNOI, r.NOI),
		currency(MetricAnnualDebtService, r.AnnualDebtService),
		currency(MetricAnnualCashFlow, r.AnnualCashFlow),
		currency(MetricMonthlyCashFlow, r.MonthlyCashFlow),
		currency(MetricTotalCashRequired, r.TotalCashRequired),
		percent(MetricCapRate, r.CapRate),
		percent(MetricCashOnCash, r.CashOnCash),
		ratio(MetricDSCR, r.DSCR),
		ratio(MetricGRM, r.GRM),
		percent(MetricOnePercentRule, r.OnePercentRule),
		percent(MetricBreakEvenRatio, r.BreakEvenRatio),
	}
	return append(ms, scoreMetrics(r.DealScore)...)
}
