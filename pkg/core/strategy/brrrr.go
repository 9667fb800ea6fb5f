package strategy

import "github.com/humblehuman369/dealscope-sub001/pkg/core/calc"

var (
	brrrrRecoupCurve   = Curve{Cap: 25, Breakpoints: []Breakpoint{{0, 0}, {0.5, 8}, {0.8, 15}, {1, 25}}}
	brrrrEquityCurve   = Curve{Cap: 20, Breakpoints: []Breakpoint{{0, 0}, {25000, 10}, {50000, 20}}}
	brrrrCashFlowCurve = Curve{Cap: 20, Breakpoints: []Breakpoint{{0, 0}, {100, 8}, {300, 15}, {500, 20}}}
	brrrrReturnCurve   = Curve{Cap: 15, Breakpoints: []Breakpoint{{0, 0}, {0.08, 8}, {0.15, 15}}}
	brrrrSpreadCurve   = Curve{Cap: 20, Breakpoints: []Breakpoint{{0, 0}, {0.10, 10}, {0.20, 15}, {0.25, 20}}}
)

// BRRRRResult is a buy-rehab-rent-refinance-repeat analysis.
type BRRRRResult struct {
	// Acquisition
	PurchasePrice     float64 `json:"purchase_price"`
	InitialLoan       float64 `json:"initial_loan"`
	DownPayment       float64 `json:"down_payment"`
	ClosingCosts      float64 `json:"closing_costs"`
	RehabCost         float64 `json:"rehab_cost"`
	HoldingCosts      float64 `json:"holding_costs"`
	InitialInvestment float64 `json:"initial_investment"`
	AllInCost         float64 `json:"all_in_cost"`

	// Refinance
	AfterRepairValue      float64 `json:"after_repair_value"`
	RefinanceLoan         float64 `json:"refinance_loan"`
	RefinanceClosingCosts float64 `json:"refinance_closing_costs"`
	CashOutAtRefi         float64 `json:"cash_out_at_refi"`
	CashLeftInDeal        float64 `json:"cash_left_in_deal"`
	CashRecoupPct         float64 `json:"cash_recoup_pct"`
	EquityCreated         float64 `json:"equity_created"`
	SpreadBuffer          float64 `json:"spread_buffer"`

	// Post-refinance operations
	MonthlyRent       float64 `json:"monthly_rent"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	GrossIncome       float64 `json:"gross_income"`
	EffectiveIncome   float64 `json:"effective_income"`
	OperatingExpenses float64 `json:"operating_expenses"`
	NOI               float64 `json:"noi"`
	AnnualDebtService float64 `json:"annual_debt_service"`
	AnnualCashFlow    float64 `json:"annual_cash_flow"`
	MonthlyCashFlow   float64 `json:"monthly_cash_flow"`
	CapRate           float64 `json:"cap_rate"`
	CashOnCash        float64 `json:"cash_on_cash"`
	DSCR              float64 `json:"dscr"`
	InfiniteReturn    bool    `json:"infinite_return"`

	DealScore DealScore `json:"deal_score"`
}

// CalculateBRRRR models acquisition on short-term financing, a rehab, and a
// refinance at a loan-to-value of the after-repair value.
//
// FORMULA:
//
//	initialInvestment = down + closing + rehab × (1 + contingency) + holding
//	cashOutAtRefi     = ARV × refiLTV − initialLoan − refiClosing
//	cashLeftInDeal    = max(0, initialInvestment − cashOutAtRefi)
//	equityCreated     = ARV − ARV × refiLTV
func CalculateBRRRR(in Input) *BRRRRResult {
	a := in.Assumptions
	b := a.BRRRR
	price := in.BasePrice()
	arv := in.AfterRepairValue

	r := &BRRRRResult{
		PurchasePrice:    price,
		AfterRepairValue: arv,
	}

	// 1. Acquisition and rehab
	r.InitialLoan = price * b.InitialLoanLTV
	r.DownPayment = price - r.InitialLoan
	r.ClosingCosts = price * a.Financing.ClosingCostsPct
	r.RehabCost = b.RehabBudget * (1 + b.ContingencyPct)
	r.HoldingCosts = b.HoldingCostsMonthly*b.HoldingMonths +
		r.InitialLoan*b.InitialInterestRate/calc.MonthsPerYear*b.HoldingMonths
	r.InitialInvestment = r.DownPayment + r.ClosingCosts + r.RehabCost + r.HoldingCosts
	r.AllInCost = price + r.ClosingCosts + r.RehabCost + r.HoldingCosts

	// 2. Refinance
	r.RefinanceLoan = arv * b.RefinanceLTV
	r.RefinanceClosingCosts = r.RefinanceLoan * b.RefinanceClosingCostsPct
	r.CashOutAtRefi = r.RefinanceLoan - r.InitialLoan - r.RefinanceClosingCosts
	r.CashLeftInDeal = max(0, r.InitialInvestment-r.CashOutAtRefi)
	r.CashRecoupPct = safeDiv(r.CashOutAtRefi, r.InitialInvestment)
	r.EquityCreated = arv - r.RefinanceLoan
	r.SpreadBuffer = safeDiv(arv-r.AllInCost, arv)

	// 3. Hold on the refinance loan
	r.MonthlyRent = b.PostRehabRent
	if r.MonthlyRent == 0 {
		r.MonthlyRent = a.Operating.MonthlyRent
	}
	ops := rentalOperations(r.MonthlyRent, a.Operating)
	r.GrossIncome = ops.GrossIncome
	r.EffectiveIncome = ops.EffectiveIncome
	r.OperatingExpenses = ops.OperatingExpenses
	r.NOI = ops.NOI
	r.MonthlyPayment = calc.MonthlyPayment(r.RefinanceLoan, b.RefinanceRate, b.RefinanceTermYears)
	r.AnnualDebtService = r.MonthlyPayment * calc.MonthsPerYear
	r.AnnualCashFlow = r.NOI - r.AnnualDebtService
	r.MonthlyCashFlow = r.AnnualCashFlow / calc.MonthsPerYear
	r.CapRate = safeDiv(r.NOI, arv)
	r.CashOnCash = safeDiv(r.AnnualCashFlow, r.CashLeftInDeal)
	r.DSCR = safeDiv(r.NOI, r.AnnualDebtService)
	r.InfiniteReturn = r.CashLeftInDeal == 0 && r.AnnualCashFlow > 0

	returnScore := component("cash_on_cash", r.CashOnCash, brrrrReturnCurve)
	if r.InfiniteReturn {
		returnScore.Points = brrrrReturnCurve.Cap
	}
	r.DealScore = composite(
		component("cash_recoup", r.CashRecoupPct, brrrrRecoupCurve),
		component("equity_created", r.EquityCreated, brrrrEquityCurve),
		component("cash_flow", r.MonthlyCashFlow, brrrrCashFlowCurve),
		returnScore,
		component("spread_buffer", r.SpreadBuffer, brrrrSpreadCurve),
	)
	return r
}

func (r *BRRRRResult) Strategy() Strategy { return BRRRR }
func (r *BRRRRResult) Score() DealScore   { return r.DealScore }

func (r *BRRRRResult) Metrics() []Metric {
	ms := []Metric{
		currency(MetricPurchasePrice, r.PurchasePrice),
		currency(MetricLoanAmount, r.InitialLoan),
		currency(MetricDownPayment, r.DownPayment),
		currency(MetricClosingCosts, r.ClosingCosts),
		currency(MetricRehabCost, r.RehabCost),
		currency(MetricHoldingCosts, r.HoldingCosts),
		currency(MetricInitialInvestment, r.InitialInvestment),
		currency(MetricAllInCost, r.AllInCost),
		currency(MetricRefinanceLoan, r.RefinanceLoan),
		currency(MetricRefinanceClosing, r.RefinanceClosingCosts),
		currency(MetricCashOutAtRefi, r.CashOutAtRefi),
		currency(MetricCashLeftInDeal, r.CashLeftInDeal),
		percent(MetricCashRecoupPct, r.CashRecoupPct),
		currency(MetricEquityCreated, r.EquityCreated),
		percent(MetricSpreadBuffer, r.SpreadBuffer),
		currency(MetricMonthlyPayment, r.MonthlyPayment),
		currency(MetricGrossIncome, r.GrossIncome),
		currency(MetricEffectiveIncome, r.EffectiveIncome),
		currency(MetricOperatingExpenses, r.OperatingExpenses),
		currency(MetricNOI, r.NOI),
		currency(MetricAnnualDebtService, r.AnnualDebtService),
		currency(MetricAnnualCashFlow, r.AnnualCashFlow),
		currency(MetricMonthlyCashFlow, r.MonthlyCashFlow),
		currency(MetricTotalCashRequired, r.InitialInvestment),
		percent(MetricCapRate, r.CapRate),
		percent(MetricCashOnCash, r.CashOnCash),
		ratio(MetricDSCR, r.DSCR),
		boolean(MetricInfiniteReturn, r.InfiniteReturn),
	}
	return append(ms, scoreMetrics(r.DealScore)...)
}
