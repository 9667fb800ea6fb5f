package strategy

import "github.com/humblehuman369/dealscope-sub001/pkg/core/calc"

// DaysPerMonth converts days on market into holding months.
const DaysPerMonth = 30

var (
	flipProfitCurve     = Curve{Cap: 30, Breakpoints: []Breakpoint{{0, 0}, {15000, 10}, {30000, 20}, {50000, 30}}}
	flipROICurve        = Curve{Cap: 25, Breakpoints: []Breakpoint{{0, 0}, {0.1, 8}, {0.2, 16}, {0.3, 25}}}
	flipAnnualizedCurve = Curve{Cap: 15, Breakpoints: []Breakpoint{{0, 0}, {0.25, 8}, {0.5, 15}}}
	flipOfferCurve      = Curve{Cap: 15, Breakpoints: []Breakpoint{{-0.1, 0}, {0, 10}, {0.05, 15}}}
	flipMarginCurve     = Curve{Cap: 15, Breakpoints: []Breakpoint{{0, 0}, {0.1, 8}, {0.15, 15}}}
)

// FlipResult is a fix-and-flip analysis.
type FlipResult struct {
	PurchasePrice     float64 `json:"purchase_price"`
	AfterRepairValue  float64 `json:"after_repair_value"`
	LoanAmount        float64 `json:"loan_amount"`
	Points            float64 `json:"points"`
	ClosingCosts      float64 `json:"closing_costs"`
	RehabCost         float64 `json:"rehab_cost"`
	HoldingMonths     float64 `json:"holding_months"`
	HoldingCosts      float64 `json:"holding_costs"`
	InterestCosts     float64 `json:"interest_costs"`
	FinancingCosts    float64 `json:"financing_costs"`
	TotalProjectCost  float64 `json:"total_project_cost"`
	TotalCashRequired float64 `json:"total_cash_required"`
	SellingCosts      float64 `json:"selling_costs"`
	GrossProfit       float64 `json:"gross_profit"`
	CapitalGainsTax   float64 `json:"capital_gains_tax"`
	NetProfit         float64 `json:"net_profit"`
	ROI               float64 `json:"roi"`
	AnnualizedROI     float64 `json:"annualized_roi"`
	MaxAllowableOffer float64 `json:"max_allowable_offer"`
	Meets70Rule       bool    `json:"meets_70_rule"`
	ProfitMargin      float64 `json:"profit_margin"`

	DealScore DealScore `json:"deal_score"`
}

// CalculateFlip analyses buying at the base price, rehabbing, and selling
// at the after-repair value.
//
// FORMULA:
//
//	holdingMonths    = rehabMonths + daysOnMarket / 30
//	totalProjectCost = price + closing + rehab + holding + interest + points
//	netProfit        = (ARV − selling − totalProjectCost) × (1 − cgRate) when positive
//	annualizedROI    = ROI × 12 / holdingMonths
func CalculateFlip(in Input) *FlipResult {
	a := in.Assumptions
	f := a.Flip
	price := in.BasePrice()
	arv := in.AfterRepairValue

	r := &FlipResult{
		PurchasePrice:    price,
		AfterRepairValue: arv,
	}

	r.LoanAmount = price * f.LoanToValue
	r.Points = r.LoanAmount * f.PointsPct
	r.ClosingCosts = price * a.Financing.ClosingCostsPct
	r.RehabCost = f.RehabBudget * (1 + f.ContingencyPct)
	r.HoldingMonths = f.RehabMonths + f.DaysOnMarket/DaysPerMonth
	r.HoldingCosts = f.HoldingCostsMonthly * r.HoldingMonths
	r.InterestCosts = r.LoanAmount * f.InterestRate / calc.MonthsPerYear * r.HoldingMonths
	r.FinancingCosts = r.InterestCosts + r.Points
	r.TotalProjectCost = price + r.ClosingCosts + r.RehabCost + r.HoldingCosts + r.FinancingCosts
	r.TotalCashRequired = r.TotalProjectCost - r.LoanAmount

	r.SellingCosts = arv * f.SellingCostsPct
	r.GrossProfit = arv - r.SellingCosts - r.TotalProjectCost
	r.CapitalGainsTax = max(0, r.GrossProfit) * f.CapitalGainsRate
	r.NetProfit = r.GrossProfit - r.CapitalGainsTax
	r.ROI = safeDiv(r.NetProfit, r.TotalCashRequired)
	r.AnnualizedROI = safeDiv(r.ROI*calc.MonthsPerYear, r.HoldingMonths)
	r.MaxAllowableOffer = MaxAllowableOffer(arv, r.RehabCost)
	r.Meets70Rule = price <= r.MaxAllowableOffer
	r.ProfitMargin = safeDiv(r.NetProfit, arv)

	r.DealScore = composite(
		component("net_profit", r.NetProfit, flipProfitCurve),
		component("roi", r.ROI, flipROICurve),
		component("annualized_roi", r.AnnualizedROI, flipAnnualizedCurve),
		component("offer_buffer", safeDiv(r.MaxAllowableOffer-price, arv), flipOfferCurve),
		component("profit_margin", r.ProfitMargin, flipMarginCurve),
	)
	return r
}

func (r *FlipResult) Strategy() Strategy { return FixAndFlip }
func (r *FlipResult) Score() DealScore   { return r.DealScore }

func (r *FlipResult) Metrics() []Metric {
	ms := []Metric{
		currency(MetricPurchasePrice, r.PurchasePrice),
		currency(MetricLoanAmount, r.LoanAmount),
		currency(MetricClosingCosts, r.ClosingCosts),
		currency(MetricRehabCost, r.RehabCost),
		ratio(MetricHoldingMonths, r.HoldingMonths),
		currency(MetricHoldingCosts, r.HoldingCosts),
		currency(MetricFinancingCosts, r.FinancingCosts),
		currency(MetricTotalProjectCost, r.TotalProjectCost),
		currency(MetricTotalCashRequired, r.TotalCashRequired),
		currency(MetricSellingCosts, r.SellingCosts),
		currency(MetricGrossProfit, r.GrossProfit),
		currency(MetricCapitalGainsTax, r.CapitalGainsTax),
		currency(MetricNetProfit, r.NetProfit),
		percent(MetricROI, r.ROI),
		percent(MetricAnnualizedROI, r.AnnualizedROI),
		currency(MetricMaxAllowableOffer, r.MaxAllowableOffer),
		boolean(MetricMeets70Rule, r.Meets70Rule),
		percent(MetricProfitMargin, r.ProfitMargin),
	}
	return append(ms, scoreMetrics(r.DealScore)...)
}
