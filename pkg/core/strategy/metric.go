package strategy

// Format tags how a metric value is displayed.
type Format string

const (
	FormatCurrency Format = "currency"
	FormatPercent  Format = "percent"
	FormatRatio    Format = "ratio"
	FormatBoolean  Format = "boolean"
	FormatScore    Format = "score"
	FormatText     Format = "text"
)

// Metric is one named value. Booleans are 1 or 0; text metrics carry their
// value in Text.
type Metric struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Text   string  `json:"text,omitempty"`
	Format Format  `json:"format"`
}

// Bool interprets a boolean metric.
func (m Metric) Bool() bool {
	return m.Value != 0
}

// Metric names shared across strategies.
const (
	MetricPurchasePrice      = "purchase_price"
	MetricDownPayment        = "down_payment"
	MetricClosingCosts       = "closing_costs"
	MetricLoanAmount         = "loan_amount"
	MetricMonthlyPayment     = "monthly_payment"
	MetricGrossIncome        = "gross_income"
	MetricVacancyLoss        = "vacancy_loss"
	MetricEffectiveIncome    = "effective_income"
	MetricOperatingExpenses  = "operating_expenses"
	MetricNOI                = "noi"
	MetricAnnualDebtService  = "annual_debt_service"
	MetricAnnualCashFlow     = "annual_cash_flow"
	MetricMonthlyCashFlow    = "monthly_cash_flow"
	MetricTotalCashRequired  = "total_cash_required"
	MetricCapRate            = "cap_rate"
	MetricCashOnCash         = "cash_on_cash"
	MetricDSCR               = "dscr"
	MetricDealScore          = "deal_score"
	MetricDealGrade          = "deal_grade"
	MetricGRM                = "grm"
	MetricOnePercentRule     = "one_percent_rule"
	MetricBreakEvenRatio     = "break_even_ratio"
	MetricRoomRevenue        = "room_revenue"
	MetricCleaningRevenue    = "cleaning_revenue"
	MetricRevPAR             = "revpar"
	MetricBreakEvenOccupancy = "break_even_occupancy"
	MetricOccupancyMargin    = "occupancy_margin"
	MetricFurnishingCost     = "furnishing_cost"
	MetricRehabCost          = "rehab_cost"
	MetricHoldingCosts       = "holding_costs"
	MetricInitialInvestment  = "initial_investment"
	MetricRefinanceLoan      = "refinance_loan"
	MetricRefinanceClosing   = "refinance_closing_costs"
	MetricCashOutAtRefi      = "cash_out_at_refi"
	MetricCashLeftInDeal     = "cash_left_in_deal"
	MetricCashRecoupPct      = "cash_recoup_pct"
	MetricEquityCreated      = "equity_created"
	MetricAllInCost          = "all_in_cost"
	MetricSpreadBuffer       = "spread_buffer"
	MetricInfiniteReturn     = "infinite_return"
	MetricTotalProjectCost   = "total_project_cost"
	MetricHoldingMonths      = "holding_months"
	MetricFinancingCosts     = "financing_costs"
	MetricSellingCosts       = "selling_costs"
	MetricGrossProfit        = "gross_profit"
	MetricCapitalGainsTax    = "capital_gains_tax"
	MetricNetProfit          = "net_profit"
	MetricROI                = "roi"
	MetricAnnualizedROI      = "annualized_roi"
	MetricMaxAllowableOffer  = "max_allowable_offer"
	MetricMeets70Rule        = "meets_70_rule"
	MetricProfitMargin       = "profit_margin"
	MetricPITI               = "piti"
	MetricOwnerShare         = "owner_share"
	MetricNetRentedIncome    = "net_rented_income"
	MetricEffectiveHousing   = "effective_housing_cost"
	MetricHousingSavings     = "housing_savings"
	MetricHousingReduction   = "housing_cost_reduction"
	MetricLivesForFree       = "lives_for_free"
	MetricMoveOutCashFlow    = "move_out_cash_flow"
	MetricAssignmentFee      = "assignment_fee"
	MetricEndBuyerPrice      = "end_buyer_price"
	MetricEndBuyerSpread     = "end_buyer_spread"
	MetricCashAtRisk         = "cash_at_risk"
	MetricViability          = "viability"
)

func currency(name string, v float64) Metric {
	return Metric{Name: name, Value: v, Format: FormatCurrency}
}
func percent(name string, v float64) Metric {
	return Metric{Name: name, Value: v, Format: FormatPercent}
}
func ratio(name string, v float64) Metric { return Metric{Name: name, Value: v, Format: FormatRatio} }
func boolean(name string, b bool) Metric {
	return Metric{Name: name, Value: boolValue(b), Format: FormatBoolean}
}
func text(name, s string) Metric { return Metric{Name: name, Text: s, Format: FormatText} }

func scoreMetrics(s DealScore) []Metric {
	return []Metric{
		{Name: MetricDealScore, Value: float64(s.Score), Format: FormatScore},
		text(MetricDealGrade, string(s.Grade)),
	}
}

// Lookup finds a metric by name. The second return is false when the metric
// does not apply to r's strategy.
func Lookup(r Result, name string) (Metric, bool) {
	if r == nil {
		return Metric{}, false
	}
	for _, m := range r.Metrics() {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// MetricMap indexes r's metrics by name.
func MetricMap(r Result) map[string]Metric {
	ms := r.Metrics()
	out := make(map[string]Metric, len(ms))
	for _, m := range ms {
		out[m.Name] = m
	}
	return out
}
