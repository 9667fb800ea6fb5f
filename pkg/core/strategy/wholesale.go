package strategy

// SeventyPercentRule is the share of after-repair value an investor pays
// before repairs.
const SeventyPercentRule = 0.70

// Viability tiers for a wholesale deal.
const (
	ViabilityExcellent = "excellent"
	ViabilityGood      = "good"
	ViabilityMarginal  = "marginal"
	ViabilityPoor      = "poor"
)

const (
	wholesaleExcellentProfit = 15000
	wholesaleGoodProfit      = 7500
)

var (
	wholesaleOfferCurve  = Curve{Cap: 30, Breakpoints: []Breakpoint{{-0.05, 0}, {0, 15}, {0.05, 25}, {0.1, 30}}}
	wholesaleProfitCurve = Curve{Cap: 30, Breakpoints: []Breakpoint{{0, 0}, {5000, 10}, {10000, 20}, {20000, 30}}}
	wholesaleROICurve    = Curve{Cap: 20, Breakpoints: []Breakpoint{{0, 0}, {1, 10}, {3, 20}}}
	wholesaleBuyerCurve  = Curve{Cap: 20, Breakpoints: []Breakpoint{{-0.05, 0}, {0, 10}, {0.05, 20}}}
)

// MaxAllowableOffer is ARV × 0.70 − repairs.
func MaxAllowableOffer(arv, repairs float64) float64 {
	return arv*SeventyPercentRule - repairs
}

// WholesaleResult is an assignment-deal analysis.
type WholesaleResult struct {
	AfterRepairValue  float64 `json:"after_repair_value"`
	EstimatedRepairs  float64 `json:"estimated_repairs"`
	ContractPrice     float64 `json:"contract_price"`
	MaxAllowableOffer float64 `json:"max_allowable_offer"`
	Meets70Rule       bool    `json:"meets_70_rule"`
	AssignmentFee     float64 `json:"assignment_fee"`
	EndBuyerPrice     float64 `json:"end_buyer_price"`
	EndBuyerSpread    float64 `json:"end_buyer_spread"`
	NetProfit         float64 `json:"net_profit"`
	CashAtRisk        float64 `json:"cash_at_risk"`
	ROI               float64 `json:"roi"`
	Viability         string  `json:"viability"`

	DealScore DealScore `json:"deal_score"`
}

// CalculateWholesale analyses putting the property under contract at the
// base price and assigning the contract to an end buyer.
func CalculateWholesale(in Input) *WholesaleResult {
	w := in.Assumptions.Wholesale
	arv := in.AfterRepairValue
	contract := in.BasePrice()

	r := &WholesaleResult{
		AfterRepairValue: arv,
		EstimatedRepairs: w.EstimatedRepairs,
		ContractPrice:    contract,
		AssignmentFee:    w.AssignmentFee,
	}
	r.MaxAllowableOffer = MaxAllowableOffer(arv, w.EstimatedRepairs)
	r.Meets70Rule = contract <= r.MaxAllowableOffer
	r.EndBuyerPrice = contract + w.AssignmentFee
	r.EndBuyerSpread = r.MaxAllowableOffer - r.EndBuyerPrice
	r.NetProfit = w.AssignmentFee - w.MarketingCosts - w.ClosingCosts
	r.CashAtRisk = w.EarnestMoney + w.MarketingCosts
	r.ROI = safeDiv(r.NetProfit, r.CashAtRisk)
	r.Viability = WholesaleViability(r.Meets70Rule, r.NetProfit)

	r.DealScore = composite(
		component("offer_spread", safeDiv(r.MaxAllowableOffer-contract, arv), wholesaleOfferCurve),
		component("net_profit", r.NetProfit, wholesaleProfitCurve),
		component("roi", r.ROI, wholesaleROICurve),
		component("end_buyer_spread", safeDiv(r.EndBuyerSpread, arv), wholesaleBuyerCurve),
	)
	return r
}

// WholesaleViability tiers a deal on the offer rule and net profit.
func WholesaleViability(meets70Rule bool, netProfit float64) string {
	switch {
	case !meets70Rule || netProfit <= 0:
		return ViabilityPoor
	case netProfit >= wholesaleExcellentProfit:
		return ViabilityExcellent
	case netProfit >= wholesaleGoodProfit:
		return ViabilityGood
	default:
		return ViabilityMarginal
	}
}

func (r *WholesaleResult) Strategy() Strategy { return Wholesale }
func (r *WholesaleResult) Score() DealScore   { return r.DealScore }

func (r *WholesaleResult) Metrics() []Metric {
	ms := []Metric{
		currency(MetricPurchasePrice, r.ContractPrice),
		currency(MetricRehabCost, r.EstimatedRepairs),
		currency(MetricMaxAllowableOffer, r.MaxAllowableOffer),
		boolean(MetricMeets70Rule, r.Meets70Rule),
		currency(MetricAssignmentFee, r.AssignmentFee),
		currency(MetricEndBuyerPrice, r.EndBuyerPrice),
		currency(MetricEndBuyerSpread, r.EndBuyerSpread),
		currency(MetricNetProfit, r.NetProfit),
		currency(MetricCashAtRisk, r.CashAtRisk),
		currency(MetricTotalCashRequired, r.CashAtRisk),
		percent(MetricROI, r.ROI),
		text(MetricViability, r.Viability),
	}
	return append(ms, scoreMetrics(r.DealScore)...)
}
