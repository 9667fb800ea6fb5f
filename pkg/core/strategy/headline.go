package strategy

// Headline is the handful of numbers every strategy card shows. Fields that
// do not apply to a strategy are zero.
type Headline struct {
	Strategy        Strategy `json:"strategy"`
	MonthlyCashFlow float64  `json:"monthly_cash_flow"`
	CashOnCash      float64  `json:"cash_on_cash"`
	CapRate         float64  `json:"cap_rate"`
	CashRequired    float64  `json:"cash_required"`
	NetProfit       float64  `json:"net_profit"`
	ROI             float64  `json:"roi"`
	Score           int      `json:"score"`
	Grade           Grade    `json:"grade"`
}

// ExtractHeadline pulls the cross-strategy headline numbers out of r.
func ExtractHeadline(r Result) Headline {
	if r == nil {
		return Headline{}
	}
	s := r.Score()
	h := Headline{Strategy: r.Strategy(), Score: s.Score, Grade: s.Grade}

	switch v := r.(type) {
	case *LTRResult:
		h.MonthlyCashFlow = v.MonthlyCashFlow
		h.CashOnCash = v.CashOnCash
		h.CapRate = v.CapRate
		h.CashRequired = v.TotalCashRequired
		h.ROI = v.CashOnCash
	case *STRResult:
		h.MonthlyCashFlow = v.MonthlyCashFlow
		h.CashOnCash = v.CashOnCash
		h.CapRate = v.CapRate
		h.CashRequired = v.TotalCashRequired
		h.ROI = v.CashOnCash
	case *BRRRRResult:
		h.MonthlyCashFlow = v.MonthlyCashFlow
		h.CashOnCash = v.CashOnCash
		h.CapRate = v.CapRate
		h.CashRequired = v.CashLeftInDeal
		h.NetProfit = v.EquityCreated
		h.ROI = v.CashOnCash
	case *FlipResult:
		h.CashRequired = v.TotalCashRequired
		h.NetProfit = v.NetProfit
		h.ROI = v.ROI
	case *HouseHackResult:
		h.MonthlyCashFlow = v.MonthlySavings
		h.CashRequired = v.TotalCashRequired
		h.ROI = v.SavingsReturn
	case *WholesaleResult:
		h.CashRequired = v.CashAtRisk
		h.NetProfit = v.NetProfit
		h.ROI = v.ROI
	}
	return h
}
