package strategy

import "github.com/humblehuman369/dealscope-sub001/pkg/core/calc"

// PMIThreshold is the down payment share at or above which no mortgage
// insurance is charged.
const PMIThreshold = 0.20

const houseHackLivesFreeBonus = 10

var (
	houseHackReductionCurve = Curve{Cap: 35, Breakpoints: []Breakpoint{{0, 0}, {0.25, 10}, {0.5, 20}, {1, 35}}}
	houseHackMoveOutCurve   = Curve{Cap: 25, Breakpoints: []Breakpoint{{-200, 0}, {0, 8}, {200, 15}, {500, 25}}}
	houseHackReturnCurve    = Curve{Cap: 30, Breakpoints: []Breakpoint{{0, 0}, {0.15, 10}, {0.3, 20}, {0.5, 30}}}
)

// HouseHackResult is an owner-occupied multi-unit analysis. Housing costs
// are monthly.
type HouseHackResult struct {
	PurchasePrice         float64 `json:"purchase_price"`
	DownPayment           float64 `json:"down_payment"`
	ClosingCosts          float64 `json:"closing_costs"`
	LoanAmount            float64 `json:"loan_amount"`
	MonthlyPayment        float64 `json:"monthly_payment"`
	MonthlyPMI            float64 `json:"monthly_pmi"`
	PITI                  float64 `json:"piti"`
	OwnerShare            float64 `json:"owner_share"`
	Units                 int     `json:"units"`
	RentedUnits           int     `json:"rented_units"`
	RentedGrossIncome     float64 `json:"rented_gross_income"`
	NetRentedIncome       float64 `json:"net_rented_income"`
	EffectiveHousingCost  float64 `json:"effective_housing_cost"`
	CurrentHousingPayment float64 `json:"current_housing_payment"`
	MonthlySavings        float64 `json:"monthly_savings"`
	HousingCostReduction  float64 `json:"housing_cost_reduction"`
	LivesForFree          bool    `json:"lives_for_free"`
	MoveOutCashFlow       float64 `json:"move_out_cash_flow"`
	TotalCashRequired     float64 `json:"total_cash_required"`
	SavingsReturn         float64 `json:"savings_return"`

	DealScore DealScore `json:"deal_score"`
}

// CalculateHouseHack analyses living in some units of a small multifamily
// while renting the rest.
//
// FORMULA:
//
//	PITI          = P&I + PMI + (taxes + insurance) / 12
//	ownerShare    = PITI × ownerUnits / totalUnits
//	netRented     = rentedGross × (1 − vacancy − mgmt − maint − capex) − (PITI − ownerShare)
//	effectiveCost = ownerShare − netRented + HOA
func CalculateHouseHack(in Input) *HouseHackResult {
	a := in.Assumptions
	h := a.HouseHack
	op := a.Operating
	price := in.BasePrice()
	l := newLoan(price, h.DownPaymentPct, a.Financing.InterestRate, a.Financing.LoanTermYears, a.Financing.ClosingCostsPct)

	r := &HouseHackResult{
		PurchasePrice:         price,
		DownPayment:           l.DownPayment,
		ClosingCosts:          l.ClosingCosts,
		LoanAmount:            l.Amount,
		MonthlyPayment:        l.MonthlyPayment,
		CurrentHousingPayment: h.CurrentHousingPayment,
	}
	if h.DownPaymentPct < PMIThreshold {
		r.MonthlyPMI = l.Amount * h.PMIRate / calc.MonthsPerYear
	}
	r.PITI = r.MonthlyPayment + r.MonthlyPMI + (op.PropertyTaxes+op.Insurance)/calc.MonthsPerYear

	units := max(h.TotalUnits, 1)
	owner := min(max(h.OwnerUnits, 0), units)
	r.OwnerShare = r.PITI * float64(owner) / float64(units)
	r.Units = units
	r.RentedUnits = units - owner

	variablePct := op.VacancyRate + op.ManagementPct + op.MaintenancePct + op.CapExPct
	r.RentedGrossIncome = float64(r.RentedUnits) * h.RentPerUnit
	r.NetRentedIncome = r.RentedGrossIncome*(1-variablePct) - (r.PITI - r.OwnerShare)
	r.EffectiveHousingCost = r.OwnerShare - r.NetRentedIncome + op.HOAMonthly
	r.MonthlySavings = h.CurrentHousingPayment - r.EffectiveHousingCost
	r.HousingCostReduction = safeDiv(r.MonthlySavings, h.CurrentHousingPayment)
	r.LivesForFree = r.EffectiveHousingCost <= 0

	fullGross := float64(units) * h.RentPerUnit
	r.MoveOutCashFlow = fullGross*(1-variablePct) - r.PITI - op.HOAMonthly
	r.TotalCashRequired = l.DownPayment + l.ClosingCosts + op.RehabCost
	r.SavingsReturn = safeDiv(r.MonthlySavings*calc.MonthsPerYear, r.TotalCashRequired)

	r.DealScore = composite(
		component("housing_cost_reduction", r.HousingCostReduction, houseHackReductionCurve),
		bonus("lives_for_free", r.LivesForFree, houseHackLivesFreeBonus),
		component("move_out_cash_flow", r.MoveOutCashFlow, houseHackMoveOutCurve),
		component("savings_return", r.SavingsReturn, houseHackReturnCurve),
	)
	return r
}

func (r *HouseHackResult) Strategy() Strategy { return HouseHack }
func (r *HouseHackResult) Score() DealScore   { return r.DealScore }

func (r *HouseHackResult) Metrics() []Metric {
	ms := []Metric{
		currency(MetricPurchasePrice, r.PurchasePrice),
		currency(MetricDownPayment, r.DownPayment),
		currency(MetricClosingCosts, r.ClosingCosts),
		currency(MetricLoanAmount, r.LoanAmount),
		currency(MetricMonthlyPayment, r.MonthlyPayment),
		currency(MetricPITI, r.PITI),
		currency(MetricOwnerShare, r.OwnerShare),
		currency(MetricNetRentedIncome, r.NetRentedIncome),
		currency(MetricEffectiveHousing, r.EffectiveHousingCost),
		currency(MetricHousingSavings, r.MonthlySavings),
		percent(MetricHousingReduction, r.HousingCostReduction),
		boolean(MetricLivesForFree, r.LivesForFree),
		currency(MetricMoveOutCashFlow, r.MoveOutCashFlow),
		currency(MetricTotalCashRequired, r.TotalCashRequired),
	}
	return append(ms, scoreMetrics(r.DealScore)...)
}
