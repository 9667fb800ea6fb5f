package strategy

import "github.com/humblehuman369/dealscope-sub001/pkg/core/calc"

// DaysPerYear is the nightly-rental calendar.
const DaysPerYear = 365

var (
	strCashFlowCurve   = Curve{Cap: 25, Breakpoints: []Breakpoint{{-500, 0}, {0, 5}, {500, 15}, {1500, 25}}}
	strCashOnCashCurve = Curve{Cap: 30, Breakpoints: []Breakpoint{{0, 0}, {0.08, 10}, {0.15, 20}, {0.25, 30}}}
	strCapRateCurve    = Curve{Cap: 20, Breakpoints: []Breakpoint{{0.04, 0}, {0.08, 10}, {0.12, 20}}}
	strMarginCurve     = Curve{Cap: 25, Breakpoints: []Breakpoint{{0, 0}, {0.10, 10}, {0.25, 25}}}
)

// STRResult is a short-term (nightly) rental analysis.
type STRResult struct {
	PurchasePrice      float64 `json:"purchase_price"`
	DownPayment        float64 `json:"down_payment"`
	ClosingCosts       float64 `json:"closing_costs"`
	LoanAmount         float64 `json:"loan_amount"`
	MonthlyPayment     float64 `json:"monthly_payment"`
	NightsBooked       float64 `json:"nights_booked"`
	Stays              float64 `json:"stays"`
	RoomRevenue        float64 `json:"room_revenue"`
	CleaningRevenue    float64 `json:"cleaning_revenue"`
	GrossIncome        float64 `json:"gross_income"`
	VariableExpenses   float64 `json:"variable_expenses"`
	CleaningCosts      float64 `json:"cleaning_costs"`
	FixedExpenses      float64 `json:"fixed_expenses"`
	OperatingExpenses  float64 `json:"operating_expenses"`
	NOI                float64 `json:"noi"`
	AnnualDebtService  float64 `json:"annual_debt_service"`
	AnnualCashFlow     float64 `json:"annual_cash_flow"`
	MonthlyCashFlow    float64 `json:"monthly_cash_flow"`
	FurnishingCost     float64 `json:"furnishing_cost"`
	TotalCashRequired  float64 `json:"total_cash_required"`
	CapRate            float64 `json:"cap_rate"`
	CashOnCash         float64 `json:"cash_on_cash"`
	DSCR               float64 `json:"dscr"`
	RevPAR             float64 `json:"revpar"`
	BreakEvenOccupancy float64 `json:"break_even_occupancy"`
	OccupancyMargin    float64 `json:"occupancy_margin"`

	DealScore DealScore `json:"deal_score"`
}

// CalculateSTR analyses a nightly rental at the base price. Financing
// follows the conventional loan; operating costs combine the nightly
// drivers with the fixed lines of the operating assumptions.
func CalculateSTR(in Input) *STRResult {
	a := in.Assumptions
	s := a.ShortTermRental
	op := a.Operating
	price := in.BasePrice()
	l := conventionalLoan(price, a.Financing)

	r := &STRResult{
		PurchasePrice:     price,
		DownPayment:       l.DownPayment,
		ClosingCosts:      l.ClosingCosts,
		LoanAmount:        l.Amount,
		MonthlyPayment:    l.MonthlyPayment,
		AnnualDebtService: l.AnnualDebtService,
		FurnishingCost:    s.FurnishingCost,
	}

	// Revenue
	r.NightsBooked = DaysPerYear * s.OccupancyRate
	r.RoomRevenue = s.AverageDailyRate * r.NightsBooked
	r.Stays = safeDiv(r.NightsBooked, s.AverageStayNights)
	r.CleaningRevenue = r.Stays * s.CleaningFee
	r.GrossIncome = r.RoomRevenue + r.CleaningRevenue

	// Expenses
	variablePct := strVariablePct(in)
	r.VariableExpenses = r.GrossIncome * variablePct
	r.CleaningCosts = r.Stays * s.CleaningCostPerTurnover
	r.FixedExpenses = strFixedExpenses(in)
	r.OperatingExpenses = r.VariableExpenses + r.CleaningCosts + r.FixedExpenses
	r.NOI = r.GrossIncome - r.OperatingExpenses

	r.AnnualCashFlow = r.NOI - r.AnnualDebtService
	r.MonthlyCashFlow = r.AnnualCashFlow / calc.MonthsPerYear
	r.TotalCashRequired = l.DownPayment + l.ClosingCosts + s.FurnishingCost + op.RehabCost
	r.CapRate = safeDiv(r.NOI, price)
	r.CashOnCash = safeDiv(r.AnnualCashFlow, r.TotalCashRequired)
	r.DSCR = safeDiv(r.NOI, r.AnnualDebtService)
	r.RevPAR = r.RoomRevenue / DaysPerYear

	r.BreakEvenOccupancy = BreakEvenOccupancy(
		s.AverageDailyRate, s.CleaningFee, s.CleaningCostPerTurnover, s.AverageStayNights,
		variablePct, r.FixedExpenses+r.AnnualDebtService,
	)
	r.OccupancyMargin = s.OccupancyRate - r.BreakEvenOccupancy

	r.DealScore = composite(
		component("cash_flow", r.MonthlyCashFlow, strCashFlowCurve),
		component("cash_on_cash", r.CashOnCash, strCashOnCashCurve),
		component("cap_rate", r.CapRate, strCapRateCurve),
		component("occupancy_margin", r.OccupancyMargin, strMarginCurve),
	)
	return r
}

func strVariablePct(in Input) float64 {
	a := in.Assumptions
	return a.ShortTermRental.PlatformFeePct + a.ShortTermRental.ManagementPct +
		a.Operating.MaintenancePct + a.Operating.CapExPct
}

func strFixedExpenses(in Input) float64 {
	op := in.Assumptions.Operating
	return op.PropertyTaxes + op.Insurance +
		(op.HOAMonthly+op.UtilitiesMonthly+in.Assumptions.ShortTermRental.SuppliesMonthly)*calc.MonthsPerYear
}

// NeverBreaksEven is the break-even occupancy reported when each booked
// night loses money.
const NeverBreaksEven = 1.0

// BreakEvenOccupancy is the occupancy at which revenue covers fixed costs
// (including debt service).
//
// FORMULA:
//
//	netPerNight = ADR × (1 − var%) + (cleaningFee × (1 − var%) − costPerTurn) / avgStay
//	occupancy   = fixedCosts / netPerNight / 365
//
// When a booked night does not contribute a positive margin the deal never
// breaks even and the result is NeverBreaksEven (full occupancy), unless
// there are no fixed costs to cover.
func BreakEvenOccupancy(adr, cleaningFee, costPerTurn, avgStay, variablePct, fixedCosts float64) float64 {
	netPerNight := adr * (1 - variablePct)
	if avgStay > 0 {
		netPerNight += (cleaningFee*(1-variablePct) - costPerTurn) / avgStay
	}
	if netPerNight <= 0 {
		if fixedCosts > 0 {
			return NeverBreaksEven
		}
		return 0
	}
	return fixedCosts / netPerNight / DaysPerYear
}

func (r *STRResult) Strategy() Strategy { return ShortTermRental }
func (r *STRResult) Score() DealScore   { return r.DealScore }

func (r *STRResult) Metrics() []Metric {
	ms := []Metric{
		currency(MetricPurchasePrice, r.PurchasePrice),
		currency(MetricDownPayment, r.DownPayment),
		currency(MetricClosingCosts, r.ClosingCosts),
		currency(MetricLoanAmount, r.LoanAmount),
		currency(MetricMonthlyPayment, r.MonthlyPayment),
		currency(MetricRoomRevenue, r.RoomRevenue),
		currency(MetricCleaningRevenue, r.CleaningRevenue),
		currency(MetricGrossIncome, r.GrossIncome),
		currency(MetricOperatingExpenses, r.OperatingExpenses),
		currency(MetricNOI, r.NOI),
		currency(MetricAnnualDebtService, r.AnnualDebtService),
		currency(MetricAnnualCashFlow, r.AnnualCashFlow),
		currency(MetricMonthlyCashFlow, r.MonthlyCashFlow),
		currency(MetricFurnishingCost, r.FurnishingCost),
		currency(MetricTotalCashRequired, r.TotalCashRequired),
		percent(MetricCapRate, r.CapRate),
		percent(MetricCashOnCash, r.CashOnCash),
		ratio(MetricDSCR, r.DSCR),
		currency(MetricRevPAR, r.RevPAR),
		percent(MetricBreakEvenOccupancy, r.BreakEvenOccupancy),
		percent(MetricOccupancyMargin, r.OccupancyMargin),
	}
	return append(ms, scoreMetrics(r.DealScore)...)
}
