package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/calc"
)

func testAssumptions() assumption.Set {
	return assumption.Set{
		Financing: assumption.Financing{DownPaymentPct: 0.20, InterestRate: 0.06, LoanTermYears: 30, ClosingCostsPct: 0.03},
		Operating: assumption.Operating{
			MonthlyRent:    2500,
			VacancyRate:    0.05,
			PropertyTaxes:  3600,
			Insurance:      1500,
			HOAMonthly:     50,
			ManagementPct:  0.08,
			MaintenancePct: 0.05,
			CapExPct:       0.05,
		},
		ShortTermRental: assumption.ShortTermRental{
			AverageDailyRate:        200,
			OccupancyRate:           0.70,
			AverageStayNights:       3,
			CleaningFee:             100,
			CleaningCostPerTurnover: 80,
			PlatformFeePct:          0.03,
			ManagementPct:           0.10,
			SuppliesMonthly:         100,
			FurnishingCost:          20000,
		},
		BRRRR: assumption.BRRRR{
			InitialLoanLTV:           0.80,
			InitialInterestRate:      0.10,
			RehabBudget:              50000,
			ContingencyPct:           0.10,
			HoldingMonths:            6,
			HoldingCostsMonthly:      500,
			RefinanceLTV:             0.75,
			RefinanceRate:            0.07,
			RefinanceTermYears:       30,
			RefinanceClosingCostsPct: 0.02,
			PostRehabRent:            2400,
		},
		Flip: assumption.Flip{
			LoanToValue:         0.90,
			InterestRate:        0.12,
			PointsPct:           0.02,
			RehabBudget:         40000,
			ContingencyPct:      0.10,
			RehabMonths:         4,
			DaysOnMarket:        45,
			HoldingCostsMonthly: 500,
			SellingCostsPct:     0.08,
			CapitalGainsRate:    0.15,
		},
		HouseHack: assumption.HouseHack{
			TotalUnits:            4,
			OwnerUnits:            1,
			RentPerUnit:           1200,
			DownPaymentPct:        0.035,
			PMIRate:               0.0085,
			CurrentHousingPayment: 2000,
		},
		Wholesale: assumption.Wholesale{
			EstimatedRepairs: 40000,
			AssignmentFee:    10000,
			MarketingCosts:   1500,
			ClosingCosts:     500,
			EarnestMoney:     1000,
		},
	}
}

func TestPrices_Base(t *testing.T) {
	p := Prices{List: 300000, Market: 290000, Target: 270000}
	assert.Equal(t, 300000.0, p.Base(PriceTargetList))
	assert.Equal(t, 290000.0, p.Base(PriceTargetMarket))
	assert.Equal(t, 270000.0, p.Base(PriceTargetTarget))
	assert.Equal(t, 300000.0, p.Base(""))

	p.Target = 0
	assert.Equal(t, 300000.0, p.Base(PriceTargetTarget))
}

func TestParseStrategy(t *testing.T) {
	for _, s := range All() {
		got, err := ParseStrategy(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStrategy("condo_flip")
	assert.Error(t, err)
}

func TestCalculate_UnknownStrategy(t *testing.T) {
	r, err := Calculate(Input{Strategy: "timeshare"})
	assert.Error(t, err)
	assert.Nil(t, r)
}

func TestCalculateLTR(t *testing.T) {
	r := CalculateLTR(Input{Prices: Prices{List: 300000}, Assumptions: testAssumptions()})

	assert.Equal(t, 60000.0, r.DownPayment)
	assert.Equal(t, 240000.0, r.LoanAmount)
	assert.InDelta(t, 28500, r.EffectiveIncome, 1e-9)
	assert.InDelta(t, 11100, r.OperatingExpenses, 1e-9)
	assert.InDelta(t, 17400, r.NOI, 1e-9)
	assert.InDelta(t, calc.AnnualDebtService(240000, 0.06, 30), r.AnnualDebtService, 1e-9)
	assert.InDelta(t, 132.94, r.AnnualCashFlow, 0.01)
	assert.Equal(t, 69000.0, r.TotalCashRequired)
	assert.InDelta(t, 0.058, r.CapRate, 1e-12)
	assert.InDelta(t, 10, r.GRM, 1e-12)
	assert.InDelta(t, 1.00770, r.DSCR, 1e-5)

	assert.Equal(t, 24, r.DealScore.Score)
	assert.Equal(t, GradeD, r.DealScore.Grade)
	require.Len(t, r.DealScore.Components, 5)
	assert.InDelta(t, 10.8, r.DealScore.Components[2].Points, 1e-9)
}

func TestCalculateLTR_AllCashDSCR(t *testing.T) {
	a := testAssumptions()
	a.Financing.DownPaymentPct = 1
	r := CalculateLTR(Input{Prices: Prices{List: 300000}, Assumptions: a})

	assert.Equal(t, 0.0, r.AnnualDebtService)
	assert.Equal(t, 0.0, r.DSCR)
	assert.Equal(t, 20.0, r.DealScore.Components[3].Points)
}

func TestCalculateSTR(t *testing.T) {
	a := testAssumptions()
	r := CalculateSTR(Input{Prices: Prices{List: 300000}, Assumptions: a})

	assert.InDelta(t, 255.5, r.NightsBooked, 1e-9)
	assert.InDelta(t, 51100, r.RoomRevenue, 1e-9)
	assert.InDelta(t, 255.5/3*100, r.CleaningRevenue, 1e-9)
	assert.InDelta(t, r.RoomRevenue/365, r.RevPAR, 1e-9)
	assert.InDelta(t, 3600+1500+(50+100)*12, r.FixedExpenses, 1e-9)
	assert.InDelta(t, r.GrossIncome-r.OperatingExpenses, r.NOI, 1e-9)
	assert.Equal(t, 60000.0+9000+20000, r.TotalCashRequired)

	// Revenue at break-even occupancy exactly covers fixed costs and debt.
	be := r.BreakEvenOccupancy
	require.Greater(t, be, 0.0)
	nights := be * DaysPerYear
	stays := nights / 3
	gross := 200*nights + 100*stays
	net := gross*(1-0.23) - stays*80
	assert.InDelta(t, r.FixedExpenses+r.AnnualDebtService, net, 1e-6)
	assert.InDelta(t, 0.70-be, r.OccupancyMargin, 1e-12)
}

func TestBreakEvenOccupancy_NoMargin(t *testing.T) {
	assert.Equal(t, NeverBreaksEven, BreakEvenOccupancy(100, 0, 0, 3, 1.0, 50000))
	assert.Equal(t, NeverBreaksEven, BreakEvenOccupancy(0, 0, 50, 2, 0.1, 50000))
	assert.Equal(t, 0.0, BreakEvenOccupancy(0, 0, 50, 2, 0.1, 0))
}

func TestCalculateSTR_LossPerNightScoresMarginAtFloor(t *testing.T) {
	a := testAssumptions()
	a.ShortTermRental.AverageDailyRate = 10
	a.ShortTermRental.CleaningFee = 0
	r := CalculateSTR(Input{Prices: Prices{List: 300000}, Assumptions: a})

	assert.Equal(t, NeverBreaksEven, r.BreakEvenOccupancy)
	assert.InDelta(t, 0.70-1, r.OccupancyMargin, 1e-12)
	assert.Equal(t, 0.0, marginPoints(t, r))

	// With a positive margin per night the deal scores above the floor.
	healthy := CalculateSTR(Input{Prices: Prices{List: 300000}, Assumptions: testAssumptions()})
	assert.Greater(t, marginPoints(t, healthy), marginPoints(t, r))
}

func marginPoints(t *testing.T, r *STRResult) float64 {
	t.Helper()
	for _, c := range r.DealScore.Components {
		if c.Name == "occupancy_margin" {
			return c.Points
		}
	}
	t.Fatal("occupancy_margin component missing")
	return 0
}

func TestCalculateBRRRR(t *testing.T) {
	in := Input{Prices: Prices{List: 200000}, AfterRepairValue: 300000, Assumptions: testAssumptions()}
	r := CalculateBRRRR(in)

	assert.Equal(t, 225000.0, r.RefinanceLoan)
	assert.Equal(t, 75000.0, r.EquityCreated)
	assert.InDelta(t, 112000, r.InitialInvestment, 1e-9)
	assert.InDelta(t, 60500, r.CashOutAtRefi, 1e-9)
	assert.InDelta(t, 51500, r.CashLeftInDeal, 1e-9)
	assert.InDelta(t, 0.5401786, r.CashRecoupPct, 1e-6)
	assert.InDelta(t, 0.0933333, r.SpreadBuffer, 1e-6)
	assert.False(t, r.InfiniteReturn)
	assert.InDelta(t, -123.93, r.MonthlyCashFlow, 0.01)
}

func TestCalculateBRRRR_CashLeftNeverNegative(t *testing.T) {
	in := Input{Prices: Prices{List: 100000}, AfterRepairValue: 400000, Assumptions: testAssumptions()}
	in.Assumptions.BRRRR.PostRehabRent = 4500
	r := CalculateBRRRR(in)

	assert.Greater(t, r.CashOutAtRefi, r.InitialInvestment)
	assert.Equal(t, 0.0, r.CashLeftInDeal)
	assert.Equal(t, 0.0, r.CashOnCash)
	assert.True(t, r.InfiniteReturn)
	assert.Equal(t, brrrrReturnCurve.Cap, r.DealScore.Components[3].Points)
}

func TestCalculateFlip(t *testing.T) {
	in := Input{Prices: Prices{List: 200000}, AfterRepairValue: 300000, Assumptions: testAssumptions()}
	r := CalculateFlip(in)

	assert.InDelta(t, 5.5, r.HoldingMonths, 1e-12)
	assert.InDelta(t, 266250, r.TotalProjectCost, 1e-9)
	assert.InDelta(t, 86250, r.TotalCashRequired, 1e-9)
	assert.InDelta(t, 9750, r.GrossProfit, 1e-9)
	assert.InDelta(t, 8287.5, r.NetProfit, 1e-9)
	assert.InDelta(t, r.ROI*12/5.5, r.AnnualizedROI, 1e-12)
	assert.InDelta(t, 166000, r.MaxAllowableOffer, 1e-9)
	assert.False(t, r.Meets70Rule)
}

func TestCalculateFlip_LossIsNotTaxed(t *testing.T) {
	in := Input{Prices: Prices{List: 290000}, AfterRepairValue: 300000, Assumptions: testAssumptions()}
	r := CalculateFlip(in)

	assert.Less(t, r.GrossProfit, 0.0)
	assert.Equal(t, 0.0, r.CapitalGainsTax)
	assert.Equal(t, r.GrossProfit, r.NetProfit)
}

func TestCalculateHouseHack(t *testing.T) {
	a := testAssumptions()
	a.Financing.InterestRate = 0.065
	a.Operating.PropertyTaxes = 6000
	a.Operating.Insurance = 2400
	a.Operating.HOAMonthly = 0
	r := CalculateHouseHack(Input{Prices: Prices{List: 400000}, Assumptions: a})

	assert.InDelta(t, 14000, r.DownPayment, 1e-9)
	assert.InDelta(t, 273.4167, r.MonthlyPMI, 1e-4)
	assert.InDelta(t, 3413.20, r.PITI, 0.01)
	assert.InDelta(t, r.PITI/4, r.OwnerShare, 1e-9)
	assert.Equal(t, 3, r.RentedUnits)
	assert.InDelta(t, 641.20, r.EffectiveHousingCost, 0.01)
	assert.InDelta(t, 1358.80, r.MonthlySavings, 0.01)
	assert.InDelta(t, 0.6794, r.HousingCostReduction, 1e-4)
	assert.False(t, r.LivesForFree)
	assert.InDelta(t, 282.80, r.MoveOutCashFlow, 0.01)
	assert.InDelta(t, 26000, r.TotalCashRequired, 1e-9)
}

func TestCalculateHouseHack_LivesForFree(t *testing.T) {
	a := testAssumptions()
	a.HouseHack.RentPerUnit = 3000
	r := CalculateHouseHack(Input{Prices: Prices{List: 400000}, Assumptions: a})

	assert.LessOrEqual(t, r.EffectiveHousingCost, 0.0)
	assert.True(t, r.LivesForFree)
	assert.Equal(t, 10.0, r.DealScore.Components[1].Points)
}

func TestCalculateHouseHack_NoPMIAtTwentyPercent(t *testing.T) {
	a := testAssumptions()
	a.HouseHack.DownPaymentPct = 0.20
	r := CalculateHouseHack(Input{Prices: Prices{List: 400000}, Assumptions: a})
	assert.Equal(t, 0.0, r.MonthlyPMI)
}

func TestCalculateWholesale(t *testing.T) {
	in := Input{
		Prices:           Prices{List: 130000},
		AfterRepairValue: 250000,
		Assumptions:      testAssumptions(),
	}
	r := CalculateWholesale(in)

	assert.Equal(t, 135000.0, r.MaxAllowableOffer)
	assert.True(t, r.Meets70Rule)
	assert.Equal(t, 140000.0, r.EndBuyerPrice)
	assert.Equal(t, -5000.0, r.EndBuyerSpread)
	assert.Equal(t, 8000.0, r.NetProfit)
	assert.Equal(t, 2500.0, r.CashAtRisk)
	assert.InDelta(t, 3.2, r.ROI, 1e-12)
	assert.Equal(t, ViabilityGood, r.Viability)
	assert.Equal(t, 61, r.DealScore.Score)
	assert.Equal(t, GradeB, r.DealScore.Grade)
}

func TestWholesaleViability(t *testing.T) {
	tests := []struct {
		meets bool
		net   float64
		want  string
	}{
		{true, 15000, ViabilityExcellent},
		{true, 7500, ViabilityGood},
		{true, 1, ViabilityMarginal},
		{true, 0, ViabilityPoor},
		{false, 50000, ViabilityPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WholesaleViability(tt.meets, tt.net), "meets=%v net=%v", tt.meets, tt.net)
	}
}

func TestLookup(t *testing.T) {
	in := Input{Strategy: Wholesale, Prices: Prices{List: 130000}, AfterRepairValue: 250000, Assumptions: testAssumptions()}
	r, err := Calculate(in)
	require.NoError(t, err)

	m, ok := Lookup(r, MetricMeets70Rule)
	require.True(t, ok)
	assert.True(t, m.Bool())
	assert.Equal(t, FormatBoolean, m.Format)

	v, ok := Lookup(r, MetricViability)
	require.True(t, ok)
	assert.Equal(t, ViabilityGood, v.Text)

	_, ok = Lookup(r, MetricCapRate)
	assert.False(t, ok)

	_, ok = Lookup(nil, MetricCapRate)
	assert.False(t, ok)
}

func TestMetrics_UniqueNamesAndScore(t *testing.T) {
	in := Input{Prices: Prices{List: 250000}, AfterRepairValue: 320000, Assumptions: testAssumptions()}
	for s, r := range CalculateAll(in) {
		require.NotNil(t, r, s)
		assert.Equal(t, s, r.Strategy())

		seen := map[string]bool{}
		for _, m := range r.Metrics() {
			assert.False(t, seen[m.Name], "%s: duplicate metric %s", s, m.Name)
			seen[m.Name] = true
		}
		score, ok := Lookup(r, MetricDealScore)
		require.True(t, ok, s)
		assert.Equal(t, float64(r.Score().Score), score.Value)
		assert.Len(t, MetricMap(r), len(r.Metrics()))
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	in := Input{Prices: Prices{List: 275000, Market: 260000}, PriceTarget: PriceTargetMarket, AfterRepairValue: 340000, Assumptions: testAssumptions()}
	for _, s := range All() {
		in.Strategy = s
		a, err := Calculate(in)
		require.NoError(t, err)
		b, err := Calculate(in)
		require.NoError(t, err)
		assert.Equal(t, a, b, s)
	}
}

func TestCalculate_DoesNotMutateAssumptions(t *testing.T) {
	a := testAssumptions()
	in := Input{Prices: Prices{List: 275000}, AfterRepairValue: 340000, Assumptions: a}
	CalculateAll(in)
	assert.Equal(t, testAssumptions(), a)
}

func TestDealScore_Bounded(t *testing.T) {
	prices := []float64{0, 1, 50000, 250000, 5e6}
	arvs := []float64{0, 100000, 1e7}
	rents := []float64{0, 500, 50000}
	for _, p := range prices {
		for _, arv := range arvs {
			for _, rent := range rents {
				a := testAssumptions()
				a.Operating.MonthlyRent = rent
				a.HouseHack.RentPerUnit = rent
				a.ShortTermRental.AverageDailyRate = rent / 10
				in := Input{Prices: Prices{List: p}, AfterRepairValue: arv, Assumptions: a}
				for s, r := range CalculateAll(in) {
					score := r.Score()
					assert.GreaterOrEqual(t, score.Score, 0, s)
					assert.LessOrEqual(t, score.Score, 100, s)
					assert.Equal(t, GradeFor(score.Score), score.Grade)
					for _, m := range r.Metrics() {
						assert.False(t, math.IsNaN(m.Value), "%s %s is NaN", s, m.Name)
					}
				}
			}
		}
	}
}

func TestExtractHeadline(t *testing.T) {
	in := Input{Prices: Prices{List: 200000}, AfterRepairValue: 300000, Assumptions: testAssumptions()}

	ltr := CalculateLTR(in)
	h := ExtractHeadline(ltr)
	assert.Equal(t, LongTermRental, h.Strategy)
	assert.Equal(t, ltr.MonthlyCashFlow, h.MonthlyCashFlow)
	assert.Equal(t, ltr.CapRate, h.CapRate)
	assert.Equal(t, ltr.DealScore.Score, h.Score)

	flip := CalculateFlip(in)
	h = ExtractHeadline(flip)
	assert.Equal(t, flip.NetProfit, h.NetProfit)
	assert.Equal(t, 0.0, h.CapRate)

	assert.Equal(t, Headline{}, ExtractHeadline(nil))
}
