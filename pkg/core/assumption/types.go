// Package assumption holds the caller-owned AssumptionSet consumed by the
// strategy and projection engines. The engine never merges defaults or
// mutates a Set; resolution happens in the assumptions collaborator
// (LoadDefaults / Merge) before the engine is called.
package assumption

import (
	"encoding/json"
)

// =============================================================================
// GROUPS
// All rates are decimals: 0.05 = 5%. Dollar amounts are annual unless the
// field name says Monthly.
// =============================================================================

// Financing describes the conventional purchase loan.
type Financing struct {
	DownPaymentPct  float64 `json:"down_payment_pct" yaml:"down_payment_pct" validate:"gte=0,lte=1"`
	InterestRate    float64 `json:"interest_rate" yaml:"interest_rate" validate:"gte=0,lte=0.25"`
	LoanTermYears   int     `json:"loan_term_years" yaml:"loan_term_years" validate:"gte=0,lte=40"`
	ClosingCostsPct float64 `json:"closing_costs_pct" yaml:"closing_costs_pct" validate:"gte=0,lte=0.2"`
}

// Operating covers income and operating expenses of a rented property.
type Operating struct {
	MonthlyRent        float64 `json:"monthly_rent" yaml:"monthly_rent" validate:"gte=0"`
	OtherIncomeMonthly float64 `json:"other_income_monthly" yaml:"other_income_monthly" validate:"gte=0"`
	VacancyRate        float64 `json:"vacancy_rate" yaml:"vacancy_rate" validate:"gte=0,lte=1"`
	PropertyTaxes      float64 `json:"property_taxes" yaml:"property_taxes" validate:"gte=0"`
	Insurance          float64 `json:"insurance" yaml:"insurance" validate:"gte=0"`
	HOAMonthly         float64 `json:"hoa_monthly" yaml:"hoa_monthly" validate:"gte=0"`
	UtilitiesMonthly   float64 `json:"utilities_monthly" yaml:"utilities_monthly" validate:"gte=0"`
	ManagementPct      float64 `json:"management_pct" yaml:"management_pct" validate:"gte=0,lte=1"`
	MaintenancePct     float64 `json:"maintenance_pct" yaml:"maintenance_pct" validate:"gte=0,lte=1"`
	CapExPct           float64 `json:"capex_pct" yaml:"capex_pct" validate:"gte=0,lte=1"`
	RehabCost          float64 `json:"rehab_cost" yaml:"rehab_cost" validate:"gte=0"`
}

// Growth drives the multi-year projection.
type Growth struct {
	Appreciation      float64 `json:"appreciation" yaml:"appreciation" validate:"gte=-0.5,lte=0.5"`
	RentGrowth        float64 `json:"rent_growth" yaml:"rent_growth" validate:"gte=-0.5,lte=0.5"`
	ExpenseGrowth     float64 `json:"expense_growth" yaml:"expense_growth" validate:"gte=-0.5,lte=0.5"`
	PropertyTaxGrowth float64 `json:"property_tax_growth" yaml:"property_tax_growth" validate:"gte=-0.5,lte=0.5"`
	InsuranceGrowth   float64 `json:"insurance_growth" yaml:"insurance_growth" validate:"gte=-0.5,lte=0.5"`
	HoldYears         int     `json:"hold_years" yaml:"hold_years" validate:"gte=0,lte=40"`

	// IncludeUpfrontCash counts rehab and furnishing in the projection's
	// invested basis.
	IncludeUpfrontCash bool `json:"include_upfront_cash" yaml:"include_upfront_cash"`
}

// ShortTermRental holds nightly-rental drivers.
type ShortTermRental struct {
	AverageDailyRate        float64 `json:"average_daily_rate" yaml:"average_daily_rate" validate:"gte=0"`
	OccupancyRate           float64 `json:"occupancy_rate" yaml:"occupancy_rate" validate:"gte=0,lte=1"`
	AverageStayNights       float64 `json:"average_stay_nights" yaml:"average_stay_nights" validate:"gte=0"`
	CleaningFee             float64 `json:"cleaning_fee" yaml:"cleaning_fee" validate:"gte=0"`
	CleaningCostPerTurnover float64 `json:"cleaning_cost_per_turnover" yaml:"cleaning_cost_per_turnover" validate:"gte=0"`
	PlatformFeePct          float64 `json:"platform_fee_pct" yaml:"platform_fee_pct" validate:"gte=0,lte=1"`
	ManagementPct           float64 `json:"management_pct" yaml:"management_pct" validate:"gte=0,lte=1"`
	SuppliesMonthly         float64 `json:"supplies_monthly" yaml:"supplies_monthly" validate:"gte=0"`
	FurnishingCost          float64 `json:"furnishing_cost" yaml:"furnishing_cost" validate:"gte=0"`
}

// BRRRR holds buy-rehab-rent-refinance-repeat drivers.
type BRRRR struct {
	InitialLoanLTV           float64 `json:"initial_loan_ltv" yaml:"initial_loan_ltv" validate:"gte=0,lte=1"`
	InitialInterestRate      float64 `json:"initial_interest_rate" yaml:"initial_interest_rate" validate:"gte=0,lte=0.25"`
	RehabBudget              float64 `json:"rehab_budget" yaml:"rehab_budget" validate:"gte=0"`
	ContingencyPct           float64 `json:"contingency_pct" yaml:"contingency_pct" validate:"gte=0,lte=1"`
	HoldingMonths            float64 `json:"holding_months" yaml:"holding_months" validate:"gte=0"`
	HoldingCostsMonthly      float64 `json:"holding_costs_monthly" yaml:"holding_costs_monthly" validate:"gte=0"`
	RefinanceLTV             float64 `json:"refinance_ltv" yaml:"refinance_ltv" validate:"gte=0,lte=1"`
	RefinanceRate            float64 `json:"refinance_rate" yaml:"refinance_rate" validate:"gte=0,lte=0.25"`
	RefinanceTermYears       int     `json:"refinance_term_years" yaml:"refinance_term_years" validate:"gte=0,lte=40"`
	RefinanceClosingCostsPct float64 `json:"refinance_closing_costs_pct" yaml:"refinance_closing_costs_pct" validate:"gte=0,lte=0.2"`
	PostRehabRent            float64 `json:"post_rehab_rent" yaml:"post_rehab_rent" validate:"gte=0"`
}

// Flip holds fix-and-flip drivers.
type Flip struct {
	LoanToValue         float64 `json:"loan_to_value" yaml:"loan_to_value" validate:"gte=0,lte=1"`
	InterestRate        float64 `json:"interest_rate" yaml:"interest_rate" validate:"gte=0,lte=0.25"`
	PointsPct           float64 `json:"points_pct" yaml:"points_pct" validate:"gte=0,lte=0.1"`
	RehabBudget         float64 `json:"rehab_budget" yaml:"rehab_budget" validate:"gte=0"`
	ContingencyPct      float64 `json:"contingency_pct" yaml:"contingency_pct" validate:"gte=0,lte=1"`
	RehabMonths         float64 `json:"rehab_months" yaml:"rehab_months" validate:"gte=0"`
	DaysOnMarket        float64 `json:"days_on_market" yaml:"days_on_market" validate:"gte=0"`
	HoldingCostsMonthly float64 `json:"holding_costs_monthly" yaml:"holding_costs_monthly" validate:"gte=0"`
	SellingCostsPct     float64 `json:"selling_costs_pct" yaml:"selling_costs_pct" validate:"gte=0,lte=1"`
	CapitalGainsRate    float64 `json:"capital_gains_rate" yaml:"capital_gains_rate" validate:"gte=0,lte=1"`
}

// HouseHack holds owner-occupied multi-unit drivers.
type HouseHack struct {
	TotalUnits            int     `json:"total_units" yaml:"total_units" validate:"gte=0,lte=50"`
	OwnerUnits            int     `json:"owner_units" yaml:"owner_units" validate:"gte=0,ltefield=TotalUnits"`
	RentPerUnit           float64 `json:"rent_per_unit" yaml:"rent_per_unit" validate:"gte=0"`
	DownPaymentPct        float64 `json:"down_payment_pct" yaml:"down_payment_pct" validate:"gte=0,lte=1"`
	PMIRate               float64 `json:"pmi_rate" yaml:"pmi_rate" validate:"gte=0,lte=0.05"`
	CurrentHousingPayment float64 `json:"current_housing_payment" yaml:"current_housing_payment" validate:"gte=0"`
}

// Wholesale holds assignment-deal drivers. The contract price is the base
// price selected by the caller's price target.
type Wholesale struct {
	EstimatedRepairs float64 `json:"estimated_repairs" yaml:"estimated_repairs" validate:"gte=0"`
	AssignmentFee    float64 `json:"assignment_fee" yaml:"assignment_fee" validate:"gte=0"`
	MarketingCosts   float64 `json:"marketing_costs" yaml:"marketing_costs" validate:"gte=0"`
	ClosingCosts     float64 `json:"closing_costs" yaml:"closing_costs" validate:"gte=0"`
	EarnestMoney     float64 `json:"earnest_money" yaml:"earnest_money" validate:"gte=0"`
}

// =============================================================================
// ASSUMPTION SET
// =============================================================================

// Set is a fully-resolved assumption set for one analysis.
type Set struct {
	Financing       Financing       `json:"financing" yaml:"financing"`
	Operating       Operating       `json:"operating" yaml:"operating"`
	Growth          Growth          `json:"growth" yaml:"growth"`
	ShortTermRental ShortTermRental `json:"short_term_rental" yaml:"short_term_rental"`
	BRRRR           BRRRR           `json:"brrrr" yaml:"brrrr"`
	Flip            Flip            `json:"flip" yaml:"flip"`
	HouseHack       HouseHack       `json:"house_hack" yaml:"house_hack"`
	Wholesale       Wholesale       `json:"wholesale" yaml:"wholesale"`
}

// ToJSON serializes the set for client sync.
func (s Set) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// FromJSON deserializes a set sent by a client.
func FromJSON(data []byte) (Set, error) {
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		return Set{}, err
	}
	return s, nil
}
