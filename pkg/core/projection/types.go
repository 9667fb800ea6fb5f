package projection

// DefaultYears is the hold horizon used when Input.Years is not set.
const DefaultYears = 10

// Input carries the financing, operating and growth drivers for a hold-period
// projection. Rates are decimals (0.05 = 5%). Dollar amounts are annual unless
// the field name says monthly.
type Input struct {
	// Acquisition & financing
	PurchasePrice float64 `json:"purchase_price"`
	DownPayment   float64 `json:"down_payment"`
	ClosingCosts  float64 `json:"closing_costs"`
	LoanAmount    float64 `json:"loan_amount"`
	InterestRate  float64 `json:"interest_rate"`
	LoanTermYears int     `json:"loan_term_years"`
	OtherCash     float64 `json:"other_cash"` // rehab, furnishing: cash in at t=0 outside the purchase

	// IncludeOtherCash adds OtherCash to the invested basis used for
	// cash-on-cash, equity multiple and the IRR outflow. Off by default.
	IncludeOtherCash bool `json:"include_other_cash"`

	// Income
	MonthlyRent float64 `json:"monthly_rent"`
	VacancyRate float64 `json:"vacancy_rate"`

	// Fixed expenses, grown independently
	PropertyTaxes float64 `json:"property_taxes"`
	Insurance     float64 `json:"insurance"`
	HOAMonthly    float64 `json:"hoa_monthly"`

	// Variable expenses, % of gross rent
	ManagementPct  float64 `json:"management_pct"`
	MaintenancePct float64 `json:"maintenance_pct"`
	CapExPct       float64 `json:"capex_pct"`

	// Growth
	RentGrowth        float64 `json:"rent_growth"`
	PropertyTaxGrowth float64 `json:"property_tax_growth"`
	InsuranceGrowth   float64 `json:"insurance_growth"`
	ExpenseGrowth     float64 `json:"expense_growth"` // HOA and other fixed costs
	Appreciation      float64 `json:"appreciation"`

	Years int `json:"years"`
}

// YearlyProjection is one row of the hold-period table. Rows are causally
// chained: loan balance and cumulative cash flow depend on the prior year.
type YearlyProjection struct {
	Year int `json:"year"`

	PropertyValue float64 `json:"property_value"`

	GrossRent     float64 `json:"gross_rent"`
	VacancyLoss   float64 `json:"vacancy_loss"`
	EffectiveRent float64 `json:"effective_rent"`

	PropertyTaxes float64 `json:"property_taxes"`
	Insurance     float64 `json:"insurance"`
	HOA           float64 `json:"hoa"`
	Management    float64 `json:"management"`
	Maintenance   float64 `json:"maintenance"`
	CapEx         float64 `json:"capex"`
	TotalExpenses float64 `json:"total_expenses"`

	NOI                float64 `json:"noi"`
	DebtService        float64 `json:"debt_service"`
	CashFlow           float64 `json:"cash_flow"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
	CashOnCash         float64 `json:"cash_on_cash"`

	LoanBalance   float64 `json:"loan_balance"`
	PrincipalPaid float64 `json:"principal_paid"`
	InterestPaid  float64 `json:"interest_paid"`
	TotalEquity   float64 `json:"total_equity"`
	TotalWealth   float64 `json:"total_wealth"`
}

// Summary aggregates the table. Every field is derived from the rows.
type Summary struct {
	Years              int     `json:"years"`
	TotalCashInvested  float64 `json:"total_cash_invested"`
	TotalCashFlow      float64 `json:"total_cash_flow"`
	AverageCashFlow    float64 `json:"average_cash_flow"`
	AverageCashOnCash  float64 `json:"average_cash_on_cash"`
	TotalPrincipalPaid float64 `json:"total_principal_paid"`
	TotalAppreciation  float64 `json:"total_appreciation"`
	FinalPropertyValue float64 `json:"final_property_value"`
	FinalLoanBalance   float64 `json:"final_loan_balance"`
	FinalEquity        float64 `json:"final_equity"`
	TotalWealth        float64 `json:"total_wealth"`
	EquityMultiple     float64 `json:"equity_multiple"`
	IRR                float64 `json:"irr"`
	IRRIterations      int     `json:"irr_iterations"`
	IRRConverged       bool    `json:"irr_converged"`
}

// Result is the full projection: one row per year plus the summary.
type Result struct {
	Years   []YearlyProjection `json:"years"`
	Summary Summary            `json:"summary"`
}
