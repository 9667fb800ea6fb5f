// Package valuation appraises a subject property from a pre-selected set of
// comparables: similarity scoring, dollar adjustments per comparable, and the
// weighted hybrid blend of adjusted-price and price-per-sqft methods.
package valuation

// SubjectProperty is the property being appraised. Immutable per call.
type SubjectProperty struct {
	Sqft      float64 `json:"sqft"`
	Bedrooms  float64 `json:"bedrooms"`
	Bathrooms float64 `json:"bathrooms"`
	YearBuilt int     `json:"year_built"`
	LotSize   float64 `json:"lot_size"`   // sqft
	RehabCost float64 `json:"rehab_cost"` // planned rehab, 0 if none
}

// ComparableProperty is a sale or rental record supplied by the market-data
// collaborator. For rental comps Price is the monthly rent.
type ComparableProperty struct {
	ID            string  `json:"id"`
	Address       string  `json:"address,omitempty"`
	Price         float64 `json:"price"`
	Sqft          float64 `json:"sqft"`
	Bedrooms      float64 `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	YearBuilt     int     `json:"year_built"`
	LotSize       float64 `json:"lot_size"`
	DistanceMiles float64 `json:"distance_miles"`
}

// SimilarityScore holds the five 0-100 sub-scores and their weighted overall.
type SimilarityScore struct {
	Location float64 `json:"location"`
	Size     float64 `json:"size"`
	BedBath  float64 `json:"bed_bath"`
	Age      float64 `json:"age"`
	Lot      float64 `json:"lot"`
	Overall  float64 `json:"overall"`
}

// CompAdjustment is the per-comparable dollar reconciliation to the subject.
type CompAdjustment struct {
	CompID             string          `json:"comp_id"`
	SizeAdjustment     float64         `json:"size_adjustment"`
	BedroomAdjustment  float64         `json:"bedroom_adjustment"`
	BathroomAdjustment float64         `json:"bathroom_adjustment"`
	AgeAdjustment      float64         `json:"age_adjustment"`
	LotAdjustment      float64         `json:"lot_adjustment"`
	TotalAdjustment    float64         `json:"total_adjustment"`
	AdjustedPrice      float64         `json:"adjusted_price"`
	PricePerSqft       float64         `json:"price_per_sqft"` // raw, unadjusted
	Similarity         SimilarityScore `json:"similarity"`
	Weight             float64         `json:"weight"` // normalized, sums to 1 across one valuation
}

// ValuationResult is the blended estimate for one valuation (sale or rent).
type ValuationResult struct {
	Value             float64          `json:"value"`
	MethodA           float64          `json:"method_a"` // weighted adjusted price
	MethodB           float64          `json:"method_b"` // weighted price-per-sqft × subject sqft
	Confidence        float64          `json:"confidence"`
	Low               float64          `json:"low"`
	High              float64          `json:"high"`
	CompCount         int              `json:"comp_count"`
	AverageSimilarity float64          `json:"average_similarity"`
	Adjustments       []CompAdjustment `json:"adjustments"`
}

// AppraisalInput bundles everything needed for a full appraisal.
type AppraisalInput struct {
	Subject            SubjectProperty      `json:"subject"`
	SaleComps          []ComparableProperty `json:"sale_comps"`
	RentalComps        []ComparableProperty `json:"rental_comps"`
	ImprovementPremium float64              `json:"improvement_premium"`
}

// Appraisal holds market value, after-repair value and market rent.
type Appraisal struct {
	MarketValue      float64         `json:"market_value"`
	AfterRepairValue float64         `json:"after_repair_value"`
	MarketRent       float64         `json:"market_rent"`
	Sale             ValuationResult `json:"sale"`
	Rent             ValuationResult `json:"rent"`
}
