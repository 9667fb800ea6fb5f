package valuation

import (
	"math"
)

// =============================================================================
// WEIGHTED HYBRID VALUATION
// Method A: similarity-weighted average of adjusted comparable prices.
// Method B: similarity-weighted average price-per-sqft × subject sqft.
// =============================================================================

// Blend coefficients. Sale uses a three-term blend, rent a two-term blend;
// the asymmetry is part of the cross-client contract.
const (
	saleWeightA        = 0.40
	saleWeightB        = 0.40
	saleWeightMidpoint = 0.20

	rentWeightA = 0.5
	rentWeightB = 0.5
)

// Confidence constants.
const (
	confidencePerComp     = 15.0
	confidenceCompCap     = 40.0
	confidenceSimilarity  = 40.0
	confidenceBase        = 20.0
	confidenceMaxPossible = 100.0
)

type blendKind int

const (
	saleBlend blendKind = iota
	rentBlend
)

// CalculateSaleValue estimates market value from sale comparables.
func CalculateSaleValue(subject SubjectProperty, comps []ComparableProperty) ValuationResult {
	return hybridValue(subject, comps, SaleAdjustmentRates(), saleBlend)
}

// CalculateRentValue estimates monthly market rent from rental comparables.
func CalculateRentValue(subject SubjectProperty, comps []ComparableProperty) ValuationResult {
	return hybridValue(subject, comps, RentalAdjustmentRates(), rentBlend)
}

// AfterRepairValue projects value once renovation is complete.
//
// FORMULA:
//   - rehabCost > 0: ARV = MV + rehabCost × (1 + premium)
//   - otherwise:     ARV = MV × (1 + premium)
func AfterRepairValue(marketValue, rehabCost, premium float64) float64 {
	if rehabCost > 0 {
		return marketValue + rehabCost*(1+premium)
	}
	return marketValue * (1 + premium)
}

// Confidence scores a valuation 0-100 from comp count and average similarity.
//
// FORMULA: min(100, min(15n, 40) + avgSimilarity/100 × 40 + 20)
//
// No comparables means no confidence at all.
func Confidence(compCount int, avgSimilarity float64) float64 {
	if compCount <= 0 {
		return 0
	}
	countPart := math.Min(float64(compCount)*confidencePerComp, confidenceCompCap)
	simPart := avgSimilarity / 100 * confidenceSimilarity
	return math.Min(confidenceMaxPossible, countPart+simPart+confidenceBase)
}

// Appraise runs the sale and rent valuations and derives after-repair value.
func Appraise(input AppraisalInput) Appraisal {
	sale := CalculateSaleValue(input.Subject, input.SaleComps)
	rent := CalculateRentValue(input.Subject, input.RentalComps)

	return Appraisal{
		MarketValue:      sale.Value,
		AfterRepairValue: AfterRepairValue(sale.Value, input.Subject.RehabCost, input.ImprovementPremium),
		MarketRent:       rent.Value,
		Sale:             sale,
		Rent:             rent,
	}
}

func hybridValue(subject SubjectProperty, comps []ComparableProperty, rates AdjustmentRates, kind blendKind) ValuationResult {
	if len(comps) == 0 {
		return ValuationResult{Adjustments: []CompAdjustment{}}
	}

	// 1. Similarity, adjustment and raw price-per-sqft per comparable
	adjustments := make([]CompAdjustment, len(comps))
	var simSum float64
	for i, comp := range comps {
		adj := AdjustComp(subject, comp, rates)
		adj.Similarity = ScoreSimilarity(subject, comp)
		simSum += adj.Similarity.Overall
		adjustments[i] = adj
	}

	// 2. Normalize weights, equal split when nothing is similar at all
	n := float64(len(comps))
	for i := range adjustments {
		if simSum > 0 {
			adjustments[i].Weight = adjustments[i].Similarity.Overall / simSum
		} else {
			adjustments[i].Weight = 1 / n
		}
	}

	// 3-4. Method A and Method B, plus the adjusted-price range
	var methodA, weightedPPSF float64
	low := adjustments[0].AdjustedPrice
	high := adjustments[0].AdjustedPrice
	for _, adj := range adjustments {
		methodA += adj.Weight * adj.AdjustedPrice
		weightedPPSF += adj.Weight * adj.PricePerSqft
		low = math.Min(low, adj.AdjustedPrice)
		high = math.Max(high, adj.AdjustedPrice)
	}
	methodB := weightedPPSF * subject.Sqft

	// 5. Blend
	var value float64
	switch kind {
	case saleBlend:
		value = saleWeightA*methodA + saleWeightB*methodB + saleWeightMidpoint*((methodA+methodB)/2)
	case rentBlend:
		value = rentWeightA*methodA + rentWeightB*methodB
	}

	avgSim := simSum / n
	return ValuationResult{
		Value:             value,
		MethodA:           methodA,
		MethodB:           methodB,
		Confidence:        Confidence(len(comps), avgSim),
		Low:               low,
		High:              high,
		CompCount:         len(comps),
		AverageSimilarity: avgSim,
		Adjustments:       adjustments,
	}
}
