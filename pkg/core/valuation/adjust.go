package valuation

// AdjustmentRates are the dollar-per-unit constants used to reconcile a
// comparable to the subject. Zero rates disable a dimension.
type AdjustmentRates struct {
	PerSqft     float64
	PerBedroom  float64
	PerBathroom float64
	PerYear     float64 // per year of construction date
	PerLotSqft  float64
}

// SaleAdjustmentRates are applied to sale comparables.
func SaleAdjustmentRates() AdjustmentRates {
	return AdjustmentRates{
		PerSqft:     50,
		PerBedroom:  10000,
		PerBathroom: 7500,
		PerYear:     1000,
		PerLotSqft:  2,
	}
}

// RentalAdjustmentRates are scaled for monthly rent and ignore age and lot.
func RentalAdjustmentRates() AdjustmentRates {
	return AdjustmentRates{
		PerSqft:     0.50,
		PerBedroom:  100,
		PerBathroom: 50,
	}
}

// AdjustComp converts the structural differences between subject and comp
// into dollar deltas: (subject − comp) × rate, summed onto the comp price.
func AdjustComp(subject SubjectProperty, comp ComparableProperty, rates AdjustmentRates) CompAdjustment {
	adj := CompAdjustment{
		CompID:             comp.ID,
		SizeAdjustment:     delta(subject.Sqft, comp.Sqft, rates.PerSqft),
		BedroomAdjustment:  delta(subject.Bedrooms, comp.Bedrooms, rates.PerBedroom),
		BathroomAdjustment: delta(subject.Bathrooms, comp.Bathrooms, rates.PerBathroom),
		AgeAdjustment:      delta(float64(subject.YearBuilt), float64(comp.YearBuilt), rates.PerYear),
		LotAdjustment:      delta(subject.LotSize, comp.LotSize, rates.PerLotSqft),
	}
	adj.TotalAdjustment = adj.SizeAdjustment +
		adj.BedroomAdjustment +
		adj.BathroomAdjustment +
		adj.AgeAdjustment +
		adj.LotAdjustment
	adj.AdjustedPrice = comp.Price + adj.TotalAdjustment

	if comp.Sqft > 0 {
		adj.PricePerSqft = comp.Price / comp.Sqft
	}
	return adj
}

// A disabled dimension contributes exactly 0.
func delta(subjectValue, compValue, rate float64) float64 {
	if rate == 0 {
		return 0
	}
	return (subjectValue - compValue) * rate
}
