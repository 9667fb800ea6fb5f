package valuation

import (
	"math"
)

// Similarity weights; they sum to 1.
const (
	weightLocation = 0.25
	weightSize     = 0.25
	weightBedBath  = 0.20
	weightAge      = 0.15
	weightLot      = 0.15
)

// ScoreSimilarity rates how closely comp resembles subject on five 0-100 axes.
// Every division is guarded; the function has no failure modes.
func ScoreSimilarity(subject SubjectProperty, comp ComparableProperty) SimilarityScore {
	s := SimilarityScore{
		Location: locationScore(comp.DistanceMiles),
		Size:     sizeScore(subject.Sqft, comp.Sqft),
		BedBath:  bedBathScore(subject, comp),
		Age:      ageScore(subject.YearBuilt, comp.YearBuilt),
		Lot:      lotScore(subject.LotSize, comp.LotSize),
	}
	s.Overall = weightLocation*s.Location +
		weightSize*s.Size +
		weightBedBath*s.BedBath +
		weightAge*s.Age +
		weightLot*s.Lot
	return s
}

// 20 points lost per mile.
func locationScore(distanceMiles float64) float64 {
	return math.Max(0, 100-20*distanceMiles)
}

func sizeScore(subjectSqft, compSqft float64) float64 {
	if subjectSqft == 0 {
		return 70
	}
	return math.Max(0, 100-math.Abs(subjectSqft-compSqft)/subjectSqft*100)
}

func bedBathScore(subject SubjectProperty, comp ComparableProperty) float64 {
	bedDiff := math.Abs(subject.Bedrooms - comp.Bedrooms)
	bathDiff := math.Abs(subject.Bathrooms - comp.Bathrooms)

	switch {
	case bedDiff == 0 && bathDiff == 0:
		return 100
	case bedDiff <= 1 && bathDiff <= 1:
		return 85
	default:
		return math.Max(50, 100-15*bedDiff-10*bathDiff)
	}
}

// 2 points lost per year of age difference.
func ageScore(subjectYear, compYear int) float64 {
	diff := math.Abs(float64(subjectYear - compYear))
	return math.Max(0, 100-2*diff)
}

func lotScore(subjectLot, compLot float64) float64 {
	if subjectLot == 0 || compLot == 0 {
		return 80
	}
	return math.Max(0, 100-math.Abs(subjectLot-compLot)/subjectLot*100)
}
