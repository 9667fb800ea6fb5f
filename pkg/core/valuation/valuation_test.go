package valuation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSubject() SubjectProperty {
	return SubjectProperty{
		Sqft:      2000,
		Bedrooms:  3,
		Bathrooms: 2,
		YearBuilt: 2000,
		LotSize:   6000,
	}
}

func twinComp(id string, price float64) ComparableProperty {
	s := testSubject()
	return ComparableProperty{
		ID:        id,
		Price:     price,
		Sqft:      s.Sqft,
		Bedrooms:  s.Bedrooms,
		Bathrooms: s.Bathrooms,
		YearBuilt: s.YearBuilt,
		LotSize:   s.LotSize,
	}
}

func TestScoreSimilarity_IdenticalIs100(t *testing.T) {
	score := ScoreSimilarity(testSubject(), twinComp("c1", 300000))
	assert.InDelta(t, 100, score.Overall, 1e-9)
	assert.Equal(t, SimilarityScore{100, 100, 100, 100, 100, score.Overall}, score)
}

func TestScoreSimilarity_SubScores(t *testing.T) {
	subject := testSubject()

	t.Run("location floors at zero", func(t *testing.T) {
		c := twinComp("c", 1)
		c.DistanceMiles = 1.5
		assert.InDelta(t, 70, ScoreSimilarity(subject, c).Location, 1e-9)
		c.DistanceMiles = 7
		assert.Equal(t, 0.0, ScoreSimilarity(subject, c).Location)
	})

	t.Run("size penalty", func(t *testing.T) {
		c := twinComp("c", 1)
		c.Sqft = 1700
		assert.InDelta(t, 85, ScoreSimilarity(subject, c).Size, 1e-9)
		c.Sqft = 5000
		assert.Equal(t, 0.0, ScoreSimilarity(subject, c).Size)

		zero := subject
		zero.Sqft = 0
		assert.Equal(t, 70.0, ScoreSimilarity(zero, c).Size)
	})

	t.Run("bed bath tiers", func(t *testing.T) {
		c := twinComp("c", 1)
		c.Bedrooms = 4
		c.Bathrooms = 1
		assert.Equal(t, 85.0, ScoreSimilarity(subject, c).BedBath)

		c.Bedrooms = 5
		c.Bathrooms = 2
		assert.Equal(t, 70.0, ScoreSimilarity(subject, c).BedBath)

		c.Bedrooms = 6
		c.Bathrooms = 4
		assert.Equal(t, 50.0, ScoreSimilarity(subject, c).BedBath)
	})

	t.Run("age", func(t *testing.T) {
		c := twinComp("c", 1)
		c.YearBuilt = 1985
		assert.Equal(t, 70.0, ScoreSimilarity(subject, c).Age)
		c.YearBuilt = 1900
		assert.Equal(t, 0.0, ScoreSimilarity(subject, c).Age)
	})

	t.Run("lot", func(t *testing.T) {
		c := twinComp("c", 1)
		c.LotSize = 4500
		assert.InDelta(t, 75, ScoreSimilarity(subject, c).Lot, 1e-9)
		c.LotSize = 0
		assert.Equal(t, 80.0, ScoreSimilarity(subject, c).Lot)
	})
}

func TestAdjustComp_Sale(t *testing.T) {
	c := ComparableProperty{ID: "c1", Price: 400000, Sqft: 1800, Bedrooms: 4, Bathrooms: 2.5, YearBuilt: 1990, LotSize: 5000}
	adj := AdjustComp(testSubject(), c, SaleAdjustmentRates())

	assert.Equal(t, 10000.0, adj.SizeAdjustment)
	assert.Equal(t, -10000.0, adj.BedroomAdjustment)
	assert.Equal(t, -3750.0, adj.BathroomAdjustment)
	assert.Equal(t, 10000.0, adj.AgeAdjustment)
	assert.Equal(t, 2000.0, adj.LotAdjustment)
	assert.Equal(t, 8250.0, adj.TotalAdjustment)
	assert.Equal(t, 408250.0, adj.AdjustedPrice)
	assert.InDelta(t, 222.2222, adj.PricePerSqft, 1e-4)
}

func TestAdjustComp_RentalIgnoresAgeAndLot(t *testing.T) {
	c := ComparableProperty{ID: "r1", Price: 2000, Sqft: 1800, Bedrooms: 2, Bathrooms: 2, YearBuilt: 1950, LotSize: 1000}
	adj := AdjustComp(testSubject(), c, RentalAdjustmentRates())

	assert.Equal(t, 100.0, adj.SizeAdjustment)
	assert.Equal(t, 100.0, adj.BedroomAdjustment)
	assert.Equal(t, 0.0, adj.AgeAdjustment)
	assert.Equal(t, 0.0, adj.LotAdjustment)
	assert.Equal(t, 2200.0, adj.AdjustedPrice)
}

func TestCalculateSaleValue_Empty(t *testing.T) {
	res := CalculateSaleValue(testSubject(), nil)
	assert.Equal(t, 0.0, res.Value)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, 0, res.CompCount)
	assert.Empty(t, res.Adjustments)
}

func TestCalculateSaleValue_EqualSimilarityWeights(t *testing.T) {
	comps := make([]ComparableProperty, 5)
	for i := range comps {
		comps[i] = twinComp(fmt.Sprintf("c%d", i), 300000+float64(i)*10000)
		comps[i].DistanceMiles = 4 // location 20 → overall 80
	}

	res := CalculateSaleValue(testSubject(), comps)
	require.Len(t, res.Adjustments, 5)
	for _, adj := range res.Adjustments {
		assert.InDelta(t, 80, adj.Similarity.Overall, 1e-9)
		assert.InDelta(t, 0.20, adj.Weight, 1e-12)
	}
}

func TestCalculateSaleValue_WeightsSumToOne(t *testing.T) {
	comps := []ComparableProperty{
		{ID: "a", Price: 310000, Sqft: 1900, Bedrooms: 3, Bathrooms: 2, YearBuilt: 1998, LotSize: 5500, DistanceMiles: 0.3},
		{ID: "b", Price: 295000, Sqft: 2300, Bedrooms: 4, Bathrooms: 3, YearBuilt: 1975, LotSize: 9000, DistanceMiles: 2.1},
		{ID: "c", Price: 340000, Sqft: 2050, Bedrooms: 3, Bathrooms: 2.5, YearBuilt: 2012, LotSize: 0, DistanceMiles: 0.8},
		{ID: "d", Price: 180000, Sqft: 1200, Bedrooms: 2, Bathrooms: 1, YearBuilt: 1940, LotSize: 3000, DistanceMiles: 6},
	}

	res := CalculateSaleValue(testSubject(), comps)
	var sum float64
	for _, adj := range res.Adjustments {
		sum += adj.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-6)

	// Range is the min/max adjusted price.
	low, high := res.Adjustments[0].AdjustedPrice, res.Adjustments[0].AdjustedPrice
	for _, adj := range res.Adjustments {
		low = min(low, adj.AdjustedPrice)
		high = max(high, adj.AdjustedPrice)
	}
	assert.Equal(t, low, res.Low)
	assert.Equal(t, high, res.High)
}

func TestCalculateSaleValue_SingleCompBlend(t *testing.T) {
	c := ComparableProperty{ID: "c1", Price: 400000, Sqft: 1800, Bedrooms: 3, Bathrooms: 2, YearBuilt: 1990, LotSize: 6000, DistanceMiles: 0.5}
	res := CalculateSaleValue(testSubject(), []ComparableProperty{c})

	assert.Equal(t, 420000.0, res.MethodA)
	assert.InDelta(t, 400000.0/1800*2000, res.MethodB, 1e-6)
	want := 0.40*res.MethodA + 0.40*res.MethodB + 0.20*((res.MethodA+res.MethodB)/2)
	assert.Equal(t, want, res.Value)
	assert.Equal(t, 1.0, res.Adjustments[0].Weight)
}

func TestCalculateRentValue_TwoTermBlend(t *testing.T) {
	comps := []ComparableProperty{
		{ID: "r1", Price: 2100, Sqft: 1900, Bedrooms: 3, Bathrooms: 2, DistanceMiles: 0.2},
		{ID: "r2", Price: 2400, Sqft: 2200, Bedrooms: 4, Bathrooms: 2, DistanceMiles: 1.0},
	}
	res := CalculateRentValue(testSubject(), comps)
	assert.Equal(t, 0.5*res.MethodA+0.5*res.MethodB, res.Value)
	assert.Greater(t, res.Value, 2000.0)
	assert.Less(t, res.Value, 2600.0)
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0.0, Confidence(0, 100))

	// Three identical comparables saturate.
	comps := []ComparableProperty{twinComp("a", 1), twinComp("b", 1), twinComp("c", 1)}
	assert.Equal(t, 100.0, CalculateSaleValue(testSubject(), comps).Confidence)

	// Monotonic in count and similarity.
	prev := 0.0
	for n := 1; n <= 6; n++ {
		c := Confidence(n, 70)
		assert.GreaterOrEqual(t, c, prev)
		prev = c
	}
	assert.Less(t, Confidence(2, 50), Confidence(2, 90))
	assert.Equal(t, 35.0, Confidence(1, 0))
	assert.InDelta(t, 96.0, Confidence(3, 90), 1e-9)
}

func TestConfidence_SaturationBoundary(t *testing.T) {
	// The count term caps at 40 from three comparables on, so only a
	// perfect average similarity reaches 100.
	for n := 3; n <= 10; n++ {
		assert.Equal(t, 100.0, Confidence(n, 100), "n=%d", n)
		assert.InDelta(t, 96.0, Confidence(n, 90), 1e-9, "n=%d", n)
		assert.Less(t, Confidence(n, 99.9), 100.0, "n=%d", n)
	}
	assert.InDelta(t, 98.0, Confidence(5, 95), 1e-9)
	assert.InDelta(t, 90.0, Confidence(2, 100), 1e-9)

	// A single comparable with no similarity still scores the count and base terms.
	assert.Equal(t, 35.0, Confidence(1, 0))
}

func TestAfterRepairValue(t *testing.T) {
	assert.Equal(t, 350000.0, AfterRepairValue(300000, 50000, 0))
	assert.InDelta(t, 360000.0, AfterRepairValue(300000, 50000, 0.2), 1e-9)
	assert.InDelta(t, 330000.0, AfterRepairValue(300000, 0, 0.1), 1e-9)
	assert.Equal(t, 300000.0, AfterRepairValue(300000, 0, 0))
}

func TestAppraise(t *testing.T) {
	subject := testSubject()
	subject.RehabCost = 40000

	in := AppraisalInput{
		Subject:            subject,
		SaleComps:          []ComparableProperty{twinComp("s1", 300000), twinComp("s2", 320000)},
		RentalComps:        []ComparableProperty{twinComp("r1", 2200)},
		ImprovementPremium: 0.25,
	}
	a := Appraise(in)

	assert.InDelta(t, 310000, a.MarketValue, 1e-6)
	assert.InDelta(t, 310000+40000*1.25, a.AfterRepairValue, 1e-6)
	assert.InDelta(t, 2200, a.MarketRent, 1e-9)
	assert.Equal(t, 2, a.Sale.CompCount)
	assert.Equal(t, 1, a.Rent.CompCount)
}
