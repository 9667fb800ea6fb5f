// Package deal runs the full engine for one property: comparable valuation,
// the selected strategy's metrics and, for hold strategies, the multi-year
// projection.
package deal

import (
	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/projection"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/strategy"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/valuation"
)

// Input is one analysis request.
type Input struct {
	Subject            valuation.SubjectProperty      `json:"subject"`
	SaleComps          []valuation.ComparableProperty `json:"sale_comps" validate:"dive"`
	RentalComps        []valuation.ComparableProperty `json:"rental_comps" validate:"dive"`
	ImprovementPremium float64                        `json:"improvement_premium" validate:"gte=0,lte=1"`

	Strategy    strategy.Strategy    `json:"strategy" validate:"required,oneof=ltr str brrrr flip house_hack wholesale"`
	PriceTarget strategy.PriceTarget `json:"price_target" validate:"omitempty,oneof=list market target"`
	Prices      strategy.Prices      `json:"prices"`
	Assumptions assumption.Set       `json:"assumptions"`
}

// Report is the engine's full output for one Input.
type Report struct {
	Appraisal  valuation.Appraisal `json:"appraisal"`
	Strategy   strategy.Strategy   `json:"strategy"`
	BasePrice  float64             `json:"base_price"`
	Result     strategy.Result     `json:"result"`
	Metrics    []strategy.Metric   `json:"metrics"`
	Headline   strategy.Headline   `json:"headline"`
	Projection *projection.Result  `json:"projection,omitempty"`
}
