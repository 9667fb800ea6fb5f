// Package strategy derives per-strategy investment metrics and a 0-100 deal
// score from a base price and a resolved assumption set.
//
// Each of the six strategies is an independent, pure formula set with its
// own result type. Calculate dispatches on the Strategy tag; Lookup and
// ExtractHeadline give strategy-agnostic access to the results.
package strategy

import (
	"fmt"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
)

// Strategy identifies one of the six investment strategies.
type Strategy string

const (
	LongTermRental  Strategy = "ltr"
	ShortTermRental Strategy = "str"
	BRRRR           Strategy = "brrrr"
	FixAndFlip      Strategy = "flip"
	HouseHack       Strategy = "house_hack"
	Wholesale       Strategy = "wholesale"
)

// All returns every strategy in display order.
func All() []Strategy {
	return []Strategy{LongTermRental, ShortTermRental, BRRRR, FixAndFlip, HouseHack, Wholesale}
}

// Valid reports whether s is one of the six strategies.
func (s Strategy) Valid() bool {
	switch s {
	case LongTermRental, ShortTermRental, BRRRR, FixAndFlip, HouseHack, Wholesale:
		return true
	}
	return false
}

// ParseStrategy converts a wire name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(name)
	if !s.Valid() {
		return "", fmt.Errorf("unknown strategy %q", name)
	}
	return s, nil
}

// PriceTarget selects which base price feeds the formulas.
type PriceTarget string

const (
	PriceTargetList   PriceTarget = "list"
	PriceTargetMarket PriceTarget = "market"
	PriceTargetTarget PriceTarget = "target"
)

// Prices are the candidate base prices for a property.
type Prices struct {
	List   float64 `json:"list"`
	Market float64 `json:"market"`
	Target float64 `json:"target"`
}

// Base returns the price selected by t. An unknown target or a zero
// selection falls back to the list price.
func (p Prices) Base(t PriceTarget) float64 {
	var v float64
	switch t {
	case PriceTargetMarket:
		v = p.Market
	case PriceTargetTarget:
		v = p.Target
	default:
		v = p.List
	}
	if v == 0 {
		return p.List
	}
	return v
}

// Input is everything a strategy formula set reads.
type Input struct {
	Strategy         Strategy       `json:"strategy" validate:"required,oneof=ltr str brrrr flip house_hack wholesale"`
	PriceTarget      PriceTarget    `json:"price_target" validate:"omitempty,oneof=list market target"`
	Prices           Prices         `json:"prices"`
	AfterRepairValue float64        `json:"after_repair_value" validate:"gte=0"`
	Assumptions      assumption.Set `json:"assumptions"`
}

// BasePrice is the price selected by the input's price target.
func (in Input) BasePrice() float64 {
	return in.Prices.Base(in.PriceTarget)
}

// Result is implemented by each strategy's result type.
type Result interface {
	Strategy() Strategy
	Metrics() []Metric
	Score() DealScore
}

// Calculate runs the formula set for in.Strategy.
func Calculate(in Input) (Result, error) {
	switch in.Strategy {
	case LongTermRental:
		return CalculateLTR(in), nil
	case ShortTermRental:
		return CalculateSTR(in), nil
	case BRRRR:
		return CalculateBRRRR(in), nil
	case FixAndFlip:
		return CalculateFlip(in), nil
	case HouseHack:
		return CalculateHouseHack(in), nil
	case Wholesale:
		return CalculateWholesale(in), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", in.Strategy)
}

// CalculateAll runs every strategy against the same input.
func CalculateAll(in Input) map[Strategy]Result {
	out := make(map[Strategy]Result, 6)
	for _, s := range All() {
		in.Strategy = s
		r, _ := Calculate(in)
		out[s] = r
	}
	return out
}

// safeDiv returns a/b, or 0 when b is 0.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
