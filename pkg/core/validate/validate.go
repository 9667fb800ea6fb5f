// Package validate checks caller input at the boundary before it reaches the
// engine. The engine itself accepts any finite input and never errors; this
// package turns obviously wrong requests into field-level errors.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/deal"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/projection"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/valuation"
)

const (
	minYearBuilt = 1700
	maxYearBuilt = 2100
	maxHorizon   = 50
)

// FieldError is one failed rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (f FieldError) String() string {
	if f.Param != "" {
		return fmt.Sprintf("%s: %s=%s", f.Field, f.Rule, f.Param)
	}
	return fmt.Sprintf("%s: %s", f.Field, f.Rule)
}

// Error collects every failed rule for one input.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Validator wraps a configured go-playground validator. Safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New builds a validator that reports JSON field names and knows the
// engine's value types.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterStructValidation(subjectRules, valuation.SubjectProperty{})
	v.RegisterStructValidation(compRules, valuation.ComparableProperty{})
	v.RegisterStructValidation(projectionRules, projection.Input{})
	v.RegisterStructValidation(dealRules, deal.Input{})
	return &Validator{v: v}
}

// Struct validates any tagged struct.
func (val *Validator) Struct(s interface{}) error {
	return convert(val.v.Struct(s))
}

// DealInput validates a full analysis request.
func (val *Validator) DealInput(in deal.Input) error {
	return val.Struct(in)
}

// Appraisal validates an appraisal-only request.
func (val *Validator) Appraisal(in valuation.AppraisalInput) error {
	out := &Error{}
	if err := val.Struct(in); err != nil {
		return err
	}
	val.comps(out, "sale_comps", in.SaleComps)
	val.comps(out, "rental_comps", in.RentalComps)
	if len(in.SaleComps) == 0 && len(in.RentalComps) == 0 {
		out.Fields = append(out.Fields, FieldError{Field: "sale_comps", Rule: "required_without", Param: "rental_comps"})
	}
	if len(out.Fields) > 0 {
		return out
	}
	return nil
}

func (val *Validator) comps(out *Error, field string, comps []valuation.ComparableProperty) {
	for i, c := range comps {
		var verr *Error
		if errors.As(val.Struct(c), &verr) {
			for _, f := range verr.Fields {
				f.Field = fmt.Sprintf("%s[%d].%s", field, i, f.Field)
				out.Fields = append(out.Fields, f)
			}
		}
	}
}

// Projection validates a projection request.
func (val *Validator) Projection(in projection.Input) error {
	return val.Struct(in)
}

func convert(err error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("validation failed: %w", err)
	}
	out := &Error{Fields: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		out.Fields = append(out.Fields, FieldError{
			Field: trimRoot(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// trimRoot drops the top-level type name from a namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// =============================================================================
// STRUCT-LEVEL RULES
// Engine types carry no validate tags; their rules live here.
// =============================================================================

func nonNegative(sl validator.StructLevel, value float64, field, name string) {
	if value < 0 {
		sl.ReportError(value, field, name, "gte", "0")
	}
}

func yearBuilt(sl validator.StructLevel, year int) {
	if year != 0 && (year < minYearBuilt || year > maxYearBuilt) {
		sl.ReportError(year, "year_built", "YearBuilt", "year", fmt.Sprintf("%d-%d", minYearBuilt, maxYearBuilt))
	}
}

func subjectRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(valuation.SubjectProperty)
	nonNegative(sl, s.Sqft, "sqft", "Sqft")
	nonNegative(sl, s.Bedrooms, "bedrooms", "Bedrooms")
	nonNegative(sl, s.Bathrooms, "bathrooms", "Bathrooms")
	nonNegative(sl, s.LotSize, "lot_size", "LotSize")
	nonNegative(sl, s.RehabCost, "rehab_cost", "RehabCost")
	yearBuilt(sl, s.YearBuilt)
}

func compRules(sl validator.StructLevel) {
	c := sl.Current().Interface().(valuation.ComparableProperty)
	if c.ID == "" {
		sl.ReportError(c.ID, "id", "ID", "required", "")
	}
	nonNegative(sl, c.Price, "price", "Price")
	nonNegative(sl, c.Sqft, "sqft", "Sqft")
	nonNegative(sl, c.Bedrooms, "bedrooms", "Bedrooms")
	nonNegative(sl, c.Bathrooms, "bathrooms", "Bathrooms")
	nonNegative(sl, c.LotSize, "lot_size", "LotSize")
	nonNegative(sl, c.DistanceMiles, "distance_miles", "DistanceMiles")
	yearBuilt(sl, c.YearBuilt)
}

func projectionRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(projection.Input)
	nonNegative(sl, in.PurchasePrice, "purchase_price", "PurchasePrice")
	nonNegative(sl, in.DownPayment, "down_payment", "DownPayment")
	nonNegative(sl, in.LoanAmount, "loan_amount", "LoanAmount")
	nonNegative(sl, in.MonthlyRent, "monthly_rent", "MonthlyRent")
	if in.VacancyRate < 0 || in.VacancyRate > 1 {
		sl.ReportError(in.VacancyRate, "vacancy_rate", "VacancyRate", "range", "0-1")
	}
	if in.LoanAmount > 0 && in.LoanTermYears <= 0 {
		sl.ReportError(in.LoanTermYears, "loan_term_years", "LoanTermYears", "required_with", "loan_amount")
	}
	if in.Years < 0 || in.Years > maxHorizon {
		sl.ReportError(in.Years, "years", "Years", "range", fmt.Sprintf("0-%d", maxHorizon))
	}
}

func dealRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(deal.Input)
	if in.Prices.List <= 0 && in.Prices.Market <= 0 && len(in.SaleComps) == 0 {
		sl.ReportError(in.Prices, "prices", "Prices", "required_without", "sale_comps")
	}
	for _, p := range []float64{in.Prices.List, in.Prices.Market, in.Prices.Target} {
		if p < 0 {
			sl.ReportError(p, "prices", "Prices", "gte", "0")
			break
		}
	}
}
