// Package valuation serves the standalone engine endpoints: comparable
// appraisal, hold-period projection and loan amortization.
package valuation

import (
	"net/http"

	"github.com/phuslu/log"

	"github.com/humblehuman369/dealscope-sub001/pkg/api/httpx"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/calc"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/projection"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/validate"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/valuation"
)

type AmortizeRequest struct {
	Principal  float64 `json:"principal" validate:"gt=0"`
	AnnualRate float64 `json:"annual_rate" validate:"gte=0,lte=0.25"`
	TermYears  int     `json:"term_years" validate:"gt=0,lte=40"`
}

type AmortizeResponse struct {
	MonthlyPayment    float64                 `json:"monthly_payment"`
	AnnualDebtService float64                 `json:"annual_debt_service"`
	TotalInterest     float64                 `json:"total_interest"`
	Schedule          []calc.AmortizationYear `json:"schedule"`
}

// Handler holds dependencies for valuation endpoints
type Handler struct {
	validate *validate.Validator
}

// NewHandler creates a new valuation handler
func NewHandler() *Handler {
	return &Handler{validate: validate.New()}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/valuation/appraise", h.HandleAppraise)
	mux.HandleFunc("/api/valuation/project", h.HandleProject)
	mux.HandleFunc("/api/valuation/amortize", h.HandleAmortize)
}

// HandleAppraise values the subject from sale and rental comparables.
func (h *Handler) HandleAppraise(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "POST") || !httpx.AllowMethod(w, r, http.MethodPost) {
		return
	}

	var in valuation.AppraisalInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Appraisal(in); err != nil {
		httpx.WriteInvalid(w, err)
		return
	}

	a := valuation.Appraise(in)
	log.Info().
		Int("sale_comps", a.Sale.CompCount).
		Int("rental_comps", a.Rent.CompCount).
		Float64("market_value", a.MarketValue).
		Msg("Appraisal complete")
	httpx.WriteJSON(w, http.StatusOK, a)
}

// HandleProject builds the year-by-year hold table for explicit inputs.
func (h *Handler) HandleProject(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "POST") || !httpx.AllowMethod(w, r, http.MethodPost) {
		return
	}

	var in projection.Input
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Projection(in); err != nil {
		httpx.WriteInvalid(w, err)
		return
	}

	res := projection.Project(in)
	if !res.Summary.IRRConverged {
		log.Warn().Int("iterations", res.Summary.IRRIterations).Msg("IRR did not converge")
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleAmortize returns the payment and yearly schedule for a loan.
func (h *Handler) HandleAmortize(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "POST") || !httpx.AllowMethod(w, r, http.MethodPost) {
		return
	}

	var req AmortizeRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.WriteInvalid(w, err)
		return
	}

	schedule := calc.Schedule(req.Principal, req.AnnualRate, req.TermYears)
	resp := AmortizeResponse{
		MonthlyPayment:    calc.MonthlyPayment(req.Principal, req.AnnualRate, req.TermYears),
		AnnualDebtService: calc.AnnualDebtService(req.Principal, req.AnnualRate, req.TermYears),
		Schedule:          schedule,
	}
	if n := len(schedule); n > 0 {
		resp.TotalInterest = schedule[n-1].CumulativeInterest
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
