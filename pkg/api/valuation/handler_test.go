package valuation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/calc"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/projection"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/valuation"
)

func serve(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler().Register(mux)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleAppraise(t *testing.T) {
	body := `{
		"subject": {"sqft": 2000, "bedrooms": 3, "bathrooms": 2, "year_built": 2000, "lot_size": 6000},
		"sale_comps": [
			{"id": "s1", "price": 300000, "sqft": 2000, "bedrooms": 3, "bathrooms": 2, "year_built": 2000, "lot_size": 6000},
			{"id": "s2", "price": 320000, "sqft": 2000, "bedrooms": 3, "bathrooms": 2, "year_built": 2000, "lot_size": 6000}
		],
		"rental_comps": [
			{"id": "r1", "price": 2200, "sqft": 2000, "bedrooms": 3, "bathrooms": 2, "year_built": 2000, "lot_size": 6000}
		]
	}`
	rec := serve(t, "/api/valuation/appraise", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var a valuation.Appraisal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.InDelta(t, 310000, a.MarketValue, 1e-6)
	assert.InDelta(t, 2200, a.MarketRent, 1e-9)
	assert.Equal(t, 2, a.Sale.CompCount)
}

func TestHandleAppraise_InvalidComp(t *testing.T) {
	rec := serve(t, "/api/valuation/appraise", `{"subject":{"sqft":2000},"sale_comps":[{"price":-1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sale_comps[0]")
}

func TestHandleProject(t *testing.T) {
	rec := serve(t, "/api/valuation/project", `{"purchase_price":100000,"down_payment":100000,"monthly_rent":1000,"property_taxes":2000,"years":5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res projection.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Years, 5)
	assert.InDelta(t, 0.10, res.Summary.IRR, 1e-6)
	assert.True(t, res.Summary.IRRConverged)
}

func TestHandleProject_LoanWithoutTerm(t *testing.T) {
	rec := serve(t, "/api/valuation/project", `{"purchase_price":100000,"loan_amount":80000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "loan_term_years")
}

func TestHandleAmortize(t *testing.T) {
	rec := serve(t, "/api/valuation/amortize", `{"principal":240000,"annual_rate":0.06,"term_years":30}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AmortizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, calc.MonthlyPayment(240000, 0.06, 30), resp.MonthlyPayment, 1e-9)
	assert.Len(t, resp.Schedule, 30)
	assert.InDelta(t, resp.AnnualDebtService*30-240000, resp.TotalInterest, 0.05)

	rec = serve(t, "/api/valuation/amortize", `{"principal":0,"annual_rate":0.06,"term_years":30}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "principal")

	rec = serve(t, "/api/valuation/amortize", `{"principal":240000,"annual_rate":0.06}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "term_years")
}

func TestHandleAmortize_RejectsProjectionFieldNames(t *testing.T) {
	rec := serve(t, "/api/valuation/amortize", `{"principal":240000,"interest_rate":0.06,"loan_term_years":30}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAmortize_LenientBody(t *testing.T) {
	rec := serve(t, "/api/valuation/amortize", "{\n  principal: 120000\n  annual_rate: 0\n  term_years: 10\n}")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AmortizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 1000, resp.MonthlyPayment, 1e-9)
}
