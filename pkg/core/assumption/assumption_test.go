package assumption

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := LoadDefaults()
	require.NoError(t, err)

	assert.Equal(t, 0.20, s.Financing.DownPaymentPct)
	assert.Equal(t, 30, s.Financing.LoanTermYears)
	assert.Equal(t, 10, s.Growth.HoldYears)
	assert.Equal(t, 0.75, s.BRRRR.RefinanceLTV)
	assert.Equal(t, 4, s.HouseHack.TotalUnits)
	assert.Equal(t, 1, s.HouseHack.OwnerUnits)
	assert.Equal(t, 10000.0, s.Wholesale.AssignmentFee)
}

func TestSet_JSONRoundTrip(t *testing.T) {
	s, err := LoadDefaults()
	require.NoError(t, err)

	data, err := s.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"refinance_ltv":0.75`)

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base, err := LoadDefaults()
	require.NoError(t, err)

	merged, err := Merge(base, []byte(`{"financing":{"interest_rate":0.065},"operating":{"monthly_rent":2400}}`))
	require.NoError(t, err)

	assert.Equal(t, 0.065, merged.Financing.InterestRate)
	assert.Equal(t, 2400.0, merged.Operating.MonthlyRent)
	// Untouched keys keep their base values.
	assert.Equal(t, base.Financing.DownPaymentPct, merged.Financing.DownPaymentPct)
	assert.Equal(t, base.Flip, merged.Flip)
	// Base is not modified.
	assert.Equal(t, 0.07, base.Financing.InterestRate)

	same, err := Merge(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, same)

	_, err = Merge(base, []byte(`{"financing":`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.hjson")
	doc := "{\n  # comments are allowed\n  financing: { interest_rate: 0.055, loan_term_years: 15 }\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.055, s.Financing.InterestRate)
	assert.Equal(t, 15, s.Financing.LoanTermYears)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.hjson"))
	assert.Error(t, err)
}
