package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Strategy string  `json:"strategy"`
	Price    float64 `json:"price"`
}

func TestSmartParse_StrictJSON(t *testing.T) {
	var p payload
	method, err := SmartParse([]byte(`{"strategy":"ltr","price":250000}`), &p)
	require.NoError(t, err)
	assert.Equal(t, MethodJSON, method)
	assert.Equal(t, payload{"ltr", 250000}, p)
}

func TestSmartParse_Repaired(t *testing.T) {
	var p payload
	method, err := SmartParse([]byte(`{'strategy': 'brrrr', 'price': 180000,}`), &p)
	require.NoError(t, err)
	assert.Equal(t, MethodRepaired, method)
	assert.Equal(t, "brrrr", p.Strategy)
	assert.Equal(t, 180000.0, p.Price)
}

func TestSmartParse_Undecodable(t *testing.T) {
	var p payload
	_, err := SmartParse([]byte(`{"price": [1, 2, 3]}`), &p)
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestParseHJSON(t *testing.T) {
	out, err := ParseHJSON("{\n  # comment\n  strategy: flip\n  price: 99000\n}")
	require.NoError(t, err)
	assert.JSONEq(t, `{"strategy":"flip","price":99000}`, out)
}

func TestSmartParse_TrailingDataIsNotStrict(t *testing.T) {
	var p payload
	method, _ := SmartParse([]byte(`{"strategy":"ltr","price":1} garbage`), &p)
	assert.NotEqual(t, MethodJSON, method)

	assert.Error(t, strictUnmarshal([]byte(`{"strategy":"ltr"} {"price":2}`), &p))
	assert.NoError(t, strictUnmarshal([]byte("{\"strategy\":\"ltr\"}\n  \n"), &p))
}
