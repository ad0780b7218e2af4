package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "flujos_sin_bt": [-22000000, 1800000, 1900000],
  "flujos_con_bt": [-22000000, 5000000, 5100000],
  "flujos_leasing_sin_bt": [0, -200000, 300000],
  "flujos_leasing_con_bt": [0, 900000, 1000000],
  "vpn_sin_bt": -18500000.5,
  "vpn_con_bt": -12000000,
  "tir_sin_bt": null,
  "tir_con_bt": 3.2,
  "payback_year": null,
  "payback_year_con_bt": 7,
  "tabla": [
    {"anio": 0, "ingresos": 0, "flujo_neto": -22000000, "flujo_acumulado": -22000000, "nota": "inversion"},
    {"anio": 1, "ingresos": 2800000, "flujo_neto": 1800000, "flujo_acumulado": -20200000, "nota": ""},
    {"anio": 2, "ingresos": 2900000, "flujo_neto": 1900000, "flujo_acumulado": -18300000, "nota": ""}
  ],
  "ingreso_total_anual": 2800000,
  "beneficio_total_anio1": 3200000
}`

func TestDecodeBundle(t *testing.T) {
	b, err := DecodeBundle([]byte(sampleResponse))
	require.NoError(t, err)

	base, ok := b.Scenario(ScenarioBase)
	require.True(t, ok)
	assert.Equal(t, []float64{-22000000, 1800000, 1900000}, base.Series)
	assert.Equal(t, -18500000.5, base.Indicators.NetPresentValue)
	assert.Nil(t, base.Indicators.InternalRateOfReturn)
	assert.Nil(t, base.Indicators.PaybackYear)

	ben, ok := b.Scenario(ScenarioBenefits)
	require.True(t, ok)
	require.NotNil(t, ben.Indicators.PaybackYear)
	assert.Equal(t, 7.0, *ben.Indicators.PaybackYear)
	require.NotNil(t, ben.Indicators.InternalRateOfReturn)
	assert.Equal(t, 3.2, *ben.Indicators.InternalRateOfReturn)

	for _, s := range All() {
		_, ok := b.Scenario(s)
		assert.True(t, ok, "scenario %s", s)
	}

	rows := b.BaseRows()
	assert.Equal(t, []string{"anio", "ingresos", "flujo_neto", "flujo_acumulado", "nota"}, rows.Columns)
	require.Len(t, rows.Rows, 3)
	assert.Equal(t, 1.0, rows.Rows[1][ColumnYear])
	assert.Equal(t, "inversion", rows.Rows[0]["nota"])

	assert.Equal(t, 2800000.0, b.Summary().TotalIncomeYear1)
	assert.Equal(t, 3200000.0, b.Summary().TotalTaxBenefitYear1)
}

func TestDecodeBundleMissingScenario(t *testing.T) {
	b, err := DecodeBundle([]byte(`{"flujos_sin_bt": [1, 2], "tabla": [{"anio": 0}, {"anio": 1}]}`))
	require.NoError(t, err)

	_, ok := b.Scenario(ScenarioBase)
	assert.True(t, ok)
	_, ok = b.Scenario(ScenarioLeasing)
	assert.False(t, ok)
}

func TestDecodeBundleMalformed(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":     `{`,
		"tabla object": `{"tabla": {"anio": 0}}`,
		"row not obj":  `{"tabla": [1, 2]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBundle([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestBundleAccessorsReturnCopies(t *testing.T) {
	b, err := DecodeBundle([]byte(sampleResponse))
	require.NoError(t, err)

	d, _ := b.Scenario(ScenarioBase)
	d.Series[0] = 42
	rows := b.BaseRows()
	rows.Rows[0][ColumnNetFlow] = "changed"

	again, _ := b.Scenario(ScenarioBase)
	assert.Equal(t, -22000000.0, again.Series[0])
	assert.Equal(t, -22000000.0, b.BaseRows().Rows[0][ColumnNetFlow])
}

func TestDefaultParamsValid(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())

	p.AniosDeduccionRenta = 16
	assert.Error(t, p.Validate())
}

func TestScenarioLabelsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range All() {
		assert.True(t, s.Valid())
		assert.False(t, seen[s.Label()], "duplicate label %q", s.Label())
		seen[s.Label()] = true
	}
	assert.False(t, Scenario("other").Valid())
}
