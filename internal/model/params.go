package model

import "errors"

// ProjectParams are the inputs the calculator needs for one PV project.
// Units:
// - energy: kWh per year
// - prices: COP per kWh
// - rates and shares: fractions 0..1
// - money: COP
type ProjectParams struct {
	GeneracionAnualKWh         float64 `json:"generacion_anual_kwh" yaml:"generacion_anual_kwh" binding:"gt=0"`
	PorcentajeAutoconsumo      float64 `json:"porcentaje_autoconsumo" yaml:"porcentaje_autoconsumo" binding:"gte=0,lte=1"`
	ConsumoAnualUsuario        float64 `json:"consumo_anual_usuario" yaml:"consumo_anual_usuario" binding:"gte=0"`
	PrecioCompraKWh            float64 `json:"precio_compra_kwh" yaml:"precio_compra_kwh" binding:"gte=0"`
	CrecimientoEnergia         float64 `json:"crecimiento_energia" yaml:"crecimiento_energia"`
	PrecioBolsa                float64 `json:"precio_bolsa" yaml:"precio_bolsa" binding:"gte=0"`
	CrecimientoBolsa           float64 `json:"crecimiento_bolsa" yaml:"crecimiento_bolsa"`
	ComponenteComercializacion float64 `json:"componente_comercializacion" yaml:"componente_comercializacion" binding:"gte=0"`
	Capex                      float64 `json:"capex" yaml:"capex" binding:"gt=0"`
	OpexAnual                  float64 `json:"opex_anual" yaml:"opex_anual" binding:"gte=0"`
	HorizonteAnios             int     `json:"horizonte_anios" yaml:"horizonte_anios" binding:"gte=1,lte=50"`
	TasaDescuento              float64 `json:"tasa_descuento" yaml:"tasa_descuento" binding:"gte=0"`
	AniosDeduccionRenta        int     `json:"anios_deduccion_renta" yaml:"anios_deduccion_renta" binding:"gte=1,lte=15"`
}

// DefaultParams returns the reference residential project.
func DefaultParams() ProjectParams {
	return ProjectParams{
		GeneracionAnualKWh:         7500,
		PorcentajeAutoconsumo:      0.2,
		ConsumoAnualUsuario:        6000,
		PrecioCompraKWh:            950,
		CrecimientoEnergia:         0.08,
		PrecioBolsa:                400,
		CrecimientoBolsa:           0.08,
		ComponenteComercializacion: 60,
		Capex:                      22000000,
		OpexAnual:                  1000000,
		HorizonteAnios:             25,
		TasaDescuento:              0.10,
		AniosDeduccionRenta:        3,
	}
}

// Validate mirrors the binding rules for callers that do not go through gin.
func (p ProjectParams) Validate() error {
	if p.GeneracionAnualKWh <= 0 {
		return errors.New("generacion_anual_kwh must be > 0")
	}
	if p.PorcentajeAutoconsumo < 0 || p.PorcentajeAutoconsumo > 1 {
		return errors.New("porcentaje_autoconsumo must be in [0, 1]")
	}
	if p.ConsumoAnualUsuario < 0 || p.PrecioCompraKWh < 0 || p.PrecioBolsa < 0 ||
		p.ComponenteComercializacion < 0 || p.OpexAnual < 0 || p.TasaDescuento < 0 {
		return errors.New("consumption, prices, opex and discount rate must be >= 0")
	}
	if p.Capex <= 0 {
		return errors.New("capex must be > 0")
	}
	if p.HorizonteAnios < 1 || p.HorizonteAnios > 50 {
		return errors.New("horizonte_anios must be in [1, 50]")
	}
	if p.AniosDeduccionRenta < 1 || p.AniosDeduccionRenta > 15 {
		return errors.New("anios_deduccion_renta must be in [1, 15]")
	}
	return nil
}
