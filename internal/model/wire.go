package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CalculatorResponse matches the JSON returned by the external calculator.
//
// Example:
//
//	{
//	  "flujos_sin_bt": [-22000000, 1800000, ...],
//	  "vpn_sin_bt": -1234567.8,
//	  "tir_sin_bt": 8.1,
//	  "payback_year": 12,
//	  ...
//	  "tabla": [{"anio": 0, "ingresos": 0, "flujo_neto": -22000000, ...}, ...]
//	}
type CalculatorResponse struct {
	FlujosSinBT        []float64 `json:"flujos_sin_bt"`
	FlujosConBT        []float64 `json:"flujos_con_bt"`
	FlujosLeasingSinBT []float64 `json:"flujos_leasing_sin_bt"`
	FlujosLeasingConBT []float64 `json:"flujos_leasing_con_bt"`

	VPNSinBT        *float64 `json:"vpn_sin_bt"`
	VPNConBT        *float64 `json:"vpn_con_bt"`
	VPNLeasingSinBT *float64 `json:"vpn_leasing_sin_bt"`
	VPNLeasingConBT *float64 `json:"vpn_leasing_con_bt"`

	TIRSinBT        *float64 `json:"tir_sin_bt"`
	TIRConBT        *float64 `json:"tir_con_bt"`
	TIRLeasingSinBT *float64 `json:"tir_leasing_sin_bt"`
	TIRLeasingConBT *float64 `json:"tir_leasing_con_bt"`

	PaybackYear          *float64 `json:"payback_year"`
	PaybackYearConBT     *float64 `json:"payback_year_con_bt"`
	PaybackYearLeasing   *float64 `json:"payback_year_leasing_sin_bt"`
	PaybackYearLeasingBT *float64 `json:"payback_year_leasing_con_bt"`

	Tabla json.RawMessage `json:"tabla"`

	Summary
}

// DecodeBundle parses a calculator response into a Bundle.
// Scenarios whose series is absent (or null) are left out of the bundle.
func DecodeBundle(raw []byte) (*Bundle, error) {
	var resp CalculatorResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode calculator response: %w", err)
	}
	return resp.Bundle()
}

// Bundle converts the wire shape into the engine's Bundle.
func (r *CalculatorResponse) Bundle() (*Bundle, error) {
	rows, err := decodeRows(r.Tabla)
	if err != nil {
		return nil, fmt.Errorf("decode tabla: %w", err)
	}

	scenarios := map[Scenario]ScenarioData{}
	add := func(s Scenario, series []float64, vpn, tir, payback *float64) {
		if series == nil {
			return
		}
		ind := Indicators{InternalRateOfReturn: tir, PaybackYear: payback}
		if vpn != nil {
			ind.NetPresentValue = *vpn
		}
		scenarios[s] = ScenarioData{Series: series, Indicators: ind}
	}
	add(ScenarioBase, r.FlujosSinBT, r.VPNSinBT, r.TIRSinBT, r.PaybackYear)
	add(ScenarioBenefits, r.FlujosConBT, r.VPNConBT, r.TIRConBT, r.PaybackYearConBT)
	add(ScenarioLeasing, r.FlujosLeasingSinBT, r.VPNLeasingSinBT, r.TIRLeasingSinBT, r.PaybackYearLeasing)
	add(ScenarioLeasingBenefits, r.FlujosLeasingConBT, r.VPNLeasingConBT, r.TIRLeasingConBT, r.PaybackYearLeasingBT)

	return NewBundle(scenarios, rows, r.Summary), nil
}

// decodeRows reads an array of JSON objects, keeping the key order of the
// objects as the table's column order.
func decodeRows(raw json.RawMessage) (Table, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Table{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, '['); err != nil {
		return Table{}, err
	}

	var t Table
	seen := map[string]bool{}
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return Table{}, fmt.Errorf("row %d: %w", len(t.Rows), err)
		}
		row := Row{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return Table{}, err
			}
			key, ok := tok.(string)
			if !ok {
				return Table{}, fmt.Errorf("row %d: unexpected token %v", len(t.Rows), tok)
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return Table{}, fmt.Errorf("row %d column %q: %w", len(t.Rows), key, err)
			}
			row[key] = v
			if !seen[key] {
				seen[key] = true
				t.Columns = append(t.Columns, key)
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return Table{}, err
		}
		t.Rows = append(t.Rows, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return Table{}, err
	}
	return t, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
