package model

// Column names of the shared row table that the engine reads or rewrites.
const (
	ColumnYear           = "anio"
	ColumnNetFlow        = "flujo_neto"
	ColumnCumulativeFlow = "flujo_acumulado"
)

// Row is one year of the row table, keyed by column name.
// Values are float64, string, bool or nil as decoded from JSON.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered row table. Columns carries the display order of the
// row keys; Rows are in ascending year order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// HasColumn reports whether name is one of the table's columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Summary holds the year-1 figures shown next to the indicators.
type Summary struct {
	TotalIncomeYear1         float64 `json:"ingreso_total_anual"`
	SelfConsumptionYear1     float64 `json:"autoconsumo_anual"`
	Surplus1Year1            float64 `json:"excedente1_anual"`
	Surplus2Year1            float64 `json:"excedente2_anual"`
	DepreciationBenefitYear1 float64 `json:"beneficio_depreciacion_anio1"`
	IncomeTaxBenefitYear1    float64 `json:"beneficio_renta_anio1"`
	TotalTaxBenefitYear1     float64 `json:"beneficio_total_anio1"`
}

// Bundle is the result of one calculation. It is never mutated after decode;
// a new calculation produces a new Bundle.
type Bundle struct {
	scenarios map[Scenario]ScenarioData
	baseRows  Table
	summary   Summary
}

// NewBundle builds a bundle from already-decoded parts. Scenarios that are
// absent from the map stay absent; the selector reports them.
func NewBundle(scenarios map[Scenario]ScenarioData, baseRows Table, summary Summary) *Bundle {
	b := &Bundle{
		scenarios: make(map[Scenario]ScenarioData, len(scenarios)),
		baseRows:  cloneTable(baseRows),
		summary:   summary,
	}
	for s, d := range scenarios {
		b.scenarios[s] = ScenarioData{
			Series:     append([]float64(nil), d.Series...),
			Indicators: d.Indicators,
		}
	}
	return b
}

// Scenario returns a copy of the data for s.
func (b *Bundle) Scenario(s Scenario) (ScenarioData, bool) {
	if b == nil {
		return ScenarioData{}, false
	}
	d, ok := b.scenarios[s]
	if !ok {
		return ScenarioData{}, false
	}
	d.Series = append([]float64(nil), d.Series...)
	return d, true
}

// BaseRows returns a copy of the shared row table.
func (b *Bundle) BaseRows() Table {
	if b == nil {
		return Table{}
	}
	return cloneTable(b.baseRows)
}

// Summary returns the year-1 figures.
func (b *Bundle) Summary() Summary {
	if b == nil {
		return Summary{}
	}
	return b.summary
}

// Horizon is the number of yearly rows in the bundle.
func (b *Bundle) Horizon() int {
	if b == nil {
		return 0
	}
	return len(b.baseRows.Rows)
}

func cloneTable(t Table) Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}
