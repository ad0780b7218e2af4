// Package table derives the per-year view of a scenario from the shared row
// table returned by the calculator.
package table

import (
	"errors"
	"fmt"

	"fv-simulator/internal/model"
)

// ErrSeriesLengthMismatch is matched by every *SeriesLengthMismatchError.
var ErrSeriesLengthMismatch = errors.New("series shorter than row table")

// SeriesLengthMismatchError reports a scenario series that cannot cover every row.
type SeriesLengthMismatchError struct {
	Rows   int
	Series int
}

func (e *SeriesLengthMismatchError) Error() string {
	return fmt.Sprintf("series has %d values but row table has %d rows", e.Series, e.Rows)
}

func (e *SeriesLengthMismatchError) Is(target error) bool { return target == ErrSeriesLengthMismatch }

// Build returns a copy of baseRows with the net and cumulative flow columns
// rewritten from series. The cumulative column is always recomputed from
// year 0; whatever the base table carried is discarded.
//
// baseRows is not modified. On error no rows are returned.
func Build(baseRows model.Table, series []float64) (model.Table, error) {
	if len(series) < len(baseRows.Rows) {
		return model.Table{}, &SeriesLengthMismatchError{Rows: len(baseRows.Rows), Series: len(series)}
	}

	out := model.Table{
		Columns: append([]string(nil), baseRows.Columns...),
		Rows:    make([]model.Row, len(baseRows.Rows)),
	}
	for _, col := range []string{model.ColumnNetFlow, model.ColumnCumulativeFlow} {
		if !out.HasColumn(col) {
			out.Columns = append(out.Columns, col)
		}
	}

	running := 0.0
	for i, base := range baseRows.Rows {
		row := base.Clone()
		running += series[i]
		row[model.ColumnNetFlow] = series[i]
		row[model.ColumnCumulativeFlow] = running
		out.Rows[i] = row
	}
	return out, nil
}

// Column extracts the float values of one column, skipping non-numeric cells.
func Column(t model.Table, name string) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if v, ok := r[name].(float64); ok {
			out = append(out, v)
		}
	}
	return out
}
