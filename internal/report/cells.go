// Package report exports a derived scenario table to PDF and CSV. Both formats
// render cells through the same Formatter, so a cell reads the same in each.
package report

import (
	"errors"
	"strconv"

	"fv-simulator/internal/model"
)

// ErrNoData is returned when an export is attempted with zero rows.
var ErrNoData = errors.New("no rows to export")

// Cells renders t into its header and body strings. The year column is
// written as a plain integer; every other cell goes through format.
func Cells(t model.Table, format Formatter) (header []string, body [][]string) {
	header = append([]string(nil), t.Columns...)
	body = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		line := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			v := row[col]
			if col == model.ColumnYear {
				line[j] = formatYear(v, format)
				continue
			}
			line[j] = format(v)
		}
		body[i] = line
	}
	return header, body
}

func formatYear(v any, format Formatter) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return format(v)
	}
}

// FileName is the download name for scenario s.
func FileName(s model.Scenario, ext string) string {
	return "flujo_caja_" + s.String() + "." + ext
}
