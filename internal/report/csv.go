package report

import (
	"bytes"
	"encoding/csv"

	"fv-simulator/internal/model"
)

// CSV writes t as UTF-8 comma-separated text. Numeric cells are written
// already formatted as currency, not as raw numbers.
func (e *Exporter) CSV(t model.Table) ([]byte, error) {
	if t.Len() == 0 {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header, body := Cells(t, e.format)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range body {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
