package models

import (
	"strconv"

	"fv-simulator/internal/engine"
	"fv-simulator/internal/model"
	"fv-simulator/internal/report"
)

// ViewResponse is one scenario view of a session.
type ViewResponse struct {
	SessionID     string             `json:"session_id"`
	Scenario      model.Scenario     `json:"scenario"`
	ScenarioLabel string             `json:"scenario_label"`
	Selection     model.Selection    `json:"selection"`
	Indicators    model.Indicators   `json:"indicators"`
	Summary       engine.SummaryView `json:"summary"`
	Table         TableResponse      `json:"table"`
	Links         ViewLinks          `json:"links"`
}

// TableResponse keeps the column order: each row lists its values in the
// order of Columns. Formatted holds the same cells as written in the exports.
type TableResponse struct {
	Columns   []string   `json:"columns"`
	Rows      [][]any    `json:"rows"`
	Formatted [][]string `json:"formatted"`
}

// ViewLinks point at the downloads for the same selection.
type ViewLinks struct {
	Chart string `json:"chart,omitempty"`
	PDF   string `json:"pdf"`
	CSV   string `json:"csv"`
}

// NewViewResponse converts an engine view for the wire.
func NewViewResponse(id string, v engine.View, format report.Formatter) ViewResponse {
	rows := make([][]any, len(v.Table.Rows))
	for i, r := range v.Table.Rows {
		line := make([]any, len(v.Table.Columns))
		for j, col := range v.Table.Columns {
			line[j] = r[col]
		}
		rows[i] = line
	}
	_, formatted := report.Cells(v.Table, format)

	base := "/api/v1/sessions/" + id
	query := selectionQuery(v.Selection)
	links := ViewLinks{
		PDF: base + "/export.pdf" + query,
		CSV: base + "/export.csv" + query,
	}
	if v.Chart != nil {
		links.Chart = base + "/chart.png" + query
	}

	return ViewResponse{
		SessionID:     id,
		Scenario:      v.Scenario,
		ScenarioLabel: v.Scenario.Label(),
		Selection:     v.Selection,
		Indicators:    v.Indicators,
		Summary:       v.Summary,
		Table: TableResponse{
			Columns:   append([]string(nil), v.Table.Columns...),
			Rows:      rows,
			Formatted: formatted,
		},
		Links: links,
	}
}

func selectionQuery(sel model.Selection) string {
	return "?benefits=" + strconv.FormatBool(sel.WithBenefits) + "&leasing=" + strconv.FormatBool(sel.WithLeasing)
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
