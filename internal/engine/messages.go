package engine

import (
	"context"
	"errors"
	"fmt"

	"fv-simulator/internal/chart"
	"fv-simulator/internal/data"
	"fv-simulator/internal/report"
	"fv-simulator/internal/scenario"
	"fv-simulator/internal/table"
)

// UserMessage converts an engine, export or calculator error into the text
// shown to the user. It never returns an empty string for a non-nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var missing *scenario.MissingScenarioError
	var mismatch *table.SeriesLengthMismatchError
	var calc *data.CalculatorError

	switch {
	case errors.As(err, &missing):
		return fmt.Sprintf("Resultados incompletos: falta el escenario \"%s\". Vuelva a calcular el proyecto.", missing.Scenario.Label())
	case errors.As(err, &mismatch):
		return fmt.Sprintf("Advertencia de integridad de datos: la serie tiene %d valores para %d años. Se mantiene la vista anterior.",
			mismatch.Series, mismatch.Rows)
	case errors.Is(err, report.ErrNoData):
		return "No hay datos para exportar."
	case errors.Is(err, ErrNoBundle):
		return "Aún no hay resultados. Calcule el proyecto primero."
	case errors.Is(err, ErrChartUnavailable), errors.Is(err, chart.ErrDisposed):
		return "El gráfico no está disponible."
	case errors.As(err, &calc):
		if calc.Code == "INVALID_PARAMS" {
			return "Parámetros inválidos: " + calc.Message
		}
		return "El servicio de cálculo no está disponible. Intente de nuevo más tarde."
	case errors.Is(err, data.ErrMalformedResponse):
		return "La respuesta del servicio de cálculo no es válida."
	case errors.Is(err, context.DeadlineExceeded):
		return "El servicio de cálculo no respondió a tiempo."
	default:
		return "Ocurrió un error inesperado. Intente de nuevo."
	}
}
