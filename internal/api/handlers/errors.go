package handlers

import (
	"context"
	"errors"
	"net/http"

	"fv-simulator/internal/api/models"
	"fv-simulator/internal/chart"
	"fv-simulator/internal/data"
	"fv-simulator/internal/engine"
	"fv-simulator/internal/report"
	"fv-simulator/internal/scenario"
	"fv-simulator/internal/table"

	"github.com/gin-gonic/gin"
)

// respondError maps engine, export and calculator errors to a status and code.
// The message is the same text the user would see in the UI.
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	details := map[string]interface{}{"error": err.Error()}

	var missing *scenario.MissingScenarioError
	var mismatch *table.SeriesLengthMismatchError
	var calc *data.CalculatorError

	switch {
	case errors.As(err, &missing):
		status, code = http.StatusUnprocessableEntity, "RESULTS_INCOMPLETE"
		details["scenario"] = missing.Scenario
	case errors.As(err, &mismatch):
		status, code = http.StatusUnprocessableEntity, "DATA_INTEGRITY"
		details["rows"] = mismatch.Rows
		details["series"] = mismatch.Series
	case errors.Is(err, report.ErrNoData):
		status, code = http.StatusConflict, "NO_DATA"
	case errors.Is(err, engine.ErrChartUnavailable), errors.Is(err, chart.ErrDisposed):
		status, code = http.StatusConflict, "CHART_UNAVAILABLE"
	case errors.As(err, &calc):
		if calc.Code == "INVALID_PARAMS" {
			status, code = http.StatusBadRequest, "INVALID_PARAMS"
		} else {
			status, code = http.StatusBadGateway, "CALCULATOR_ERROR"
		}
		details["status_code"] = calc.StatusCode
		details["calculator_code"] = calc.Code
	case errors.Is(err, data.ErrMalformedResponse):
		status, code = http.StatusBadGateway, "CALCULATOR_ERROR"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "CALCULATOR_ERROR"
	}

	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: engine.UserMessage(err),
			Details: details,
		},
	})
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

func sessionNotFound(c *gin.Context, id string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "SESSION_NOT_FOUND",
			Message: "La sesión no existe o expiró. Calcule el proyecto de nuevo.",
			Details: map[string]interface{}{"session_id": id},
		},
	})
}
