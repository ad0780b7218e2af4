package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"fv-simulator/internal/api/models"
	"fv-simulator/internal/config"
	"fv-simulator/internal/data"
	"fv-simulator/internal/engine"
	"fv-simulator/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalculator struct {
	raw    []byte
	err    error
	params model.ProjectParams
}

func (f *fakeCalculator) Calculate(_ context.Context, p model.ProjectParams) (*model.Bundle, error) {
	f.params = p
	if f.err != nil {
		return nil, f.err
	}
	return model.DecodeBundle(f.raw)
}

func fixture(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile("../data/testdata/bundle.json")
	require.NoError(t, err)
	return raw
}

func setup(t *testing.T, calc *fakeCalculator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.Default()
	cfg.Chart.Width, cfg.Chart.Height = 480, 240
	cfg.PresetsDir = "../../configs/params"
	store := data.NewSessionStore[*engine.Engine](0, log)
	return NewRouter(&cfg, calc, store, log)
}

func do(t *testing.T, r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) models.ViewResponse {
	t.Helper()
	var v models.ViewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var e models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e.Error
}

func TestHealthAndDefaults(t *testing.T) {
	r := setup(t, &fakeCalculator{})

	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/params/defaults", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p model.ProjectParams
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, model.DefaultParams(), p)
}

func TestCalculateCreatesSession(t *testing.T) {
	calc := &fakeCalculator{raw: fixture(t)}
	r := setup(t, calc)

	w := do(t, r, http.MethodPost, "/api/v1/calculate", []byte(`{"capex": 30000000}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 30000000.0, calc.params.Capex)
	assert.Equal(t, 7500.0, calc.params.GeneracionAnualKWh)

	v := decodeView(t, w)
	assert.NotEmpty(t, v.SessionID)
	assert.Equal(t, model.ScenarioBase, v.Scenario)
	assert.Equal(t, "Sin beneficios", v.ScenarioLabel)
	assert.Equal(t, model.Selection{}, v.Selection)
	assert.Equal(t, []string{"anio", "ingresos", "opex", "flujo_neto", "flujo_acumulado"}, v.Table.Columns)
	require.Len(t, v.Table.Formatted, 4)
	assert.Equal(t, []string{"1", "$ 2.800.000", "$ 1.000.000", "$ 1.800.000", "-$ 20.200.000"}, v.Table.Formatted[1])
	assert.Nil(t, v.Summary.TotalTaxBenefit)
	assert.Nil(t, v.Indicators.PaybackYear)
	assert.NotEmpty(t, v.Links.Chart)
}

func TestCalculateInvalidParams(t *testing.T) {
	r := setup(t, &fakeCalculator{raw: fixture(t)})

	w := do(t, r, http.MethodPost, "/api/v1/calculate", []byte(`{"anios_deduccion_renta": 40}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMS", decodeError(t, w).Code)
}

func TestCalculatorFailure(t *testing.T) {
	calc := &fakeCalculator{err: &data.CalculatorError{StatusCode: 503, Code: "UNAVAILABLE", Message: "down"}}
	r := setup(t, calc)

	w := do(t, r, http.MethodPost, "/api/v1/calculate", []byte(`{}`))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "CALCULATOR_ERROR", e.Code)
	assert.Contains(t, e.Message, "no está disponible")
}

func TestToggleAndExport(t *testing.T) {
	r := setup(t, &fakeCalculator{raw: fixture(t)})
	w := do(t, r, http.MethodPost, "/api/v1/sessions", fixture(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decodeView(t, w).SessionID
	base := "/api/v1/sessions/" + id

	w = do(t, r, http.MethodGet, base+"?benefits=true", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	v := decodeView(t, w)
	assert.Equal(t, model.ScenarioBenefits, v.Scenario)
	require.NotNil(t, v.Indicators.PaybackYear)
	assert.Equal(t, 3.0, *v.Indicators.PaybackYear)
	require.NotNil(t, v.Summary.TotalTaxBenefit)
	assert.Equal(t, 3200000.0, *v.Summary.TotalTaxBenefit)

	// The toggle sticks; leasing is added on top.
	w = do(t, r, http.MethodGet, base+"?leasing=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ScenarioLeasingBenefits, decodeView(t, w).Scenario)

	w = do(t, r, http.MethodGet, base+"/export.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="flujo_caja_leasingBenefits.csv"`, w.Header().Get("Content-Disposition"))
	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"3", "$ 3.000.000", "$ 1.000.000", "$ 1.100.000", "$ 3.000.000"}, records[4])

	w = do(t, r, http.MethodGet, base+"/export.pdf?benefits=false&leasing=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="flujo_caja_base.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = do(t, r, http.MethodGet, base+"/chart.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = do(t, r, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeError(t, w).Code)
}

func TestIncompleteBundleRejected(t *testing.T) {
	r := setup(t, &fakeCalculator{})
	body := []byte(`{"flujos_sin_bt": [1, 2], "tabla": [{"anio": 0}, {"anio": 1}]}`)

	w := do(t, r, http.MethodPost, "/api/v1/sessions", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "RESULTS_INCOMPLETE", e.Code)
	assert.Contains(t, e.Message, "Resultados incompletos")
}

func TestMismatchKeepsPreviousView(t *testing.T) {
	var payload map[string]any
	require.NoError(t, json.Unmarshal(fixture(t), &payload))
	payload["flujos_con_bt"] = []float64{-22000000, 5000000}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	r := setup(t, &fakeCalculator{})
	w := do(t, r, http.MethodPost, "/api/v1/sessions", raw)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	base := "/api/v1/sessions/" + decodeView(t, w).SessionID

	w = do(t, r, http.MethodGet, base+"?benefits=true", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "DATA_INTEGRITY", decodeError(t, w).Code)

	w = do(t, r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ScenarioBase, decodeView(t, w).Scenario)
}

func TestMalformedUpload(t *testing.T) {
	r := setup(t, &fakeCalculator{})
	w := do(t, r, http.MethodPost, "/api/v1/sessions", []byte(`{"tabla": 3`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Code)
}

func TestBadToggleQuery(t *testing.T) {
	r := setup(t, &fakeCalculator{})
	w := do(t, r, http.MethodPost, "/api/v1/sessions", fixture(t))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeView(t, w).SessionID

	w = do(t, r, http.MethodGet, "/api/v1/sessions/"+id+"?benefits=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := setup(t, &fakeCalculator{})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/calculate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPresets(t *testing.T) {
	calc := &fakeCalculator{raw: fixture(t)}
	r := setup(t, calc)

	w := do(t, r, http.MethodGet, "/api/v1/params/presets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Presets []struct {
			ID     string              `json:"id"`
			Name   string              `json:"name"`
			Params model.ProjectParams `json:"params"`
		} `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Presets, 2)
	assert.Equal(t, "comercial", body.Presets[0].ID)

	w = do(t, r, http.MethodPost, "/api/v1/calculate?preset=comercial", []byte(`{"horizonte_anios": 20}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 115000000.0, calc.params.Capex)
	assert.Equal(t, 20, calc.params.HorizonteAnios)

	w = do(t, r, http.MethodPost, "/api/v1/calculate?preset=nope", []byte(`{}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRESET_NOT_FOUND", decodeError(t, w).Code)
}
