package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"fv-simulator/internal/api/models"
	"fv-simulator/internal/data"
	"fv-simulator/internal/engine"
	"fv-simulator/internal/model"
	"fv-simulator/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxBundleBytes bounds an uploaded calculator response.
const maxBundleBytes = 8 << 20

// Calculator produces a scenario bundle from project parameters.
type Calculator interface {
	Calculate(ctx context.Context, params model.ProjectParams) (*model.Bundle, error)
}

// SessionHandler handles calculation sessions: one engine per session.
type SessionHandler struct {
	calc      Calculator
	store     *data.SessionStore[*engine.Engine]
	newEngine func() *engine.Engine
	defaults  model.ProjectParams
	presets   *PresetHandler
	format    report.Formatter
	log       *logrus.Logger
}

// NewSessionHandler creates a session handler. newEngine is called once per
// session; every engine must own its own chart surface.
func NewSessionHandler(calc Calculator, store *data.SessionStore[*engine.Engine], newEngine func() *engine.Engine,
	defaults model.ProjectParams, presets *PresetHandler, format report.Formatter, log *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		calc:      calc,
		store:     store,
		newEngine: newEngine,
		defaults:  defaults,
		presets:   presets,
		format:    format,
		log:       log,
	}
}

// Defaults handles GET /api/v1/params/defaults
func (h *SessionHandler) Defaults(c *gin.Context) {
	c.JSON(http.StatusOK, h.defaults)
}

// Calculate handles POST /api/v1/calculate[?preset=id]
// Fields missing from the body take the preset values, or the configured
// defaults when no preset is named.
func (h *SessionHandler) Calculate(c *gin.Context) {
	params := h.defaults
	if id := c.Query("preset"); id != "" {
		p, ok := h.presets.find(id)
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "PRESET_NOT_FOUND",
					Message: fmt.Sprintf("preset %q not found", id),
				},
			})
			return
		}
		params = p.Params
	}
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, "INVALID_PARAMS", err)
		return
	}

	bundle, err := h.calc.Calculate(c.Request.Context(), params)
	if err != nil {
		h.log.WithError(err).Warn("[Sessions] Calculation failed")
		respondError(c, err)
		return
	}
	h.open(c, bundle)
}

// Create handles POST /api/v1/sessions
// The body is a saved calculator response.
func (h *SessionHandler) Create(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBundleBytes))
	if err != nil {
		badRequest(c, "INVALID_REQUEST", fmt.Errorf("read body: %w", err))
		return
	}
	bundle, err := model.DecodeBundle(raw)
	if err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	h.open(c, bundle)
}

func (h *SessionHandler) open(c *gin.Context, bundle *model.Bundle) {
	e := h.newEngine()
	v, err := e.Load(bundle)
	if err != nil {
		e.Close()
		respondError(c, err)
		return
	}
	id := h.store.Put(e)
	h.log.WithFields(logrus.Fields{"session": id, "years": bundle.Horizon()}).Info("[Sessions] Created")
	c.JSON(http.StatusCreated, models.NewViewResponse(id, v, h.format))
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, e, ok := h.selected(c)
	if !ok {
		return
	}
	v, _ := e.View()
	c.JSON(http.StatusOK, models.NewViewResponse(id, v, h.format))
}

// Chart handles GET /api/v1/sessions/:id/chart.png
func (h *SessionHandler) Chart(c *gin.Context) {
	_, e, ok := h.selected(c)
	if !ok {
		return
	}
	png, err := e.ChartPNG()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// ExportPDF handles GET /api/v1/sessions/:id/export.pdf
func (h *SessionHandler) ExportPDF(c *gin.Context) {
	h.export(c, "application/pdf", (*engine.Engine).ExportPDF)
}

// ExportCSV handles GET /api/v1/sessions/:id/export.csv
func (h *SessionHandler) ExportCSV(c *gin.Context) {
	h.export(c, "text/csv; charset=utf-8", (*engine.Engine).ExportCSV)
}

func (h *SessionHandler) export(c *gin.Context, contentType string, run func(*engine.Engine) ([]byte, string, error)) {
	_, e, ok := h.selected(c)
	if !ok {
		return
	}
	out, name, err := run(e)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, out)
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	e, ok := h.store.Get(id)
	if !ok {
		sessionNotFound(c, id)
		return
	}
	h.store.Delete(id)
	e.Close()
	c.Status(http.StatusNoContent)
}

// selected loads the session and applies the toggles from the query string.
// On failure the response has been written.
func (h *SessionHandler) selected(c *gin.Context) (string, *engine.Engine, bool) {
	id := c.Param("id")
	e, ok := h.store.Get(id)
	if !ok {
		sessionNotFound(c, id)
		return id, nil, false
	}

	var q models.SelectionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return id, nil, false
	}
	if q.Empty() {
		return id, e, true
	}
	if _, err := e.Select(q.Apply(e.Selection())); err != nil {
		respondError(c, err)
		return id, nil, false
	}
	return id, e, true
}
