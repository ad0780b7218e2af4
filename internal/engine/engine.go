// Package engine holds the presentation state of one simulation: the bundle
// received from the calculator, the toggle selection and the last view that
// derived successfully.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"fv-simulator/internal/chart"
	"fv-simulator/internal/model"
	"fv-simulator/internal/report"
	"fv-simulator/internal/scenario"
	"fv-simulator/internal/table"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoBundle         = errors.New("no results loaded")
	ErrChartUnavailable = errors.New("chart not available")
)

// SummaryView is the year-1 card. The tax benefit lines are only set when the
// benefits toggle is on.
type SummaryView struct {
	TotalIncome         float64  `json:"ingreso_total_anual"`
	SelfConsumption     float64  `json:"autoconsumo_anual"`
	Surplus1            float64  `json:"excedente1_anual"`
	Surplus2            float64  `json:"excedente2_anual"`
	DepreciationBenefit *float64 `json:"beneficio_depreciacion_anio1,omitempty"`
	IncomeTaxBenefit    *float64 `json:"beneficio_renta_anio1,omitempty"`
	TotalTaxBenefit     *float64 `json:"beneficio_total_anio1,omitempty"`
}

// View is everything shown for one selection.
type View struct {
	Scenario   model.Scenario
	Selection  model.Selection
	Indicators model.Indicators
	Table      model.Table
	// Chart is nil when the surface was not mounted or the series was empty.
	Chart   *chart.Handle
	Summary SummaryView
}

// Engine serializes every toggle and export of one session.
type Engine struct {
	mu       sync.Mutex
	bundle   *model.Bundle
	sel      model.Selection
	view     *View
	renderer *chart.Renderer
	exporter *report.Exporter
	log      *logrus.Entry
	now      func() time.Time
}

// New returns an empty engine. renderer is owned by the engine from now on.
func New(renderer *chart.Renderer, exporter *report.Exporter, log *logrus.Logger) *Engine {
	if exporter == nil {
		exporter = report.NewExporter(report.FormatCurrency, report.DefaultOptions())
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		renderer: renderer,
		exporter: exporter,
		log:      log.WithField("component", "engine"),
		now:      time.Now,
	}
}

// Load replaces the bundle and resets the selection to no benefits and no
// leasing. If the base view cannot be derived the engine keeps its previous
// bundle, selection and view.
func (e *Engine) Load(b *model.Bundle) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b == nil {
		return View{}, ErrNoBundle
	}
	if err := scenario.Complete(b); err != nil {
		e.log.WithError(err).Warn("[Engine] Load rejected: bundle incomplete")
		return View{}, err
	}
	v, err := e.derive(b, model.Selection{})
	if err != nil {
		e.log.WithError(err).Warn("[Engine] Load rejected")
		return View{}, err
	}

	e.bundle = b
	e.sel = model.Selection{}
	e.view = v
	e.log.WithFields(logrus.Fields{"years": b.Horizon(), "scenario": v.Scenario}).Info("[Engine] Loaded results")
	return *v, nil
}

// Select derives the view for sel. On error the previous view and selection
// stay current.
func (e *Engine) Select(sel model.Selection) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bundle == nil {
		return View{}, ErrNoBundle
	}
	v, err := e.derive(e.bundle, sel)
	if err != nil {
		e.log.WithError(err).WithField("selection", sel).Warn("[Engine] Selection kept previous view")
		return View{}, err
	}
	e.sel = sel
	e.view = v
	return *v, nil
}

// View returns the last good view.
func (e *Engine) View() (View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view == nil {
		return View{}, false
	}
	return *e.view, true
}

// Selection returns the current toggles.
func (e *Engine) Selection() model.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel
}

// ChartPNG rasterizes the chart of the current view.
func (e *Engine) ChartPNG() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chartPNG()
}

func (e *Engine) chartPNG() ([]byte, error) {
	if e.view == nil {
		return nil, ErrNoBundle
	}
	if e.view.Chart == nil {
		return nil, ErrChartUnavailable
	}
	return e.view.Chart.Snapshot()
}

// ExportPDF writes the current view as a PDF report.
func (e *Engine) ExportPDF() ([]byte, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.view == nil {
		return nil, "", ErrNoBundle
	}
	png, err := e.chartPNG()
	if err != nil && !errors.Is(err, ErrChartUnavailable) {
		return nil, "", err
	}
	out, err := e.exporter.PDF(e.view.Table, png, report.Meta{
		Scenario:   e.view.Scenario,
		Indicators: e.view.Indicators,
		Generated:  e.now(),
	})
	if err != nil {
		return nil, "", err
	}
	e.log.WithFields(logrus.Fields{"scenario": e.view.Scenario, "bytes": len(out)}).Info("[Engine] Exported PDF")
	return out, report.FileName(e.view.Scenario, "pdf"), nil
}

// ExportCSV writes the current view's table as CSV.
func (e *Engine) ExportCSV() ([]byte, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.view == nil {
		return nil, "", ErrNoBundle
	}
	out, err := e.exporter.CSV(e.view.Table)
	if err != nil {
		return nil, "", err
	}
	e.log.WithFields(logrus.Fields{"scenario": e.view.Scenario, "bytes": len(out)}).Info("[Engine] Exported CSV")
	return out, report.FileName(e.view.Scenario, "csv"), nil
}

// Close disposes the live chart.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.renderer != nil {
		e.renderer.Dispose(e.renderer.Current())
	}
}

// derive builds a view without touching engine state, except that a successful
// render replaces the renderer's live chart. Rendering runs last so a failed
// derivation leaves the previous chart intact.
func (e *Engine) derive(b *model.Bundle, sel model.Selection) (*View, error) {
	s, series, ind, err := scenario.Select(b, sel.WithBenefits, sel.WithLeasing)
	if err != nil {
		return nil, err
	}
	t, err := table.Build(b.BaseRows(), series)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s, err)
	}

	v := &View{
		Scenario:   s,
		Selection:  sel,
		Indicators: ind,
		Table:      t,
		Summary:    summaryView(b.Summary(), sel.WithBenefits),
	}
	if e.renderer == nil {
		return v, nil
	}

	h, err := e.renderer.Render(series, ind, s)
	switch {
	case errors.Is(err, chart.ErrEmptySeries):
		e.renderer.Dispose(e.renderer.Current())
	case err != nil:
		return nil, err
	case h == nil:
		// Surface not mounted: the old chart would show the wrong scenario.
		e.renderer.Dispose(e.renderer.Current())
	}
	v.Chart = h
	return v, nil
}

func summaryView(s model.Summary, withBenefits bool) SummaryView {
	v := SummaryView{
		TotalIncome:     s.TotalIncomeYear1,
		SelfConsumption: s.SelfConsumptionYear1,
		Surplus1:        s.Surplus1Year1,
		Surplus2:        s.Surplus2Year1,
	}
	if withBenefits {
		dep, inc, tot := s.DepreciationBenefitYear1, s.IncomeTaxBenefitYear1, s.TotalTaxBenefitYear1
		v.DepreciationBenefit = &dep
		v.IncomeTaxBenefit = &inc
		v.TotalTaxBenefit = &tot
	}
	return v
}
