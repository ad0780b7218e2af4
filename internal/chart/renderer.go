// Package chart renders a scenario's yearly cash flow as a line chart with a
// payback marker.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"fv-simulator/internal/model"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	ErrDisposed    = errors.New("chart handle disposed")
	ErrEmptySeries = errors.New("series is empty")
)

// State is the lifecycle of a renderer or of one chart handle.
type State int

const (
	StateUninitialized State = iota
	StateRendered
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRendered:
		return "rendered"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configure the chart text and value formatting.
type Options struct {
	Title        string
	CurrencyCode string
	// FormatValue renders y-axis tick values. Defaults to %.0f.
	FormatValue func(float64) string
}

// DefaultOptions matches the project chart of the simulator UI.
func DefaultOptions() Options {
	return Options{
		Title:        "Flujo de Caja Anual del Proyecto",
		CurrencyCode: "COP",
	}
}

// Marker is the vertical payback line.
type Marker struct {
	X     float64
	Label string
}

// Handle is one rendered chart. It stays valid until the renderer disposes it,
// either explicitly or by rendering a new chart on the same surface.
type Handle struct {
	id       int
	scenario model.Scenario
	series   []float64
	marker   *Marker
	color    drawing.Color
	chart    gochart.Chart
	state    State
	png      []byte
}

func (h *Handle) ID() int                  { return h.id }
func (h *Handle) Scenario() model.Scenario { return h.scenario }
func (h *Handle) State() State             { return h.state }
func (h *Handle) Color() drawing.Color     { return h.color }

// Series returns a copy of the plotted values.
func (h *Handle) Series() []float64 { return append([]float64(nil), h.series...) }

// Marker returns the payback marker, if one was drawn.
func (h *Handle) Marker() (Marker, bool) {
	if h.marker == nil {
		return Marker{}, false
	}
	return *h.marker, true
}

// Snapshot rasterizes the chart to PNG.
func (h *Handle) Snapshot() ([]byte, error) {
	if h.state == StateDisposed {
		return nil, ErrDisposed
	}
	if h.png == nil {
		var buf bytes.Buffer
		if err := h.chart.Render(gochart.PNG, &buf); err != nil {
			return nil, fmt.Errorf("render png: %w", err)
		}
		h.png = buf.Bytes()
	}
	return append([]byte(nil), h.png...), nil
}

// Renderer is the exclusive owner of one Surface. At most one Handle is live
// at a time. A Renderer is not safe for concurrent use; callers serialize.
type Renderer struct {
	surface Surface
	opts    Options
	current *Handle
	state   State
	nextID  int
}

// NewRenderer returns a renderer drawing on surface.
func NewRenderer(surface Surface, opts Options) *Renderer {
	if opts.FormatValue == nil {
		opts.FormatValue = func(v float64) string { return fmt.Sprintf("%.0f", v) }
	}
	return &Renderer{surface: surface, opts: opts}
}

// State reports Uninitialized before the first render, Rendered while a handle
// is live and Disposed after the live handle was released.
func (r *Renderer) State() State { return r.state }

// Current returns the live handle, or nil.
func (r *Renderer) Current() *Handle { return r.current }

// Render draws series for scenario s. If the surface is not mounted it does
// nothing and returns a nil handle and nil error; the caller renders again once
// the surface is available. Any live handle is disposed before the new chart
// is created.
func (r *Renderer) Render(series []float64, ind model.Indicators, s model.Scenario) (*Handle, error) {
	if r.surface == nil || !r.surface.Mounted() {
		return nil, nil
	}
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	if r.current != nil {
		r.Dispose(r.current)
	}

	w, hgt := r.surface.Size()
	r.nextID++
	h := &Handle{
		id:       r.nextID,
		scenario: s,
		series:   append([]float64(nil), series...),
		color:    ColorFor(s),
		state:    StateRendered,
	}
	if ind.PaybackYear != nil {
		h.marker = &Marker{X: *ind.PaybackYear, Label: "Payback " + s.Label()}
	}
	h.chart = r.build(h, w, hgt)

	r.current = h
	r.state = StateRendered
	return h, nil
}

// Dispose releases h. Disposing an already disposed handle is a no-op.
func (r *Renderer) Dispose(h *Handle) {
	if h == nil || h.state == StateDisposed {
		return
	}
	h.state = StateDisposed
	h.png = nil
	if r.current == h {
		r.current = nil
		r.state = StateDisposed
	}
}

func (r *Renderer) build(h *Handle, width, height int) gochart.Chart {
	n := len(h.series)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	minY, maxY := yBounds(h.series)
	maxX := float64(n - 1)
	if h.marker != nil && h.marker.X > maxX {
		maxX = h.marker.X
	}
	if maxX <= 0 {
		// Keep a non-zero x range so a single year still renders.
		maxX = 1
	}

	fill := h.color.WithAlpha(48)
	series := []gochart.Series{
		gochart.ContinuousSeries{
			Name:    h.scenario.Label(),
			XValues: xs,
			YValues: h.series,
			Style: gochart.Style{
				StrokeColor: h.color,
				StrokeWidth: 2,
				FillColor:   fill,
				DotColor:    h.color,
				DotWidth:    4,
			},
		},
	}
	if h.marker != nil {
		markerColor := MarkerColorFor(h.scenario)
		series = append(series,
			gochart.ContinuousSeries{
				Name:    h.marker.Label,
				XValues: []float64{h.marker.X, h.marker.X},
				YValues: []float64{minY, maxY},
				Style: gochart.Style{
					StrokeColor: markerColor,
					StrokeWidth: 2,
				},
			},
			gochart.AnnotationSeries{
				Annotations: []gochart.Value2{
					{XValue: h.marker.X, YValue: maxY, Label: h.marker.Label},
				},
			},
		)
	}

	format := r.opts.FormatValue
	ch := gochart.Chart{
		Title:  r.opts.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:  "Año",
			Ticks: yearTicks(n),
			Range: &gochart.ContinuousRange{Min: 0, Max: maxX},
		},
		YAxis: gochart.YAxis{
			Name:  r.opts.CurrencyCode,
			Range: &gochart.ContinuousRange{Min: minY, Max: maxY},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return format(f)
				}
				return ""
			},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch
}

// yearTicks labels the x axis "Año N", thinning labels on long horizons.
func yearTicks(n int) []gochart.Tick {
	step := 1
	if n > 13 {
		step = int(math.Ceil(float64(n) / 12))
	}
	ticks := make([]gochart.Tick, 0, n/step+2)
	for i := 0; i < n; i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: YearLabel(i)})
	}
	if n == 1 {
		ticks = append(ticks, gochart.Tick{Value: 1, Label: ""})
	}
	return ticks
}

// YearLabel is the x-axis label of year i.
func YearLabel(i int) string { return fmt.Sprintf("Año %d", i) }

func yBounds(series []float64) (float64, float64) {
	minY, maxY := series[0], series[0]
	for _, v := range series[1:] {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	if maxY <= minY {
		return minY - 1, maxY + 1
	}
	pad := (maxY - minY) * 0.05
	return minY - pad, maxY + pad
}
