package chart

import (
	"bytes"
	"fmt"
	"testing"

	"fv-simulator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gochart "github.com/wcharczuk/go-chart/v2"
)

var series = []float64{-22000000, 1800000, 1900000, 2100000, 2300000, 2500000, 2700000, 3000000, 3200000}

func payback(y float64) model.Indicators {
	return model.Indicators{NetPresentValue: 1, PaybackYear: &y}
}

func TestRenderWithoutPaybackOmitsMarker(t *testing.T) {
	r := NewRenderer(NewCanvas(600, 300), DefaultOptions())
	h, err := r.Render(series, model.Indicators{}, model.ScenarioBase)
	require.NoError(t, err)
	require.NotNil(t, h)

	_, ok := h.Marker()
	assert.False(t, ok)
	assert.Len(t, h.chart.Series, 1, "only the cash-flow line is drawn")
}

func TestRenderWithPaybackDrawsMarker(t *testing.T) {
	r := NewRenderer(NewCanvas(600, 300), DefaultOptions())
	h, err := r.Render(series, payback(7), model.ScenarioBenefits)
	require.NoError(t, err)

	m, ok := h.Marker()
	require.True(t, ok)
	assert.Equal(t, 7.0, m.X)
	assert.Contains(t, m.Label, model.ScenarioBenefits.Label())

	require.Len(t, h.chart.Series, 3)
	line, ok := h.chart.Series[1].(gochart.ContinuousSeries)
	require.True(t, ok)
	assert.Equal(t, []float64{7, 7}, line.XValues)
}

func TestRenderPaybackAtYearZeroIsDrawn(t *testing.T) {
	r := NewRenderer(NewCanvas(600, 300), DefaultOptions())
	h, err := r.Render(series, payback(0), model.ScenarioLeasing)
	require.NoError(t, err)
	m, ok := h.Marker()
	require.True(t, ok)
	assert.Equal(t, 0.0, m.X)
}

func TestRenderDisposesPreviousHandle(t *testing.T) {
	r := NewRenderer(NewCanvas(600, 300), DefaultOptions())
	assert.Equal(t, StateUninitialized, r.State())

	first, err := r.Render(series, payback(7), model.ScenarioBenefits)
	require.NoError(t, err)
	assert.Equal(t, StateRendered, r.State())

	second, err := r.Render(series, model.Indicators{}, model.ScenarioBase)
	require.NoError(t, err)

	assert.Equal(t, StateDisposed, first.State())
	assert.Equal(t, StateRendered, second.State())
	assert.Same(t, second, r.Current())
	assert.NotEqual(t, first.ID(), second.ID())

	_, err = first.Snapshot()
	assert.ErrorIs(t, err, ErrDisposed)
}

func TestDispose(t *testing.T) {
	r := NewRenderer(NewCanvas(600, 300), DefaultOptions())
	h, err := r.Render(series, model.Indicators{}, model.ScenarioBase)
	require.NoError(t, err)

	r.Dispose(h)
	assert.Equal(t, StateDisposed, h.State())
	assert.Equal(t, StateDisposed, r.State())
	assert.Nil(t, r.Current())

	// Second dispose is harmless.
	r.Dispose(h)
	r.Dispose(nil)
}

func TestRenderUnmountedSurfaceIsNoop(t *testing.T) {
	c := &Canvas{}
	r := NewRenderer(c, DefaultOptions())

	h, err := r.Render(series, payback(7), model.ScenarioBase)
	assert.NoError(t, err)
	assert.Nil(t, h)
	assert.Equal(t, StateUninitialized, r.State())

	c.Mount(600, 300)
	h, err = r.Render(series, payback(7), model.ScenarioBase)
	require.NoError(t, err)
	require.NotNil(t, h)

	// Unmounting keeps the live chart; the next render is deferred.
	c.Unmount()
	again, err := r.Render(series, model.Indicators{}, model.ScenarioLeasing)
	assert.NoError(t, err)
	assert.Nil(t, again)
	assert.Equal(t, StateRendered, h.State())
}

func TestRenderNilSurface(t *testing.T) {
	r := NewRenderer(nil, DefaultOptions())
	h, err := r.Render(series, model.Indicators{}, model.ScenarioBase)
	assert.NoError(t, err)
	assert.Nil(t, h)
}

func TestRenderEmptySeries(t *testing.T) {
	r := NewRenderer(NewCanvas(600, 300), DefaultOptions())
	_, err := r.Render(nil, model.Indicators{}, model.ScenarioBase)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestColorsStablePerScenario(t *testing.T) {
	r := NewRenderer(NewCanvas(600, 300), DefaultOptions())
	seen := map[string]model.Scenario{}
	for _, s := range model.All() {
		h1, err := r.Render(series, model.Indicators{}, s)
		require.NoError(t, err)
		h2, err := r.Render(series, model.Indicators{}, s)
		require.NoError(t, err)
		assert.Equal(t, h1.Color(), h2.Color())

		key := fmt.Sprintf("%v", h1.Color())
		_, dup := seen[key]
		assert.False(t, dup, "scenario %s shares a colour", s)
		seen[key] = s
	}
}

func TestSnapshotPNG(t *testing.T) {
	r := NewRenderer(NewCanvas(600, 300), DefaultOptions())
	for _, tc := range []struct {
		name   string
		series []float64
		ind    model.Indicators
	}{
		{"full horizon with marker", series, payback(7)},
		{"single year", []float64{-5}, model.Indicators{}},
		{"flat series", []float64{3, 3, 3}, model.Indicators{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h, err := r.Render(tc.series, tc.ind, model.ScenarioBase)
			require.NoError(t, err)
			png, err := h.Snapshot()
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
		})
	}
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks(3)
	require.Len(t, ticks, 3)
	assert.Equal(t, "Año 0", ticks[0].Label)
	assert.Equal(t, "Año 2", ticks[2].Label)

	long := yearTicks(26)
	assert.Less(t, len(long), 26)
	assert.Equal(t, "Año 0", long[0].Label)
}
