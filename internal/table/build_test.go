package table

import (
	"errors"
	"math/rand"
	"testing"

	"fv-simulator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRows(n int) model.Table {
	t := model.Table{Columns: []string{model.ColumnYear, "ingresos", model.ColumnNetFlow, model.ColumnCumulativeFlow}}
	for i := 0; i < n; i++ {
		t.Rows = append(t.Rows, model.Row{
			model.ColumnYear:           float64(i),
			"ingresos":                 float64(1000 * i),
			model.ColumnNetFlow:        999.0,
			model.ColumnCumulativeFlow: 123456.0,
		})
	}
	return t
}

func TestBuildReferenceProject(t *testing.T) {
	out, err := Build(baseRows(3), []float64{-22000000, 1800000, 1900000})
	require.NoError(t, err)

	assert.Equal(t, []float64{-22000000, 1800000, 1900000}, Column(out, model.ColumnNetFlow))
	assert.Equal(t, []float64{-22000000, -20200000, -18300000}, Column(out, model.ColumnCumulativeFlow))
	assert.Equal(t, []float64{0, 1, 2}, Column(out, model.ColumnYear))
	assert.Equal(t, []float64{0, 1000, 2000}, Column(out, "ingresos"))
}

func TestBuildCumulativeSum(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 0; n < 30; n++ {
		series := make([]float64, n)
		for i := range series {
			// Whole numbers keep the running sum exact.
			series[i] = float64(r.Intn(2000000) - 1000000)
		}
		out, err := Build(baseRows(n), series)
		require.NoError(t, err)

		sum := 0.0
		for i, row := range out.Rows {
			sum += series[i]
			assert.Equal(t, series[i], row[model.ColumnNetFlow])
			assert.Equal(t, sum, row[model.ColumnCumulativeFlow])
		}
	}
}

func TestBuildLengthMismatch(t *testing.T) {
	out, err := Build(baseRows(3), []float64{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSeriesLengthMismatch))
	assert.Empty(t, out.Rows)
	assert.Empty(t, out.Columns)

	var mismatch *SeriesLengthMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 3, mismatch.Rows)
	assert.Equal(t, 2, mismatch.Series)
}

func TestBuildLongerSeriesIsAccepted(t *testing.T) {
	out, err := Build(baseRows(2), []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, out.Rows, 2)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	in := baseRows(2)
	_, err := Build(in, []float64{5, 6})
	require.NoError(t, err)
	assert.Equal(t, 999.0, in.Rows[0][model.ColumnNetFlow])
	assert.Equal(t, 123456.0, in.Rows[1][model.ColumnCumulativeFlow])
}

func TestBuildRecomputationIndependence(t *testing.T) {
	rows := baseRows(4)
	a := []float64{-100, 10, 20, 30}
	b := []float64{-50, 60, 70, 80}

	first, err := Build(rows, a)
	require.NoError(t, err)
	_, err = Build(rows, b)
	require.NoError(t, err)
	again, err := Build(rows, a)
	require.NoError(t, err)

	assert.Equal(t, first, again)
}

func TestBuildAddsMissingColumns(t *testing.T) {
	in := model.Table{
		Columns: []string{model.ColumnYear},
		Rows:    []model.Row{{model.ColumnYear: 0.0}},
	}
	out, err := Build(in, []float64{-5})
	require.NoError(t, err)
	assert.Equal(t, []string{model.ColumnYear, model.ColumnNetFlow, model.ColumnCumulativeFlow}, out.Columns)
	assert.Equal(t, []string{model.ColumnYear}, in.Columns)
}
