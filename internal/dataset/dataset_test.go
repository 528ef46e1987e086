package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "frame.csv")
	df := dataframe.LoadRecords([][]string{
		{"a", "b", "label"},
		{"1", "2.5", "x"},
		{"3", "4.5", "y"},
	})
	require.NoError(t, WriteCSV(path, df))
	assert.True(t, Exists(path))
	assert.False(t, Exists(filepath.Dir(path)))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "label"}, got.Names())
	assert.Equal(t, 2, got.Nrow())
	assert.Equal(t, []float64{2.5, 4.5}, got.Col("b").Float())
}

func TestWriteCSV_KeepsFloatPrecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "precise.csv")
	df := dataframe.New(
		series.New([]float64{1.0000002, 179.9999998, 0.0000004}, series.Float, "v"),
		series.New([]int{1, 2, 3}, series.Int, "n"),
	)
	require.NoError(t, WriteCSV(path, df))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v,n\n1.0000002,1\n179.9999998,2\n0.0000004,3\n", string(raw))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0000002, 179.9999998, 0.0000004}, got.Col("v").Float())
}

func TestReadCSV_Missing(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestColumns(t *testing.T) {
	df := dataframe.LoadRecords([][]string{{"a", "b", "c"}, {"1", "2", "3"}})
	assert.True(t, Has(df, "b"))
	assert.False(t, Has(df, "z"))
	assert.Equal(t, []string{"a", "c"}, Without(df, "b", "z"))

	_, err := Floats(df, "z")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestMatrix(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"x1", "x2", "name"},
		{"1", "10", "a"},
		{"2", "20", "b"},
		{"3", "30", "c"},
	})
	m, err := Matrix(df, []string{"x2", "x1"})
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 20.0, m.At(1, 0))
	assert.Equal(t, 3.0, m.At(2, 1))

	_, err = Matrix(df, []string{"x1", "name"})
	assert.ErrorIs(t, err, ErrNaN)
	_, err = Matrix(df, []string{"missing"})
	assert.ErrorIs(t, err, ErrMissingColumn)
	_, err = Matrix(df, nil)
	assert.Error(t, err)
}

func TestTarget(t *testing.T) {
	df := dataframe.LoadRecords([][]string{{"y", "bad"}, {"1.5", "q"}, {"2.5", "r"}})
	y, err := Target(df, "y")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5}, y)

	_, err = Target(df, "bad")
	assert.ErrorIs(t, err, ErrNaN)
}
