// Package dataset wraps the gota data frame for the CSV files exchanged by the
// pipeline stages: reading, writing, column checks and conversion of numeric
// columns into gonum matrices.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
)

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("dataset: missing column")

// ErrNaN is returned when a numeric column holds missing or unparseable values.
var ErrNaN = errors.New("dataset: input contains NaN")

// nullTokens are read as missing values.
var nullTokens = []string{"", "NA", "NaN", "N/A", "nan", "null", "<nil>"}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// ReadCSV loads a CSV file with a header row. Column types are detected by
// gota; the null tokens above become NA.
func ReadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer func() { _ = f.Close() }()
	df := dataframe.ReadCSV(f, dataframe.NaNValues(nullTokens))
	if df.Err != nil {
		return df, fmt.Errorf("read %s: %w", path, df.Err)
	}
	return df, nil
}

// WriteCSV writes df with a header row, creating parent directories and
// replacing any existing file. Float columns keep full precision; gota's own
// writer rounds them to six decimals.
func WriteCSV(path string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(Records(df)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Records renders df as CSV records, header first. Float values use the
// shortest representation that reads back to the same number; missing
// values are written as NaN.
func Records(df dataframe.DataFrame) [][]string {
	names := df.Names()
	n := df.Nrow()
	out := make([][]string, n+1)
	out[0] = names
	for i := 1; i <= n; i++ {
		out[i] = make([]string, len(names))
	}
	for j, name := range names {
		col := df.Col(name)
		if col.Type() == series.Float {
			for i, v := range col.Float() {
				out[i+1][j] = strconv.FormatFloat(v, 'f', -1, 64)
			}
			continue
		}
		for i, v := range col.Records() {
			out[i+1][j] = v
		}
	}
	return out
}

// Has reports whether df has a column called name.
func Has(df dataframe.DataFrame, name string) bool {
	return slices.Contains(df.Names(), name)
}

// Without returns the column names of df except the excluded ones, in order.
func Without(df dataframe.DataFrame, exclude ...string) []string {
	var out []string
	for _, n := range df.Names() {
		if !slices.Contains(exclude, n) {
			out = append(out, n)
		}
	}
	return out
}

// Floats returns a column as float64 values; NA becomes NaN.
func Floats(df dataframe.DataFrame, name string) ([]float64, error) {
	if !Has(df, name) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return df.Col(name).Float(), nil
}

// Matrix assembles the named columns into an n x len(cols) matrix. Every
// value must be a finite number.
func Matrix(df dataframe.DataFrame, cols []string) (*mat.Dense, error) {
	n := df.Nrow()
	if n == 0 || len(cols) == 0 {
		return nil, fmt.Errorf("dataset: cannot build a %dx%d matrix", n, len(cols))
	}
	m := mat.NewDense(n, len(cols), nil)
	for j, c := range cols {
		vals, err := Floats(df, c)
		if err != nil {
			return nil, err
		}
		if err := checkFinite(c, vals); err != nil {
			return nil, err
		}
		m.SetCol(j, vals)
	}
	return m, nil
}

// Target returns a numeric column that must be fully populated.
func Target(df dataframe.DataFrame, name string) ([]float64, error) {
	vals, err := Floats(df, name)
	if err != nil {
		return nil, err
	}
	return vals, checkFinite(name, vals)
}

func checkFinite(name string, vals []float64) error {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: column %s row %d", ErrNaN, name, i)
		}
	}
	return nil
}
