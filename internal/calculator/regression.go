package calculator

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyDesign is returned when a regression is fitted on zero samples.
var ErrEmptyDesign = errors.New("regression needs at least one sample")

// LinearModel is an ordinary least squares fit: y = Intercept + Coef·x.
type LinearModel struct {
	Intercept float64
	Coef      []float64
}

// FitOLS fits y on the rows of x with an intercept.
//
// Columns and targets are centered, then solved with a thin SVD. Rank-deficient
// designs (constant or collinear columns) get the minimum-norm solution over the
// centered columns, and a constant column always ends up with a zero coefficient.
func FitOLS(x [][]float64, y []float64) (*LinearModel, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrEmptyDesign
	}
	if len(y) != n {
		return nil, fmt.Errorf("x has %d rows, y has %d values", n, len(y))
	}
	p := len(x[0])
	for i, row := range x {
		if len(row) != p {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), p)
		}
	}

	means := make([]float64, p)
	constant := make([]bool, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		constant[j] = true
		for i := range x {
			col[i] = x[i][j]
			if col[i] != col[0] {
				constant[j] = false
			}
		}
		means[j] = stat.Mean(col, nil)
	}

	z := mat.NewDense(n, max(p, 1), nil)
	for i, row := range x {
		for j, v := range row {
			if !constant[j] {
				z.Set(i, j, v-means[j])
			}
		}
	}
	yMean := stat.Mean(y, nil)
	yc := mat.NewVecDense(n, nil)
	for i, v := range y {
		yc.SetVec(i, v-yMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(z, mat.SVDThin); !ok {
		return nil, errors.New("svd factorization failed")
	}
	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// Same cutoff numpy's lstsq uses for its default rcond.
	tol := 0.0
	if len(values) > 0 {
		tol = values[0] * float64(max(n, p)) * 2.220446049250313e-16
	}

	k := len(values)
	uty := mat.NewVecDense(k, nil)
	uty.MulVec(u.T(), yc)
	for i := 0; i < k; i++ {
		if values[i] > tol {
			uty.SetVec(i, uty.AtVec(i)/values[i])
		} else {
			uty.SetVec(i, 0)
		}
	}
	_, vc := v.Dims()
	beta := mat.NewVecDense(max(p, 1), nil)
	if vc == k {
		beta.MulVec(&v, uty)
	}

	m := &LinearModel{Coef: make([]float64, p), Intercept: yMean}
	for j := 0; j < p; j++ {
		if constant[j] {
			continue
		}
		m.Coef[j] = beta.AtVec(j)
		m.Intercept -= m.Coef[j] * means[j]
	}
	return m, nil
}

// Predict evaluates the model for one feature row.
func (m *LinearModel) Predict(row []float64) float64 {
	out := m.Intercept
	for j, c := range m.Coef {
		if j < len(row) {
			out += c * row[j]
		}
	}
	return out
}

// PredictAll evaluates the model for every row.
func (m *LinearModel) PredictAll(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = m.Predict(row)
	}
	return out
}
