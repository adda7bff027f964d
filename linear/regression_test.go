package linear

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

func quietLogger() log.Logger {
	l, _ := log.NewTestLogger(log.LevelError)
	return l
}

func TestOLS_RecoversNoisyLine(t *testing.T) {
	// y = 2x + 1 に小さなノイズ
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewVecDense(4, []float64{1.1, 2.9, 5.2, 6.9})

	m, err := NewOrdinaryLeastSquares(WithOLSLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)

	pred, err := m.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		x := X.At(i, 0)
		assert.InDelta(t, 2*x+1, pred.AtVec(i), 1.0)
	}

	assert.InDelta(t, 2.0, m.Coefficients()[0], 0.2)
	assert.InDelta(t, 1.0, m.Intercept(), 0.3)
}

func TestOLS_ExactFit(t *testing.T) {
	// y = 3a - 2b + 0.5
	X := mat.NewDense(5, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
		2, 3,
		-1, 4,
	})
	y := mat.NewVecDense(5, nil)
	for i := 0; i < 5; i++ {
		y.SetVec(i, 3*X.At(i, 0)-2*X.At(i, 1)+0.5)
	}

	m, err := NewOrdinaryLeastSquares(WithOLSLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{3, -2}, m.Coefficients(), 1e-9)
	assert.InDelta(t, 0.5, m.Intercept(), 1e-9)

	beta := m.Beta()
	assert.Equal(t, 3, beta.Len())
	assert.InDelta(t, 0.5, beta.AtVec(2), 1e-9)

	r2, err := m.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-12)
}

func TestOLS_ParallelMatchesSequential(t *testing.T) {
	X, y := syntheticRegression(300, 4)

	seq, err := NewOrdinaryLeastSquares(WithOLSLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)
	par, err := NewOrdinaryLeastSquares(WithOLSLogger(quietLogger()), WithParallelThreshold(0)).Fit(X, y)
	require.NoError(t, err)

	assert.True(t, mat.Equal(seq.Beta(), par.Beta()))

	p1, err := seq.Predict(X)
	require.NoError(t, err)
	p2, err := par.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(p1, p2))
}

func TestOLS_SingularGram(t *testing.T) {
	tests := []struct {
		name string
		X    *mat.Dense
	}{
		{
			name: "collinear columns",
			X:    mat.NewDense(4, 2, []float64{1, 2, 2, 4, 3, 6, 4, 8}),
		},
		{
			name: "column collinear with intercept",
			X:    mat.NewDense(3, 2, []float64{1, 5, 2, 5, 3, 5}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := tt.X.Dims()
			y := mat.NewVecDense(r, nil)
			for i := 0; i < r; i++ {
				y.SetVec(i, float64(i))
			}
			m, err := NewOrdinaryLeastSquares(WithOLSLogger(quietLogger())).Fit(tt.X, y)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, errors.ErrSingularMatrix)
		})
	}
}

func TestOLS_InputValidation(t *testing.T) {
	ols := NewOrdinaryLeastSquares(WithOLSLogger(quietLogger()))

	_, err := ols.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4}), mat.NewVecDense(2, []float64{1, 2}))
	assert.ErrorIs(t, err, errors.ErrInsufficientSamples)

	_, err = ols.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewVecDense(2, []float64{1, 2}))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = ols.Fit(nil, nil)
	assert.ErrorIs(t, err, errors.ErrEmptyData)

	_, err = ols.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewVecDense(3, []float64{1, math.Inf(1), 3}))
	var numErr *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &numErr))
}

func TestOLSModel_PredictErrors(t *testing.T) {
	m, err := NewOrdinaryLeastSquares(WithOLSLogger(quietLogger())).Fit(
		mat.NewDense(3, 1, []float64{0, 1, 2}), mat.NewVecDense(3, []float64{1, 3, 5}))
	require.NoError(t, err)

	_, err = m.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	var zero OLSModel
	_, err = zero.Predict(mat.NewDense(1, 1, []float64{1}))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestOLSModel_WeightsRoundTrip(t *testing.T) {
	m, err := NewOrdinaryLeastSquares(WithOLSLogger(quietLogger())).Fit(
		mat.NewDense(3, 1, []float64{0, 1, 2}), mat.NewVecDense(3, []float64{1, 3, 5}))
	require.NoError(t, err)

	w, err := m.ExportWeights()
	require.NoError(t, err)
	data, err := w.ToJSON()
	require.NoError(t, err)

	var decoded model.ModelWeights
	require.NoError(t, decoded.FromJSON(data))
	restored, err := ImportWeights(&decoded, WithOLSLogger(quietLogger()))
	require.NoError(t, err)

	assert.InDeltaSlice(t, m.Coefficients(), restored.Coefficients(), 1e-12)
	assert.InDelta(t, m.Intercept(), restored.Intercept(), 1e-12)

	pred, err := restored.Predict(mat.NewDense(1, 1, []float64{10}))
	require.NoError(t, err)
	assert.InDelta(t, 21.0, pred.AtVec(0), 1e-9)

	decoded.ModelType = "GaussianNB"
	_, err = ImportWeights(&decoded)
	assert.Error(t, err)
}

func TestOLSModel_GobRoundTrip(t *testing.T) {
	X, y := syntheticRegression(50, 3)
	m, err := NewOrdinaryLeastSquares(WithOLSLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter(m, &buf))
	var loaded OLSModel
	require.NoError(t, model.LoadModelFromReader(&loaded, &buf))

	assert.True(t, mat.Equal(m.Beta(), loaded.Beta()))
	assert.Equal(t, 3, loaded.NFeatures())
}

func TestOLS_Logging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	X, y := syntheticRegression(20, 2)

	m, err := NewOrdinaryLeastSquares(WithOLSLogger(logger)).Fit(X, y)
	require.NoError(t, err)
	_, err = m.Score(X, y)
	require.NoError(t, err)

	assert.True(t, logger.ContainsMessage("Training completed"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "OrdinaryLeastSquares"))
	assert.True(t, logger.ContainsField(log.OperationKey, log.OperationScore))
}
