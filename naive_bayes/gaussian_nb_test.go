package naive_bayes

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/dataset"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

// 2クラスが交互に並ぶ訓練データ。初出は "b"
func interleavedFixture() (*mat.Dense, []string) {
	X := mat.NewDense(6, 2, []float64{
		10, 11,
		1, 2,
		11, 13,
		2, 3,
		12, 12,
		3, 1,
	})
	return X, []string{"b", "a", "b", "a", "b", "a"}
}

func quietLogger() log.Logger {
	l, _ := log.NewTestLogger(log.LevelError)
	return l
}

func TestGaussianNB_FitStatistics(t *testing.T) {
	X, y := interleavedFixture()

	m, err := NewGaussianNB[string](WithLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, m.Labels())
	assert.Equal(t, []int{3, 3}, m.ClassCounts())
	assert.Equal(t, []float64{0.5, 0.5}, m.Priors())
	assert.Equal(t, 2, m.NFeatures())
	assert.Equal(t, model.SampleVariance, m.VarianceConvention())

	assert.True(t, mat.EqualApprox(mat.NewDense(2, 2, []float64{11, 12, 2, 2}), m.Means(), 1e-12))
	assert.True(t, mat.EqualApprox(mat.NewDense(2, 2, []float64{1, 1, 1, 1}), m.Variances(), 1e-12))
}

func TestGaussianNB_PopulationVariance(t *testing.T) {
	X, y := interleavedFixture()

	m, err := NewGaussianNB[string](
		WithVarianceConvention(model.PopulationVariance),
		WithLogger(quietLogger()),
	).Fit(X, y)
	require.NoError(t, err)

	v := m.Variances()
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, 2.0/3.0, v.At(k, j), 1e-12)
		}
	}
}

func TestGaussianNB_DoesNotMutateInput(t *testing.T) {
	X, y := interleavedFixture()
	before := mat.DenseCopyOf(X)
	labels := append([]string(nil), y...)

	_, err := NewGaussianNB[string](WithLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)

	assert.True(t, mat.Equal(before, X))
	assert.Equal(t, labels, y)
}

func TestGaussianNB_Predict(t *testing.T) {
	X, y := interleavedFixture()
	m, err := NewGaussianNB[string](WithLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)

	got, err := m.Predict(mat.NewDense(3, 2, []float64{
		2, 2,
		11, 12,
		0, 0,
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a"}, got)
}

func TestGaussianNB_ProbabilityValues(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 10, 11, 12})
	y := []string{"A", "A", "A", "B", "B", "B"}
	m, err := NewGaussianNB[string](WithLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)

	query := mat.NewDense(1, 1, []float64{2})

	jll, err := m.JointLogLikelihood(query)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.5)-0.5*math.Log(2*math.Pi), jll.At(0, 0), 1e-12)
	assert.InDelta(t, math.Log(0.5)-0.5*math.Log(2*math.Pi)-40.5, jll.At(0, 1), 1e-12)

	proba, err := m.PredictProba(query)
	require.NoError(t, err)
	assert.InEpsilon(t, math.Exp(-40.5), proba.At(0, 1), 1e-9)
	assert.InDelta(t, 1.0, proba.At(0, 0), 1e-12)

	logProba, err := m.PredictLogProba(query)
	require.NoError(t, err)
	assert.InDelta(t, -40.5, logProba.At(0, 1), 1e-9)
}

func TestGaussianNB_TieGoesToFirstLabel(t *testing.T) {
	tests := []struct {
		name string
		X    []float64
		y    []string
		want string
	}{
		{"A seen first", []float64{1, 2, 3, 10, 11, 12}, []string{"A", "A", "A", "B", "B", "B"}, "A"},
		{"B seen first", []float64{10, 11, 12, 1, 2, 3}, []string{"B", "B", "B", "A", "A", "A"}, "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewGaussianNB[string](WithLogger(quietLogger())).Fit(mat.NewDense(6, 1, tt.X), tt.y)
			require.NoError(t, err)

			query := mat.NewDense(1, 1, []float64{6.5})
			proba, err := m.PredictProba(query)
			require.NoError(t, err)
			assert.Equal(t, proba.At(0, 0), proba.At(0, 1))

			got, err := m.Predict(query)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, got)
		})
	}
}

func TestGaussianNB_ProbaRowsSumToOne(t *testing.T) {
	const perClass, nFeatures = 50, 4
	centers := []float64{-3, 0, 4}

	X := mat.NewDense(perClass*len(centers), nFeatures, nil)
	y := make([]int, 0, perClass*len(centers))
	for c, mu := range centers {
		dist := distuv.Normal{Mu: mu, Sigma: 1.5}
		for i := 0; i < perClass; i++ {
			row := c*perClass + i
			for j := 0; j < nFeatures; j++ {
				X.Set(row, j, dist.Rand())
			}
			y = append(y, c)
		}
	}

	m, err := NewGaussianNB[int](WithLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)

	proba, err := m.PredictProba(X)
	require.NoError(t, err)
	rows, cols := proba.Dims()
	assert.Equal(t, len(y), rows)
	assert.Equal(t, len(centers), cols)
	for i := 0; i < rows; i++ {
		assert.InDelta(t, 1.0, floats.Sum(proba.RawRowView(i)), 1e-9)
	}

	// 遠方の点でも exp のアンダーフローで NaN にならない
	far, err := m.PredictProba(mat.NewDense(1, nFeatures, []float64{1e3, 1e3, 1e3, 1e3}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, floats.Sum(far.RawRowView(0)), 1e-9)
}

func TestGaussianNB_FitErrors(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		X        *mat.Dense
		y        []string
		sentinel error
	}{
		{
			name:     "single row class under sample variance",
			X:        mat.NewDense(3, 1, []float64{1, 2, 5}),
			y:        []string{"a", "a", "b"},
			sentinel: errors.ErrInsufficientSamples,
		},
		{
			name:     "single row class under population variance",
			opts:     []Option{WithVarianceConvention(model.PopulationVariance)},
			X:        mat.NewDense(3, 1, []float64{1, 2, 5}),
			y:        []string{"a", "a", "b"},
			sentinel: errors.ErrZeroVariance,
		},
		{
			name:     "constant feature within a class",
			X:        mat.NewDense(4, 2, []float64{1, 7, 2, 7, 5, 1, 6, 2}),
			y:        []string{"a", "a", "b", "b"},
			sentinel: errors.ErrZeroVariance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithLogger(quietLogger())}, tt.opts...)
			m, err := NewGaussianNB[string](opts...).Fit(tt.X, tt.y)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tt.sentinel)

			var modelErr *errors.ModelError
			assert.True(t, errors.As(err, &modelErr))
		})
	}
}

func TestGaussianNB_InputValidation(t *testing.T) {
	nb := NewGaussianNB[string](WithLogger(quietLogger()))

	_, err := nb.Fit(mat.NewDense(2, 1, []float64{1, 2}), []string{"a"})
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 0, dimErr.Axis)

	_, err = nb.Fit(nil, nil)
	assert.ErrorIs(t, err, errors.ErrEmptyData)

	_, err = nb.Fit(mat.NewDense(2, 1, []float64{1, math.NaN()}), []string{"a", "a"})
	var numErr *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &numErr))

	_, err = NewGaussianNB[string](WithVarianceConvention(9)).Fit(mat.NewDense(2, 1, []float64{1, 2}), []string{"a", "a"})
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestGaussianNBModel_ShapeMismatch(t *testing.T) {
	X, y := interleavedFixture()
	m, err := NewGaussianNB[string](WithLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)

	_, err = m.PredictProba(mat.NewDense(1, 3, []float64{1, 2, 3}))
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)
}

func TestGaussianNBModel_ZeroValueIsNotFitted(t *testing.T) {
	var m GaussianNBModel[string]
	_, err := m.Predict(mat.NewDense(1, 1, []float64{1}))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestGaussianNB_FitDataset(t *testing.T) {
	X, y := interleavedFixture()
	ds, err := dataset.NewClassification(X, y)
	require.NoError(t, err)

	m, err := NewGaussianNB[string](WithLogger(quietLogger())).FitDataset(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, m.Labels())

	_, err = NewGaussianNB[string]().FitDataset(nil)
	assert.ErrorIs(t, err, errors.ErrEmptyData)
}

func TestGaussianNB_Logging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	X, y := interleavedFixture()

	m, err := NewGaussianNB[string](WithLogger(logger)).Fit(X, y)
	require.NoError(t, err)
	_, err = m.PredictProba(X)
	require.NoError(t, err)

	assert.True(t, logger.ContainsMessage("Training started"))
	assert.True(t, logger.ContainsMessage("Training completed"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "GaussianNB"))
	assert.True(t, logger.ContainsField(log.ClassesKey, 2.0))
	assert.True(t, logger.ContainsField(log.PredsKey, 6.0))

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	id := entries[0][log.EstimatorIDKey]
	assert.NotEmpty(t, id)
	for _, e := range entries {
		assert.Equal(t, id, e[log.EstimatorIDKey])
	}
}

func TestGaussianNBModel_GobRoundTrip(t *testing.T) {
	X, y := interleavedFixture()
	m, err := NewGaussianNB[string](WithLogger(quietLogger())).Fit(X, y)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter(m, &buf))

	var loaded GaussianNBModel[string]
	require.NoError(t, model.LoadModelFromReader(&loaded, &buf))

	assert.Equal(t, m.Labels(), loaded.Labels())
	assert.True(t, mat.Equal(m.Means(), loaded.Means()))

	want, err := m.PredictProba(X)
	require.NoError(t, err)
	got, err := loaded.PredictProba(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))

	var empty GaussianNBModel[string]
	assert.Error(t, model.SaveModelToWriter(&empty, &bytes.Buffer{}))
}
