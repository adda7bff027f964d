package model_selection

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/dataset"
	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// rowDataset は i 行目の特徴量とラベルがともに i になるデータセット
func rowDataset(t *testing.T, n int) *dataset.Classification[int] {
	t.Helper()
	data := make([]float64, n)
	labels := make([]int, n)
	for i := range n {
		data[i] = float64(i)
		labels[i] = i
	}
	ds, err := dataset.NewClassification(mat.NewDense(n, 1, data), labels)
	require.NoError(t, err)
	return ds
}

func TestTrainTestSplit_Counts(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		testSize  float64
		wantTest  int
		wantTrain int
	}{
		{"quarter", 10, 0.25, 3, 7},
		{"exact", 10, 0.2, 2, 8},
		{"tiny fraction keeps one test row", 10, 0.01, 1, 9},
		{"large fraction keeps one train row", 10, 0.99, 9, 1},
		{"two rows", 2, 0.5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			train, test, err := TrainTestSplit(rowDataset(t, tt.n), tt.testSize, WithRandomSeed(1))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrain, train.Len())
			assert.Equal(t, tt.wantTest, test.Len())

			all := append(train.Labels(), test.Labels()...)
			sort.Ints(all)
			for i, v := range all {
				assert.Equal(t, i, v)
			}
		})
	}
}

func TestTrainTestSplit_KeepsRecordsTogether(t *testing.T) {
	train, test, err := TrainTestSplit(rowDataset(t, 20), 0.3, WithRandomSeed(7))
	require.NoError(t, err)
	for _, ds := range []*dataset.Classification[int]{train, test} {
		for i := 0; i < ds.Len(); i++ {
			r := ds.Record(i)
			assert.Equal(t, float64(r.Label), r.Features[0])
		}
	}
}

func TestTrainTestSplit_Seeded(t *testing.T) {
	ds := rowDataset(t, 50)
	_, a, err := TrainTestSplit(ds, 0.2, WithRandomSeed(42))
	require.NoError(t, err)
	_, b, err := TrainTestSplit(ds, 0.2, WithRandomSeed(42))
	require.NoError(t, err)
	assert.Equal(t, a.Labels(), b.Labels())

	_, c, err := TrainTestSplit(ds, 0.2, WithRandomSeed(43))
	require.NoError(t, err)
	assert.NotEqual(t, a.Labels(), c.Labels())
}

func TestTrainTestSplit_NoShuffle(t *testing.T) {
	train, test, err := TrainTestSplit(rowDataset(t, 5), 0.4, WithShuffle(false))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, train.Labels())
	assert.Equal(t, []int{3, 4}, test.Labels())
}

func TestTrainTestSplit_Errors(t *testing.T) {
	ds := rowDataset(t, 10)
	for _, size := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := TrainTestSplit(ds, size)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr), "test size %v", size)
	}

	_, _, err := TrainTestSplit(rowDataset(t, 1), 0.5)
	assert.ErrorIs(t, err, errors.ErrInsufficientSamples)

	_, _, err = TrainTestSplit[int](nil, 0.5)
	assert.ErrorIs(t, err, errors.ErrEmptyData)
}

func TestTrainTestSplitXY(t *testing.T) {
	n := 12
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := range n {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(-i))
		y.SetVec(i, float64(i))
	}

	XTrain, XTest, yTrain, yTest, err := TrainTestSplitXY(X, y, 0.25, WithRandomSeed(3))
	require.NoError(t, err)

	r, c := XTrain.Dims()
	assert.Equal(t, 9, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 3, yTest.Len())

	for i := 0; i < yTrain.Len(); i++ {
		assert.Equal(t, yTrain.AtVec(i), XTrain.At(i, 0))
		assert.Equal(t, -yTrain.AtVec(i), XTrain.At(i, 1))
	}
	for i := 0; i < yTest.Len(); i++ {
		assert.Equal(t, yTest.AtVec(i), XTest.At(i, 0))
	}

	_, _, _, _, err = TrainTestSplitXY(X, mat.NewVecDense(3, nil), 0.25)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestKFold(t *testing.T) {
	kf, err := NewKFold(3, WithRandomSeed(11))
	require.NoError(t, err)
	assert.Equal(t, 3, kf.NSplits())

	folds, err := kf.Split(mat.NewDense(10, 2, nil))
	require.NoError(t, err)
	require.Len(t, folds, 3)

	seen := make(map[int]int)
	for i, f := range folds {
		wantSize := 3
		if i == 0 {
			wantSize = 4
		}
		assert.Len(t, f.TestIndices, wantSize)
		assert.Len(t, f.TrainIndices, 10-wantSize)
		for _, idx := range f.TestIndices {
			seen[idx]++
			assert.NotContains(t, f.TrainIndices, idx)
		}
	}
	assert.Len(t, seen, 10)
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
}

func TestKFold_Errors(t *testing.T) {
	_, err := NewKFold(1)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	kf, err := NewKFold(5)
	require.NoError(t, err)
	_, err = kf.Split(mat.NewDense(3, 1, nil))
	assert.ErrorIs(t, err, errors.ErrInsufficientSamples)
}
