// Package model_selection はデータセットの学習用・評価用への分割を提供します。
package model_selection

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/dataset"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

// permutation は 0..n-1 の添字列を返す。shuffle が有効なら PCG で並べ替える
func (c splitConfig) permutation(op string, n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if !c.shuffle {
		return indices
	}

	seed := c.seed
	if !c.seeded {
		seed = rand.Uint64()
	}
	log.GetLoggerWithName("model_selection").Debug("Shuffling rows",
		log.OperationKey, op,
		log.SamplesKey, n,
		log.RandomSeedKey, seed,
	)

	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}

// splitIndices は ceil(testSize*n) 件を評価用に、残りを学習用に割り当てる。
// どちらの側にも最低1件は残る
func splitIndices(op string, n int, testSize float64, cfg splitConfig) (train, test []int, err error) {
	if !(testSize > 0 && testSize < 1) {
		return nil, nil, errors.NewValidationError("test_size", "must be in the open interval (0, 1)", testSize)
	}
	if n < 2 {
		return nil, nil, errors.NewModelError(op,
			fmt.Sprintf("need at least 2 samples to split, got %d", n),
			errors.ErrInsufficientSamples)
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTest = max(1, min(nTest, n-1))

	indices := cfg.permutation(op, n)
	nTrain := n - nTest
	return indices[:nTrain], indices[nTrain:], nil
}

// TrainTestSplit はデータセットを学習用と評価用に分割する。
// 評価用の件数は ceil(testSize*N) で、両側に最低1件が入る。
//
//	train, test, err := model_selection.TrainTestSplit(ds, 0.25, model_selection.WithRandomSeed(42))
func TrainTestSplit[L comparable](ds *dataset.Classification[L], testSize float64, opts ...SplitOption) (train, test *dataset.Classification[L], err error) {
	const op = "TrainTestSplit"
	if ds == nil {
		return nil, nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	trainIdx, testIdx, err := splitIndices(op, ds.Len(), testSize, newSplitConfig(opts))
	if err != nil {
		return nil, nil, err
	}
	if train, err = ds.Subset(trainIdx); err != nil {
		return nil, nil, err
	}
	if test, err = ds.Subset(testIdx); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// TrainTestSplitXY は回帰用の (X, y) を同じ添字で分割する
func TrainTestSplitXY(X mat.Matrix, y mat.Vector, testSize float64, opts ...SplitOption) (XTrain, XTest *mat.Dense, yTrain, yTest *mat.VecDense, err error) {
	const op = "TrainTestSplitXY"
	if X == nil || y == nil {
		return nil, nil, nil, nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	rows, cols := X.Dims()
	if cols == 0 {
		return nil, nil, nil, nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	if y.Len() != rows {
		return nil, nil, nil, nil, errors.NewDimensionError(op, rows, y.Len(), 0)
	}

	trainIdx, testIdx, err := splitIndices(op, rows, testSize, newSplitConfig(opts))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	XTrain, yTrain = take(X, y, trainIdx)
	XTest, yTest = take(X, y, testIdx)
	return XTrain, XTest, yTrain, yTest, nil
}

func take(X mat.Matrix, y mat.Vector, indices []int) (*mat.Dense, *mat.VecDense) {
	_, cols := X.Dims()
	xs := mat.NewDense(len(indices), cols, nil)
	ys := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		row := xs.RawRowView(i)
		for j := range row {
			row[j] = X.At(idx, j)
		}
		ys.SetVec(i, y.AtVec(idx))
	}
	return xs, ys
}
