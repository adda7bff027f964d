package model_selection

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// Fold は交差検証の1分割分の添字
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold は k 分割交差検証の分割器
type KFold struct {
	nSplits int
	cfg     splitConfig
}

// NewKFold は新しい KFold を作成する。nSplits は2以上
func NewKFold(nSplits int, opts ...SplitOption) (*KFold, error) {
	if nSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", nSplits)
	}
	return &KFold{nSplits: nSplits, cfg: newSplitConfig(opts)}, nil
}

// NSplits は分割数を返す
func (kf *KFold) NSplits() int { return kf.nSplits }

// Split は X の行を nSplits 個の評価用ブロックに分ける。
// 先頭の N mod k 個のブロックが1件ずつ多くなる
func (kf *KFold) Split(X mat.Matrix) ([]Fold, error) {
	const op = "KFold.Split"
	if X == nil {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	n, _ := X.Dims()
	if n < kf.nSplits {
		return nil, errors.NewModelError(op,
			fmt.Sprintf("cannot split %d samples into %d folds", n, kf.nSplits),
			errors.ErrInsufficientSamples)
	}

	indices := kf.cfg.permutation(op, n)
	foldSize, remainder := n/kf.nSplits, n%kf.nSplits

	folds := make([]Fold, kf.nSplits)
	current := 0
	for i := range folds {
		size := foldSize
		if i < remainder {
			size++
		}
		test := append([]int(nil), indices[current:current+size]...)
		train := make([]int, 0, n-size)
		train = append(train, indices[:current]...)
		train = append(train, indices[current+size:]...)
		folds[i] = Fold{TrainIndices: train, TestIndices: test}
		current += size
	}
	return folds, nil
}
