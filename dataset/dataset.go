// Package dataset は特徴量行列とラベル列を組にした分類用データセットを提供します。
// データセットは不変で、推定器に渡しても変更されません。
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// Record は1件の (特徴量, ラベル) の組
type Record[L comparable] struct {
	Features []float64
	Label    L
}

// Classification は順序付きの (特徴量, ラベル) レコード集合
type Classification[L comparable] struct {
	x      *mat.Dense
	labels []L
}

// NewClassification は特徴量行列とラベル列を zip してデータセットを作る。
// 入力はコピーされるので、呼び出し側が後で変更しても影響しない。
func NewClassification[L comparable](X mat.Matrix, labels []L) (*Classification[L], error) {
	if X == nil {
		return nil, errors.NewModelError("NewClassification", "empty input", errors.ErrEmptyData)
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.NewModelError("NewClassification", "empty input", errors.ErrEmptyData)
	}
	if len(labels) != rows {
		return nil, errors.NewDimensionError("NewClassification", rows, len(labels), 0)
	}
	return &Classification[L]{
		x:      mat.DenseCopyOf(X),
		labels: append([]L(nil), labels...),
	}, nil
}

// FromRecords はレコード列からデータセットを作る。全レコードの特徴量の幅が一致する必要がある
func FromRecords[L comparable](records []Record[L]) (*Classification[L], error) {
	if len(records) == 0 || len(records[0].Features) == 0 {
		return nil, errors.NewModelError("FromRecords", "empty input", errors.ErrEmptyData)
	}
	width := len(records[0].Features)
	data := make([]float64, 0, len(records)*width)
	labels := make([]L, len(records))
	for i, r := range records {
		if len(r.Features) != width {
			return nil, errors.NewDimensionError("FromRecords", width, len(r.Features), 1)
		}
		data = append(data, r.Features...)
		labels[i] = r.Label
	}
	return &Classification[L]{
		x:      mat.NewDense(len(records), width, data),
		labels: labels,
	}, nil
}

// Len はレコード数を返す
func (d *Classification[L]) Len() int { return len(d.labels) }

// NFeatures は特徴量の次元を返す
func (d *Classification[L]) NFeatures() int {
	_, c := d.x.Dims()
	return c
}

// Features は特徴量行列のコピーを返す
func (d *Classification[L]) Features() *mat.Dense {
	return mat.DenseCopyOf(d.x)
}

// Labels はラベル列のコピーを返す
func (d *Classification[L]) Labels() []L {
	return append([]L(nil), d.labels...)
}

// Record は i 番目のレコードを返す
func (d *Classification[L]) Record(i int) Record[L] {
	return Record[L]{
		Features: mat.Row(nil, i, d.x),
		Label:    d.labels[i],
	}
}

// Subset は indices の順にレコードを取り出した新しいデータセットを返す
func (d *Classification[L]) Subset(indices []int) (*Classification[L], error) {
	if len(indices) == 0 {
		return nil, errors.NewModelError("Subset", "empty index set", errors.ErrEmptyData)
	}
	cols := d.NFeatures()
	x := mat.NewDense(len(indices), cols, nil)
	labels := make([]L, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= d.Len() {
			return nil, errors.NewValueError("Subset", "index out of range")
		}
		x.SetRow(i, d.x.RawRowView(idx))
		labels[i] = d.labels[idx]
	}
	return &Classification[L]{x: x, labels: labels}, nil
}
