package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// ArgmaxLabels は確率行列の各行で最大の列に対応するラベルを返す。
// 同値の場合は左から走査して最初に見つかった最大値を採用する。
func ArgmaxLabels[L any](proba mat.Matrix, labels []L) ([]L, error) {
	rows, cols := proba.Dims()
	if cols != len(labels) {
		return nil, errors.NewDimensionError("ArgmaxLabels", len(labels), cols, 1)
	}

	out := make([]L, rows)
	for i := 0; i < rows; i++ {
		best := 0
		for j := 1; j < cols; j++ {
			if proba.At(i, j) > proba.At(i, best) {
				best = j
			}
		}
		out[i] = labels[best]
	}
	return out, nil
}
