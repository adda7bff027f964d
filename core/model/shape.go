package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// Shape は学習時に確定した入力の形状を保持します。
// 学習済みモデルに埋め込み、推論時の次元チェックに使います。
// ゼロ値は「Fit を経由していない」ことを表します。
type Shape struct {
	NFeatures int
	NSamples  int
}

// IsFitted は Fit によって作られたモデルかどうかを返す
func (s Shape) IsFitted() bool {
	return s.NFeatures > 0 && s.NSamples > 0
}

// RequireFitted はゼロ値のモデルに対して NotFittedError を返す
func (s Shape) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// CheckFeatures は X の列数が学習時と一致するか検証する
func (s Shape) CheckFeatures(op string, X mat.Matrix) error {
	_, c := X.Dims()
	if c != s.NFeatures {
		return errors.NewDimensionError(op, s.NFeatures, c, 1)
	}
	return nil
}

// CheckInput は NotFitted と列数の両方を検証する
func (s Shape) CheckInput(modelName, op string, X mat.Matrix) error {
	if err := s.RequireFitted(modelName, op); err != nil {
		return err
	}
	return s.CheckFeatures(modelName+"."+op, X)
}

// CheckNonEmpty は学習入力が少なくとも1行1列あることを検証する。
// gonum は 0 次元の Dense を作れないため、数値計算の前に呼ぶ。
func CheckNonEmpty(op string, X mat.Matrix) (rows, cols int, err error) {
	if X == nil {
		return 0, 0, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	rows, cols = X.Dims()
	if rows == 0 || cols == 0 {
		return rows, cols, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	return rows, cols, nil
}
