// Package metrics は予測結果の評価指標を提供します。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// checkPair は長さが等しく空でないことを検証する
func checkPair(op string, yTrue, yPred mat.Vector) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// MSE は平均二乗誤差 (1/n)Σ(yTrue - yPred)² を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += d * d
	}
	return sum / float64(n), nil
}

// RMSE は MSE の平方根
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score は決定係数 1 - RSS/TSS を計算する。
// yTrue が定数の場合 TSS が0になるため ErrZeroVariance を返す。
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	values := mat.Col(nil, 0, yTrue)
	mean := stat.Mean(values, nil)

	var tss, rss float64
	for i := 0; i < n; i++ {
		dt := values[i] - mean
		dr := values[i] - yPred.AtVec(i)
		tss += dt * dt
		rss += dr * dr
	}
	if tss == 0 {
		return 0, errors.NewModelError("R2Score", "total sum of squares is zero", errors.ErrZeroVariance)
	}
	return 1 - rss/tss, nil
}
