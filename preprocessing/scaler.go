// Package preprocessing は特徴量のスケーリングとカテゴリ変数のエンコーディングを提供します。
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/core/parallel"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

// StandardScaler は列ごとに平均0、標本標準偏差1へ標準化する推定器
type StandardScaler struct {
	withMean bool
	withStd  bool
}

// NewStandardScaler は新しい StandardScaler を作成する
//
// 使用例:
//
//	scaler, err := preprocessing.NewStandardScaler().Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(opts ...StandardScalerOption) *StandardScaler {
	s := &StandardScaler{withMean: true, withStd: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StandardScalerModel は学習済みの列平均と列標準偏差
type StandardScalerModel struct {
	shape    model.Shape
	mean     []float64
	scale    []float64
	withMean bool
	withStd  bool
}

var (
	_ model.Estimator[mat.Matrix, *StandardScalerModel] = (*StandardScaler)(nil)
	_ model.Transformer[mat.Matrix, *mat.Dense]         = (*StandardScalerModel)(nil)
	_ model.InverseTransformer[*mat.Dense, mat.Matrix]  = (*StandardScalerModel)(nil)
)

// Fit は列平均と標本標準偏差 (N-1) を計算する。
// 標準偏差が0の列があると ErrZeroVariance で失敗する。
func (s *StandardScaler) Fit(X mat.Matrix) (*StandardScalerModel, error) {
	const op = "StandardScaler.Fit"
	rows, cols, err := model.CheckNonEmpty(op, X)
	if err != nil {
		return nil, err
	}
	if s.withStd && rows < 2 {
		return nil, errors.NewModelError(op,
			fmt.Sprintf("sample standard deviation needs at least 2 rows, got %d", rows),
			errors.ErrInsufficientSamples)
	}
	if err := errors.CheckMatrix(op, X, rows, cols); err != nil {
		return nil, err
	}

	mean := make([]float64, cols)
	scale := make([]float64, cols)
	column := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(column, j, X)
		mu, std := 0.0, 1.0
		if rows > 1 {
			mu, std = stat.MeanStdDev(column, nil)
		} else {
			mu = column[0]
		}
		if s.withStd && !(std > 0) {
			return nil, errors.NewModelError(op, fmt.Sprintf("feature %d has zero variance", j), errors.ErrZeroVariance)
		}
		if s.withMean {
			mean[j] = mu
		}
		if s.withStd {
			scale[j] = std
		} else {
			scale[j] = 1
		}
	}

	log.GetLoggerWithName("preprocessing").Debug("Scaler fitted",
		log.ModelNameKey, "StandardScaler",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhasePreprocessing,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)

	return &StandardScalerModel{
		shape:    model.Shape{NFeatures: cols, NSamples: rows},
		mean:     mean,
		scale:    scale,
		withMean: s.withMean,
		withStd:  s.withStd,
	}, nil
}

// FitTransform は Fit した上で X を変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*StandardScalerModel, *mat.Dense, error) {
	m, err := s.Fit(X)
	if err != nil {
		return nil, nil, err
	}
	out, err := m.Transform(X)
	if err != nil {
		return nil, nil, err
	}
	return m, out, nil
}

// Transform は (x - mean) / std を列ごとに適用する
func (m *StandardScalerModel) Transform(X mat.Matrix) (*mat.Dense, error) {
	return m.apply("Transform", X, func(v float64, j int) float64 {
		return (v - m.mean[j]) / m.scale[j]
	})
}

// InverseTransform は x * std + mean で元のスケールに戻す
func (m *StandardScalerModel) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	return m.apply("InverseTransform", X, func(v float64, j int) float64 {
		return v*m.scale[j] + m.mean[j]
	})
}

func (m *StandardScalerModel) apply(method string, X mat.Matrix, f func(v float64, j int) float64) (*mat.Dense, error) {
	if err := m.shape.CheckInput("StandardScaler", method, X); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.NewModelError("StandardScaler."+method, "empty input", errors.ErrEmptyData)
	}
	out := mat.NewDense(rows, cols, nil)
	parallel.ParallelizeWithThreshold(rows, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := out.RawRowView(i)
			for j := range row {
				row[j] = f(X.At(i, j), j)
			}
		}
	})
	return out, nil
}

// Mean は列平均（WithMean(false) の場合は0）
func (m *StandardScalerModel) Mean() []float64 { return append([]float64(nil), m.mean...) }

// Scale は列標準偏差（WithStd(false) の場合は1）
func (m *StandardScalerModel) Scale() []float64 { return append([]float64(nil), m.scale...) }

// String はスケーラーの文字列表現を返す
func (m *StandardScalerModel) String() string {
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		m.withMean, m.withStd, m.shape.NFeatures)
}

// MinMaxScaler は1次元の数値列を目標範囲へ線形に写す推定器
type MinMaxScaler struct {
	featureRange [2]float64
}

// NewMinMaxScaler は新しい MinMaxScaler を作成する。デフォルトの範囲は [0, 1]
//
//	scaler, err := preprocessing.NewMinMaxScaler(preprocessing.WithFeatureRange(-1, 1)).Fit(x)
func NewMinMaxScaler(opts ...MinMaxOption) *MinMaxScaler {
	m := &MinMaxScaler{featureRange: [2]float64{0, 1}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MinMaxModel は学習データの最小値・最大値と目標範囲
type MinMaxModel struct {
	dataMin      float64
	dataMax      float64
	featureRange [2]float64
	n            int
}

var (
	_ model.Estimator[[]float64, *MinMaxModel]       = (*MinMaxScaler)(nil)
	_ model.Transformer[[]float64, []float64]        = (*MinMaxModel)(nil)
	_ model.InverseTransformer[[]float64, []float64] = (*MinMaxModel)(nil)
)

// Fit は数値列の最小値・最大値を記録する。
// 目標範囲が min < max でない場合と、入力が定数の場合は失敗する。
func (s *MinMaxScaler) Fit(x []float64) (*MinMaxModel, error) {
	const op = "MinMaxScaler.Fit"
	lo, hi := s.featureRange[0], s.featureRange[1]
	if !(lo < hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, errors.NewValidationError("feature_range", "must satisfy min < max with finite bounds", s.featureRange)
	}
	if len(x) == 0 {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	if err := errors.CheckNumericalStability(op, x); err != nil {
		return nil, err
	}

	dmin, dmax := floats.Min(x), floats.Max(x)
	if dmin == dmax {
		return nil, errors.NewModelError(op, "input is constant", errors.ErrZeroVariance)
	}
	return &MinMaxModel{dataMin: dmin, dataMax: dmax, featureRange: s.featureRange, n: len(x)}, nil
}

// Transform は t = (x - dataMin)/(dataMax - dataMin) を目標範囲へ写す。
// 学習範囲内の値は必ず目標範囲に収まり、dataMin と dataMax はそれぞれ端点に一致する。
// 学習範囲外の値は外挿され、警告が出る。
func (m *MinMaxModel) Transform(x []float64) ([]float64, error) {
	const op = "MinMaxScaler.Transform"
	if m.n == 0 {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}
	if err := errors.CheckNumericalStability(op, x); err != nil {
		return nil, err
	}

	lo, hi := m.featureRange[0], m.featureRange[1]
	span := m.dataMax - m.dataMin
	out := make([]float64, len(x))
	outside := 0
	for i, v := range x {
		t := (v - m.dataMin) / span
		y := lo*(1-t) + hi*t
		if t >= 0 && t <= 1 {
			y = math.Min(math.Max(y, lo), hi)
		} else {
			outside++
		}
		out[i] = y
	}
	if outside > 0 {
		errors.Warn(errors.NewNumericalWarning(op, "values outside the fitted range were extrapolated", float64(outside)))
	}
	return out, nil
}

// InverseTransform は目標範囲の値を元のスケールへ戻す
func (m *MinMaxModel) InverseTransform(x []float64) ([]float64, error) {
	if m.n == 0 {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}
	lo, hi := m.featureRange[0], m.featureRange[1]
	out := make([]float64, len(x))
	for i, v := range x {
		t := (v - lo) / (hi - lo)
		out[i] = m.dataMin*(1-t) + m.dataMax*t
	}
	return out, nil
}

// DataMin は学習データの最小値
func (m *MinMaxModel) DataMin() float64 { return m.dataMin }

// DataMax は学習データの最大値
func (m *MinMaxModel) DataMax() float64 { return m.dataMax }

// FeatureRange は目標範囲
func (m *MinMaxModel) FeatureRange() (min, max float64) { return m.featureRange[0], m.featureRange[1] }
