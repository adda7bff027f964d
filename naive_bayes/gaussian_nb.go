// Package naive_bayes はガウシアン・ナイーブベイズ分類器を提供します。
//
// 各クラスの特徴量は互いに独立な正規分布に従うと仮定し、クラスごとの
// 平均・分散・事前確率を推定します。推論は対数空間で行い、logsumexp で
// 正規化するので、尤度がアンダーフローしても確率が壊れません。
package naive_bayes

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/core/parallel"
	"github.com/YuminosukeSato/statkit/dataset"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

const modelName = "GaussianNB"

// GaussianNB はハイパーパラメータのみを保持する推定器
type GaussianNB[L comparable] struct {
	opts options
}

// NewGaussianNB は新しい GaussianNB 推定器を作成する
func NewGaussianNB[L comparable](opts ...Option) *GaussianNB[L] {
	o := options{variance: model.SampleVariance}
	for _, opt := range opts {
		opt(&o)
	}
	return &GaussianNB[L]{opts: o}
}

// GaussianNBModel は学習済みの不変なモデル。
// ラベル順は訓練ラベル列での初出順。
type GaussianNBModel[L comparable] struct {
	shape    model.Shape
	variance model.VarianceConvention
	labels   []L
	counts   []int
	priors   []float64
	means    *mat.Dense // K×D
	vars     *mat.Dense // K×D
	logger   log.Logger
}

var (
	_ model.SupervisedEstimator[mat.Matrix, []string, *GaussianNBModel[string]] = (*GaussianNB[string])(nil)
	_ model.Classifier[string]                                                  = (*GaussianNBModel[string])(nil)
)

func (nb *GaussianNB[L]) baseLogger() log.Logger {
	if nb.opts.logger != nil {
		return nb.opts.logger
	}
	return log.GetLoggerWithName("naive_bayes")
}

// Fit はクラスごとの平均・分散・事前確率を推定する。
// 標本分散ではクラスあたり2行以上が必要で、分散0の特徴量があると失敗する。
func (nb *GaussianNB[L]) Fit(X mat.Matrix, y []L) (*GaussianNBModel[L], error) {
	const op = "GaussianNB.Fit"
	start := time.Now()

	if err := nb.opts.variance.Validate(); err != nil {
		return nil, err
	}
	rows, cols, err := model.CheckNonEmpty(op, X)
	if err != nil {
		return nil, err
	}
	if len(y) != rows {
		return nil, errors.NewDimensionError(op, rows, len(y), 0)
	}
	if err := errors.CheckMatrix(op, X, rows, cols); err != nil {
		return nil, err
	}

	logger := nb.baseLogger().With(
		log.ModelNameKey, modelName,
		log.EstimatorIDKey, uuid.NewString(),
	)
	logger.Debug("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.VarianceConventionKey, nb.opts.variance.String(),
	)

	// 初出順のクラス分割
	index := make(map[L]int)
	var labels []L
	var members [][]int
	for i, label := range y {
		k, ok := index[label]
		if !ok {
			k = len(labels)
			index[label] = k
			labels = append(labels, label)
			members = append(members, nil)
		}
		members[k] = append(members[k], i)
	}

	nClasses := len(labels)
	means := mat.NewDense(nClasses, cols, nil)
	vars := mat.NewDense(nClasses, cols, nil)
	counts := make([]int, nClasses)
	priors := make([]float64, nClasses)
	column := make([]float64, 0, rows)

	for k, rowsOfClass := range members {
		n := len(rowsOfClass)
		if n < nb.opts.variance.MinSamples() {
			return nil, errors.NewModelError(op,
				fmt.Sprintf("class %v has %d sample(s), %s variance needs at least %d",
					labels[k], n, nb.opts.variance, nb.opts.variance.MinSamples()),
				errors.ErrInsufficientSamples)
		}
		for j := 0; j < cols; j++ {
			column = column[:0]
			for _, i := range rowsOfClass {
				column = append(column, X.At(i, j))
			}
			var mean, variance float64
			if nb.opts.variance == model.PopulationVariance {
				mean, variance = stat.PopMeanVariance(column, nil)
			} else {
				mean, variance = stat.MeanVariance(column, nil)
			}
			if !(variance > 0) {
				return nil, errors.NewModelError(op,
					fmt.Sprintf("class %v feature %d has zero variance", labels[k], j),
					errors.ErrZeroVariance)
			}
			means.Set(k, j, mean)
			vars.Set(k, j, variance)
		}
		counts[k] = n
		priors[k] = float64(n) / float64(rows)
	}

	logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, nClasses,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &GaussianNBModel[L]{
		shape:    model.Shape{NFeatures: cols, NSamples: rows},
		variance: nb.opts.variance,
		labels:   labels,
		counts:   counts,
		priors:   priors,
		means:    means,
		vars:     vars,
		logger:   logger,
	}, nil
}

// FitDataset は ds.Features() と ds.Labels() で Fit する
func (nb *GaussianNB[L]) FitDataset(ds *dataset.Classification[L]) (*GaussianNBModel[L], error) {
	if ds == nil {
		return nil, errors.NewModelError("GaussianNB.FitDataset", "empty input", errors.ErrEmptyData)
	}
	return nb.Fit(ds.Features(), ds.Labels())
}

// JointLogLikelihood は正規化前の対数スコア
// ln P(c) - 0.5 * Σ_d [ln(2π var_cd) + (x_d - mean_cd)² / var_cd]
// を N×K 行列で返す。
func (m *GaussianNBModel[L]) JointLogLikelihood(X mat.Matrix) (*mat.Dense, error) {
	if err := m.shape.CheckInput(modelName, "JointLogLikelihood", X); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.NewModelError(modelName+".JointLogLikelihood", "empty input", errors.ErrEmptyData)
	}
	if err := errors.CheckMatrix(modelName+".JointLogLikelihood", X, rows, cols); err != nil {
		return nil, err
	}

	k := len(m.labels)
	// クラスごとの定数項: ln P(c) - 0.5 * Σ ln(2π var)
	base := make([]float64, k)
	for c := 0; c < k; c++ {
		s := 0.0
		for j := 0; j < cols; j++ {
			s += math.Log(2 * math.Pi * m.vars.At(c, j))
		}
		base[c] = math.Log(m.priors[c]) - 0.5*s
	}

	jll := mat.NewDense(rows, k, nil)
	parallel.ParallelizeWithThreshold(rows, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for c := 0; c < k; c++ {
				q := 0.0
				for j := 0; j < cols; j++ {
					d := X.At(i, j) - m.means.At(c, j)
					q += d * d / m.vars.At(c, j)
				}
				jll.Set(i, c, base[c]-0.5*q)
			}
		}
	})
	return jll, nil
}

// PredictLogProba は各行を logsumexp で正規化した対数確率を返す
func (m *GaussianNBModel[L]) PredictLogProba(X mat.Matrix) (*mat.Dense, error) {
	jll, err := m.JointLogLikelihood(X)
	if err != nil {
		return nil, err
	}
	rows, _ := jll.Dims()
	for i := 0; i < rows; i++ {
		row := jll.RawRowView(i)
		lse := errors.LogSumExp(row)
		if math.IsInf(lse, 0) || math.IsNaN(lse) {
			return nil, errors.NewNumericalInstabilityError(modelName+".PredictLogProba", append([]float64(nil), row...), i)
		}
		for c := range row {
			row[c] -= lse
		}
	}
	return jll, nil
}

// PredictProba は N×K のクラス所属確率を返す。列順は Labels() と同じで、各行の和は1
func (m *GaussianNBModel[L]) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	proba, err := m.PredictLogProba(X)
	if err != nil {
		return nil, err
	}
	proba.Apply(func(_, _ int, v float64) float64 { return math.Exp(v) }, proba)

	rows, _ := proba.Dims()
	m.logger.Debug("Predicted probabilities",
		log.OperationKey, log.OperationPredictProba,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, rows,
	)
	return proba, nil
}

// Predict は各行で確率最大のラベルを返す。同確率なら Labels() で先に来るラベル
func (m *GaussianNBModel[L]) Predict(X mat.Matrix) ([]L, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return model.ArgmaxLabels(proba, m.labels)
}

// Labels は列順に対応するクラスラベルを返す
func (m *GaussianNBModel[L]) Labels() []L {
	return append([]L(nil), m.labels...)
}

// ClassCounts はクラスごとの訓練サンプル数
func (m *GaussianNBModel[L]) ClassCounts() []int {
	return append([]int(nil), m.counts...)
}

// Priors はクラスごとの事前確率
func (m *GaussianNBModel[L]) Priors() []float64 {
	return append([]float64(nil), m.priors...)
}

// Means は K×D のクラス別平均のコピー
func (m *GaussianNBModel[L]) Means() *mat.Dense {
	if m.means == nil {
		return nil
	}
	return mat.DenseCopyOf(m.means)
}

// Variances は K×D のクラス別分散のコピー
func (m *GaussianNBModel[L]) Variances() *mat.Dense {
	if m.vars == nil {
		return nil
	}
	return mat.DenseCopyOf(m.vars)
}

// NFeatures は学習時の特徴量数
func (m *GaussianNBModel[L]) NFeatures() int { return m.shape.NFeatures }

// VarianceConvention は学習に使った分散の分母
func (m *GaussianNBModel[L]) VarianceConvention() model.VarianceConvention { return m.variance }
