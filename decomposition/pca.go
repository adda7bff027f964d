// Package decomposition は共分散行列の固有値分解による主成分分析 (PCA) を提供します。
package decomposition

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/core/parallel"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

const pcaName = "PCA"

// PCA は保持する主成分数 K を持つ推定器
type PCA struct {
	nComponents int
	variance    model.VarianceConvention
	logger      log.Logger
}

// NewPCA は上位 nComponents 個の主成分を保持する PCA を作成する
func NewPCA(nComponents int, opts ...PCAOption) *PCA {
	p := &PCA{nComponents: nComponents, variance: model.SampleVariance}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PCAModel は学習済みの射影基底。
// components は K×D で、行が固有値の降順に並んだ固有ベクトル。
type PCAModel struct {
	shape             model.Shape
	variance          model.VarianceConvention
	mean              []float64
	components        *mat.Dense
	explainedVariance []float64
	totalVariance     float64
	logger            log.Logger
}

var (
	_ model.Estimator[mat.Matrix, *PCAModel]           = (*PCA)(nil)
	_ model.Transformer[mat.Matrix, *mat.Dense]        = (*PCAModel)(nil)
	_ model.InverseTransformer[*mat.Dense, mat.Matrix] = (*PCAModel)(nil)
)

// Fit は列平均を計算し、共分散行列を固有値分解して上位 K 個の固有ベクトルを保持する。
// 各主成分の符号は絶対値最大の成分が正になるよう揃える。
func (p *PCA) Fit(X mat.Matrix) (*PCAModel, error) {
	const op = "PCA.Fit"
	start := time.Now()

	if p.nComponents < 1 {
		return nil, errors.NewValidationError("n_components", "must be a positive integer", p.nComponents)
	}
	if err := p.variance.Validate(); err != nil {
		return nil, err
	}
	rows, cols, err := model.CheckNonEmpty(op, X)
	if err != nil {
		return nil, err
	}
	if p.nComponents > cols {
		return nil, errors.NewValidationError("n_components",
			fmt.Sprintf("must be <= number of features (%d)", cols), p.nComponents)
	}
	if rows < p.variance.MinSamples() {
		return nil, errors.NewModelError(op,
			fmt.Sprintf("%s covariance needs at least %d rows, got %d", p.variance, p.variance.MinSamples(), rows),
			errors.ErrInsufficientSamples)
	}
	if err := errors.CheckMatrix(op, X, rows, cols); err != nil {
		return nil, err
	}

	logger := p.baseLogger().With(
		log.ModelNameKey, pcaName,
		log.EstimatorIDKey, uuid.NewString(),
	)
	logger.Debug("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.NComponentsKey, p.nComponents,
		log.VarianceConventionKey, p.variance.String(),
	)

	mean := make([]float64, cols)
	column := make([]float64, rows)
	for j := range mean {
		mat.Col(column, j, X)
		mean[j] = stat.Mean(column, nil)
	}

	// 母分散で1行しかない場合、共分散は0行列のまま
	cov := mat.NewSymDense(cols, nil)
	if rows > 1 {
		stat.CovarianceMatrix(cov, X, nil)
		if p.variance == model.PopulationVariance {
			cov.ScaleSym(float64(rows-1)/float64(rows), cov)
		}
	}

	var eig mat.EigenSym
	err = errors.SafeExecute(op, func() error {
		if !eig.Factorize(cov, true) {
			return errors.NewModelError(op, "eigendecomposition did not converge", errors.ErrEigenDecomposition)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errors.ErrEigenDecomposition) {
			return nil, err
		}
		return nil, errors.NewModelError(op, err.Error(), errors.ErrEigenDecomposition)
	}

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	for i, v := range values {
		if v < 0 {
			errors.Warn(errors.NewNumericalWarning(op, "negative eigenvalue clipped to zero", v))
			values[i] = 0
		}
	}
	total := floats.Sum(values)
	if !(total > 0) {
		return nil, errors.NewModelError(op, "input has zero total variance", errors.ErrZeroVariance)
	}

	// 固有値の降順。同値は元の順序を保つ
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] > values[order[b]]
	})

	k := p.nComponents
	components := mat.NewDense(k, cols, nil)
	explained := make([]float64, k)
	for c := 0; c < k; c++ {
		src := order[c]
		vec := mat.Col(nil, src, &vectors)
		orientSign(vec)
		components.SetRow(c, vec)
		explained[c] = values[src]
	}

	m := &PCAModel{
		shape:             model.Shape{NFeatures: cols, NSamples: rows},
		variance:          p.variance,
		mean:              mean,
		components:        components,
		explainedVariance: explained,
		totalVariance:     total,
		logger:            logger,
	}

	logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.NComponentsKey, k,
		log.ExplainedVarianceRatioKey, floats.Sum(explained)/total,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

// FitTransform は Fit した上で X を射影する
func (p *PCA) FitTransform(X mat.Matrix) (*PCAModel, *mat.Dense, error) {
	m, err := p.Fit(X)
	if err != nil {
		return nil, nil, err
	}
	out, err := m.Transform(X)
	if err != nil {
		return nil, nil, err
	}
	return m, out, nil
}

func (p *PCA) baseLogger() log.Logger {
	if p.logger != nil {
		return p.logger
	}
	return log.GetLoggerWithName("decomposition")
}

// orientSign は絶対値最大の成分（同値なら先頭）が正になるよう vec の符号を反転する
func orientSign(vec []float64) {
	best := 0
	for i := 1; i < len(vec); i++ {
		if abs(vec[i]) > abs(vec[best]) {
			best = i
		}
	}
	if vec[best] < 0 {
		floats.Scale(-1, vec)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Transform は学習時の平均で中心化し、基底の転置を掛けて N×K を返す
func (m *PCAModel) Transform(X mat.Matrix) (*mat.Dense, error) {
	const op = pcaName + ".Transform"
	if err := m.shape.CheckInput(pcaName, "Transform", X); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}

	centered := mat.NewDense(rows, cols, nil)
	parallel.ParallelizeWithThreshold(rows, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := centered.RawRowView(i)
			for j := range row {
				row[j] = X.At(i, j) - m.mean[j]
			}
		}
	})

	var out mat.Dense
	out.Mul(centered, m.components.T())
	if err := errors.CheckMatrix(op, &out, rows, len(m.explainedVariance)); err != nil {
		return nil, err
	}

	m.logger.Debug("Projected data",
		log.OperationKey, log.OperationTransform,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, rows,
	)
	return &out, nil
}

// InverseTransform は N×K の射影を元の D 次元空間に戻す。K < D の場合は近似になる
func (m *PCAModel) InverseTransform(Z mat.Matrix) (*mat.Dense, error) {
	if err := m.shape.RequireFitted(pcaName, "InverseTransform"); err != nil {
		return nil, err
	}
	rows, k := Z.Dims()
	if k != len(m.explainedVariance) {
		return nil, errors.NewDimensionError(pcaName+".InverseTransform", len(m.explainedVariance), k, 1)
	}

	var out mat.Dense
	out.Mul(Z, m.components)
	for i := 0; i < rows; i++ {
		floats.Add(out.RawRowView(i), m.mean)
	}
	return &out, nil
}

// NComponents は保持している主成分数
func (m *PCAModel) NComponents() int { return len(m.explainedVariance) }

// Components は K×D の主成分行列のコピー
func (m *PCAModel) Components() *mat.Dense {
	if m.components == nil {
		return nil
	}
	return mat.DenseCopyOf(m.components)
}

// Mean は学習データの列平均
func (m *PCAModel) Mean() []float64 { return append([]float64(nil), m.mean...) }

// ExplainedVariance は各主成分の固有値（分散）
func (m *PCAModel) ExplainedVariance() []float64 {
	return append([]float64(nil), m.explainedVariance...)
}

// ExplainedVarianceRatio は各主成分が全分散に占める割合
func (m *PCAModel) ExplainedVarianceRatio() []float64 {
	ratio := make([]float64, len(m.explainedVariance))
	if m.totalVariance > 0 {
		floats.ScaleTo(ratio, 1/m.totalVariance, m.explainedVariance)
	}
	return ratio
}

// NFeatures は学習時の特徴量数
func (m *PCAModel) NFeatures() int { return m.shape.NFeatures }
