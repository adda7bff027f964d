// Package linear は正規方程式による最小二乗法 (OLS) の線形回帰を提供します。
package linear

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/core/parallel"
	"github.com/YuminosukeSato/statkit/metrics"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

const olsName = "OrdinaryLeastSquares"

// OrdinaryLeastSquares は OLS 推定器
type OrdinaryLeastSquares struct {
	parallelThreshold int
	logger            log.Logger
}

// NewOrdinaryLeastSquares は新しい OLS 推定器を作成する
func NewOrdinaryLeastSquares(opts ...Option) *OrdinaryLeastSquares {
	o := &OrdinaryLeastSquares{parallelThreshold: parallel.DefaultThreshold}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OLSModel は学習済みの線形回帰モデル。
// beta は長さ D+1 で、末尾が切片。
type OLSModel struct {
	shape             model.Shape
	beta              *mat.VecDense
	parallelThreshold int
	logger            log.Logger
}

var (
	_ model.SupervisedEstimator[mat.Matrix, mat.Vector, *OLSModel] = (*OrdinaryLeastSquares)(nil)
	_ model.Regressor                                              = (*OLSModel)(nil)
)

// Fit は X の末尾に1の列を追加した計画行列 A について
// β = (AᵀA)⁻¹ Aᵀ y を明示的な逆行列で解く。
// AᵀA が特異（または特異に近い）場合は失敗する。
func (o *OrdinaryLeastSquares) Fit(X mat.Matrix, y mat.Vector) (*OLSModel, error) {
	const op = olsName + ".Fit"
	start := time.Now()

	rows, cols, err := model.CheckNonEmpty(op, X)
	if err != nil {
		return nil, err
	}
	if y == nil {
		return nil, errors.NewModelError(op, "empty target", errors.ErrEmptyData)
	}
	if y.Len() != rows {
		return nil, errors.NewDimensionError(op, rows, y.Len(), 0)
	}
	if rows < cols+1 {
		return nil, errors.NewModelError(op,
			fmt.Sprintf("need at least %d rows for %d features, got %d", cols+1, cols, rows),
			errors.ErrInsufficientSamples)
	}
	if err := errors.CheckMatrix(op, X, rows, cols); err != nil {
		return nil, err
	}
	if err := errors.CheckMatrix(op, y, rows, 1); err != nil {
		return nil, err
	}

	logger := o.baseLogger().With(
		log.ModelNameKey, olsName,
		log.EstimatorIDKey, uuid.NewString(),
	)
	logger.Debug("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)

	design := augment(X, rows, cols, o.parallelThreshold)

	var gram mat.Dense
	gram.Mul(design.T(), design)

	var inv mat.Dense
	err = errors.SafeExecute(op, func() error {
		return inv.Inverse(&gram)
	})
	if err != nil {
		// gonum は条件数が大きすぎる場合も mat.Condition を返す
		return nil, errors.NewModelError(op, fmt.Sprintf("gram matrix is not invertible: %v", err), errors.ErrSingularMatrix)
	}

	var xty mat.VecDense
	xty.MulVec(design.T(), y)

	beta := mat.NewVecDense(cols+1, nil)
	beta.MulVec(&inv, &xty)
	if err := errors.CheckNumericalStability(op, beta.RawVector().Data); err != nil {
		return nil, errors.NewModelError(op, "non-finite coefficients", errors.ErrSingularMatrix)
	}

	logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &OLSModel{
		shape:             model.Shape{NFeatures: cols, NSamples: rows},
		beta:              beta,
		parallelThreshold: o.parallelThreshold,
		logger:            logger,
	}, nil
}

func (o *OrdinaryLeastSquares) baseLogger() log.Logger {
	if o.logger != nil {
		return o.logger
	}
	return log.GetLoggerWithName("linear")
}

// augment は X の末尾に定数1の列を追加した N×(D+1) 行列を作る
func augment(X mat.Matrix, rows, cols, threshold int) *mat.Dense {
	design := mat.NewDense(rows, cols+1, nil)
	parallel.ParallelizeWithThreshold(rows, threshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := design.RawRowView(i)
			for j := 0; j < cols; j++ {
				row[j] = X.At(i, j)
			}
			row[cols] = 1
		}
	})
	return design
}

// Predict は y = X·w + b を返す
func (m *OLSModel) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if err := m.shape.CheckInput(olsName, "Predict", X); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.NewModelError(olsName+".Predict", "empty input", errors.ErrEmptyData)
	}

	out := mat.NewVecDense(rows, nil)
	parallel.ParallelizeWithThreshold(rows, m.parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := m.beta.AtVec(cols)
			for j := 0; j < cols; j++ {
				pred += X.At(i, j) * m.beta.AtVec(j)
			}
			out.SetVec(i, pred)
		}
	})

	m.logger.Debug("Predicted values",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, rows,
	)
	return out, nil
}

// Score は決定係数 R² を返す
func (m *OLSModel) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	r2, err := metrics.R2Score(y, pred)
	if err != nil {
		return 0, err
	}
	m.logger.Debug("Scored model",
		log.OperationKey, log.OperationScore,
		log.R2ScoreKey, r2,
	)
	return r2, nil
}

// Coefficients は特徴量ごとの重み（切片を含まない）
func (m *OLSModel) Coefficients() []float64 {
	if m.beta == nil {
		return nil
	}
	return append([]float64(nil), m.beta.RawVector().Data[:m.shape.NFeatures]...)
}

// Intercept は切片
func (m *OLSModel) Intercept() float64 {
	if m.beta == nil {
		return 0
	}
	return m.beta.AtVec(m.shape.NFeatures)
}

// Beta は長さ D+1 の係数ベクトルのコピー（末尾が切片）
func (m *OLSModel) Beta() *mat.VecDense {
	if m.beta == nil {
		return nil
	}
	return mat.VecDenseCopyOf(m.beta)
}

// NFeatures は学習時の特徴量数
func (m *OLSModel) NFeatures() int { return m.shape.NFeatures }
