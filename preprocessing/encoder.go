package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

// OneHotEncoder はカテゴリ値を指示行列に変換する推定器
type OneHotEncoder[V comparable] struct{}

// NewOneHotEncoder は新しい OneHotEncoder を作成する
func NewOneHotEncoder[V comparable]() *OneHotEncoder[V] {
	return &OneHotEncoder[V]{}
}

// OneHotModel は学習済みの語彙。列番号は初出順に割り当てられる
type OneHotModel[V comparable] struct {
	categories []V
	index      map[V]int
}

var (
	_ model.Estimator[[]string, *OneHotModel[string]] = (*OneHotEncoder[string])(nil)
	_ model.Transformer[[]string, *mat.Dense]         = (*OneHotModel[string])(nil)
	_ model.InverseTransformer[[]string, mat.Matrix]  = (*OneHotModel[string])(nil)
)

// Fit は重複を除いたカテゴリに初出順で列番号を割り当てる
func (e *OneHotEncoder[V]) Fit(values []V) (*OneHotModel[V], error) {
	if len(values) == 0 {
		return nil, errors.NewModelError("OneHotEncoder.Fit", "empty input", errors.ErrEmptyData)
	}
	index := make(map[V]int)
	var categories []V
	for _, v := range values {
		if _, ok := index[v]; ok {
			continue
		}
		index[v] = len(categories)
		categories = append(categories, v)
	}

	log.GetLoggerWithName("preprocessing").Debug("Encoder fitted",
		log.ModelNameKey, "OneHotEncoder",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, len(values),
		log.CategoriesKey, len(categories),
	)
	return &OneHotModel[V]{categories: categories, index: index}, nil
}

// FitTransform は Fit した上で values を変換する
func (e *OneHotEncoder[V]) FitTransform(values []V) (*OneHotModel[V], *mat.Dense, error) {
	m, err := e.Fit(values)
	if err != nil {
		return nil, nil, err
	}
	out, err := m.Transform(values)
	if err != nil {
		return nil, nil, err
	}
	return m, out, nil
}

// Transform は N×K の指示行列を返す。学習時に見ていない値があれば
// UnknownCategoryError で失敗する
func (m *OneHotModel[V]) Transform(values []V) (*mat.Dense, error) {
	const op = "OneHotEncoder.Transform"
	if len(m.categories) == 0 {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	if len(values) == 0 {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}

	out := mat.NewDense(len(values), len(m.categories), nil)
	for i, v := range values {
		col, ok := m.index[v]
		if !ok {
			return nil, errors.NewUnknownCategoryError(op, v, i)
		}
		out.Set(i, col, 1)
	}
	return out, nil
}

// InverseTransform は指示行列の各行をカテゴリに戻す。
// 各行はちょうど1つの1と残りの0で構成されている必要がある
func (m *OneHotModel[V]) InverseTransform(X mat.Matrix) ([]V, error) {
	const op = "OneHotEncoder.InverseTransform"
	if len(m.categories) == 0 {
		return nil, errors.NewNotFittedError("OneHotEncoder", "InverseTransform")
	}
	rows, cols := X.Dims()
	if cols != len(m.categories) {
		return nil, errors.NewDimensionError(op, len(m.categories), cols, 1)
	}

	out := make([]V, rows)
	for i := 0; i < rows; i++ {
		hot := -1
		for j := 0; j < cols; j++ {
			switch v := X.At(i, j); v {
			case 0:
			case 1:
				if hot >= 0 {
					return nil, errors.NewValueError(op, fmt.Sprintf("row %d has more than one active column", i))
				}
				hot = j
			default:
				return nil, errors.NewValueError(op, fmt.Sprintf("row %d contains non-indicator value %g", i, v))
			}
		}
		if hot < 0 {
			return nil, errors.NewValueError(op, fmt.Sprintf("row %d has no active column", i))
		}
		out[i] = m.categories[hot]
	}
	return out, nil
}

// Categories は列順のカテゴリ（初出順）
func (m *OneHotModel[V]) Categories() []V {
	return append([]V(nil), m.categories...)
}

// Integer は OrdinalEncoder が受け付ける整数型
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// OrdinalEncoder は整数値を持つ列挙型をそのまま非負の列番号に変換する。
// 学習するパラメータがないのでゼロ値のまま使える
type OrdinalEncoder[T Integer] struct{}

var _ model.Transformer[[]uint8, []int] = OrdinalEncoder[uint8]{}

// Transform は各値を int に変換する。負の値と int に収まらない値は失敗する
func (OrdinalEncoder[T]) Transform(values []T) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		if v < 0 {
			return nil, errors.NewValueError("OrdinalEncoder.Transform",
				fmt.Sprintf("negative enum value %d at position %d", int64(v), i))
		}
		if uint64(v) > math.MaxInt {
			return nil, errors.NewValueError("OrdinalEncoder.Transform",
				fmt.Sprintf("enum value %d at position %d overflows int", uint64(v), i))
		}
		out[i] = int(v)
	}
	return out, nil
}
