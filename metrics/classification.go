package metrics

import "github.com/YuminosukeSato/statkit/pkg/errors"

// Accuracy は一致した組の割合を返す。
// 長さが異なる、または空の場合はエラー（切り詰めて比較しない）。
func Accuracy[L comparable](yTrue, yPred []L) (float64, error) {
	if len(yTrue) == 0 {
		return 0, errors.NewValueError("Accuracy", "empty label sequence")
	}
	if len(yPred) != len(yTrue) {
		return 0, errors.NewDimensionError("Accuracy", len(yTrue), len(yPred), 0)
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}
