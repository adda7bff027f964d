package model

import (
	"encoding/json"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// WeightsVersion は ModelWeights のフォーマットバージョン
const WeightsVersion = "1"

// ModelWeights は線形モデルの係数を言語非依存の JSON として表現する
type ModelWeights struct {
	// ModelType はモデルの種類（"OrdinaryLeastSquares" など）
	ModelType string `json:"model_type"`

	// Version は互換性チェック用
	Version string `json:"version"`

	// Coefficients は特徴量ごとの重み（切片を含まない）
	Coefficients []float64 `json:"coefficients"`

	Intercept float64 `json:"intercept"`

	// Features は特徴量の名前（オプション）
	Features []string `json:"features,omitempty"`

	// Metadata は学習時の統計など
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ToJSON は ModelWeights を JSON にシリアライズする
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(mw, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal model weights")
	}
	return data, nil
}

// FromJSON は JSON から ModelWeights を読み込み、検証する
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "unmarshal model weights")
	}
	return mw.Validate()
}

// Validate は ModelWeights の妥当性を検証する
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version != WeightsVersion {
		return errors.NewValidationError("version", "unsupported weights version", mw.Version)
	}
	if len(mw.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "must not be empty", len(mw.Coefficients))
	}
	if len(mw.Features) > 0 && len(mw.Features) != len(mw.Coefficients) {
		return errors.NewValidationError("features", "length must match coefficients", len(mw.Features))
	}
	return errors.CheckNumericalStability("ModelWeights.Validate", append(append([]float64(nil), mw.Coefficients...), mw.Intercept))
}

// Clone はディープコピーを作成する
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:    mw.ModelType,
		Version:      mw.Version,
		Intercept:    mw.Intercept,
		Coefficients: append([]float64(nil), mw.Coefficients...),
		Features:     append([]string(nil), mw.Features...),
	}
	if mw.Metadata != nil {
		clone.Metadata = make(map[string]any, len(mw.Metadata))
		for k, v := range mw.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}
