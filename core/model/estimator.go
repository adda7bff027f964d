// Package model は推定器・変換器・分類器・回帰器の能力インターフェースと、
// 学習済みモデル共通の補助型を提供します。
//
// 推定器 (Estimator) はハイパーパラメータのみを保持し、Fit は新しい不変の
// 学習済みモデルを返します。学習済みモデルは訓練データへの参照を持ちません。
package model

import "gonum.org/v1/gonum/mat"

// Estimator は教師なし推定器のインターフェース
type Estimator[In any, M any] interface {
	// Fit は入力から学習済みモデルを生成する。入力は変更しない
	Fit(X In) (M, error)
}

// SupervisedEstimator は目的変数を伴う推定器のインターフェース
type SupervisedEstimator[In any, T any, M any] interface {
	// Fit は特徴量 X と目的変数 y から学習済みモデルを生成する
	Fit(X In, y T) (M, error)
}

// Classifier は学習済み確率的分類器のインターフェース
type Classifier[L comparable] interface {
	// Labels は列順に対応するクラスラベルを返す
	Labels() []L

	// PredictProba は N×K のクラス所属確率を返す。各行の和は1
	PredictProba(X mat.Matrix) (*mat.Dense, error)

	// Predict は各行で確率最大のラベルを返す
	Predict(X mat.Matrix) ([]L, error)
}

// Regressor は学習済み回帰器のインターフェース
type Regressor interface {
	// Predict は連続値の予測を返す
	Predict(X mat.Matrix) (*mat.VecDense, error)
}
