package log

// 構造化ログの属性キー。
// キーは "model.name" や "data.samples" のように階層化し、
// ログ集約側でプレフィックスごとに絞り込めるようにする。

// モデルと操作
const (
	// ModelNameKey は推定器の種類 ("GaussianNB", "PCA", "OrdinaryLeastSquares")
	ModelNameKey = "model.name"

	// EstimatorIDKey は Fit 呼び出しごとに振られる UUID。
	// 同じ学習から出たログと、その学習済みモデルの推論ログを結び付ける。
	EstimatorIDKey = "estimator.id"

	// OperationKey は実行中の操作。値は Operation* 定数を使う
	OperationKey = "ml.operation"

	// ComponentKey はログを出したパッケージ ("naive_bayes", "decomposition", ...)
	ComponentKey = "ml.component"

	// PhaseKey はライフサイクル上の段階。値は Phase* 定数を使う
	PhaseKey = "ml.phase"
)

// データの形状
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"

	// PredsKey は推論で出力した行数
	PredsKey = "preds.count"
)

// 性能と評価
const (
	// DurationMsKey は Fit にかかった時間（ミリ秒）
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey は Score が返した決定係数
	R2ScoreKey = "metrics.r2_score"
)

// エラーと警告
const (
	// ErrorCodeKey は Error* 定数のいずれか。ErrFmtHandler が付与する
	ErrorCodeKey = "error.code"

	// ErrorTypeKey はエラーや警告の具体的な型名
	ErrorTypeKey = "error.type"
)

// ハイパーパラメータと設定
const (
	NComponentsKey        = "hyperparams.n_components"
	VarianceConventionKey = "hyperparams.variance_convention" // "sample" or "population"

	// RandomSeedKey は分割に使った乱数シード。未指定時も実際の値を記録して再現できるようにする
	RandomSeedKey = "config.random_seed"
)

// 学習結果の要約
const (
	ClassesKey                = "model.classes"
	CategoriesKey             = "model.categories"
	ExplainedVarianceRatioKey = "model.explained_variance_ratio"
)

// 属性値
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationPredictProba = "predict_proba"
	OperationTransform    = "transform"
	OperationScore        = "score"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorZeroVariance      = "ZERO_VARIANCE"
	ErrorUnknownCategory   = "UNKNOWN_CATEGORY"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
)
