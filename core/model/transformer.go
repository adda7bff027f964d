package model

// Transformer は学習済み変換器のインターフェース
type Transformer[In any, Out any] interface {
	// Transform はデータを変換する。学習時と次元が異なる場合はエラー
	Transform(X In) (Out, error)
}

// InverseTransformer は変換を元の空間へ戻せる変換器
type InverseTransformer[In any, Out any] interface {
	InverseTransform(X Out) (In, error)
}
