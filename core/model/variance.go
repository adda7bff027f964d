package model

import (
	"fmt"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// VarianceConvention は分散・共分散の分母の取り方
type VarianceConvention int

const (
	// SampleVariance は N-1 で割る不偏分散（デフォルト）
	SampleVariance VarianceConvention = iota
	// PopulationVariance は N で割る母分散
	PopulationVariance
)

func (v VarianceConvention) String() string {
	switch v {
	case SampleVariance:
		return "sample"
	case PopulationVariance:
		return "population"
	default:
		return fmt.Sprintf("VarianceConvention(%d)", int(v))
	}
}

// MinSamples は分散を定義するのに必要な最小サンプル数
func (v VarianceConvention) MinSamples() int {
	if v == SampleVariance {
		return 2
	}
	return 1
}

// Denominator は n サンプルに対する分母を返す
func (v VarianceConvention) Denominator(n int) float64 {
	if v == SampleVariance {
		return float64(n - 1)
	}
	return float64(n)
}

// Validate は未知の値を ValidationError として返す
func (v VarianceConvention) Validate() error {
	if v != SampleVariance && v != PopulationVariance {
		return errors.NewValidationError("variance_convention", "must be sample or population", int(v))
	}
	return nil
}
