package decomposition

import (
	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

// PCAOption configures PCA
type PCAOption func(*PCA)

// WithPCAVarianceConvention sets the covariance denominator.
// The default is model.SampleVariance (N-1).
func WithPCAVarianceConvention(v model.VarianceConvention) PCAOption {
	return func(p *PCA) {
		p.variance = v
	}
}

// WithPCALogger sets the logger used by Fit and by the fitted model
func WithPCALogger(l log.Logger) PCAOption {
	return func(p *PCA) {
		p.logger = l
	}
}
