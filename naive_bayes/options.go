package naive_bayes

import (
	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

type options struct {
	variance model.VarianceConvention
	logger   log.Logger
}

// Option configures GaussianNB
type Option func(*options)

// WithVarianceConvention sets the per-class variance denominator.
// The default is model.SampleVariance (N-1).
func WithVarianceConvention(v model.VarianceConvention) Option {
	return func(o *options) {
		o.variance = v
	}
}

// WithLogger sets the logger used by Fit and by the fitted model
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
