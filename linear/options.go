package linear

import "github.com/YuminosukeSato/statkit/pkg/log"

// Option configures OrdinaryLeastSquares
type Option func(*OrdinaryLeastSquares)

// WithParallelThreshold sets the row count above which design-matrix
// augmentation and prediction run on multiple goroutines
func WithParallelThreshold(n int) Option {
	return func(o *OrdinaryLeastSquares) {
		o.parallelThreshold = n
	}
}

// WithOLSLogger sets the logger used by Fit and by the fitted model
func WithOLSLogger(l log.Logger) Option {
	return func(o *OrdinaryLeastSquares) {
		o.logger = l
	}
}
