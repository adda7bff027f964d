package preprocessing

// StandardScalerOption configures StandardScaler
type StandardScalerOption func(*StandardScaler)

// WithMean sets whether to subtract the column mean (default: true)
func WithMean(withMean bool) StandardScalerOption {
	return func(s *StandardScaler) {
		s.withMean = withMean
	}
}

// WithStd sets whether to divide by the column standard deviation (default: true)
func WithStd(withStd bool) StandardScalerOption {
	return func(s *StandardScaler) {
		s.withStd = withStd
	}
}

// MinMaxOption configures MinMaxScaler
type MinMaxOption func(*MinMaxScaler)

// WithFeatureRange sets the target range [min, max] (default: [0, 1])
func WithFeatureRange(min, max float64) MinMaxOption {
	return func(m *MinMaxScaler) {
		m.featureRange = [2]float64{min, max}
	}
}
