package model_selection

// SplitOption configures TrainTestSplit and KFold
type SplitOption func(*splitConfig)

type splitConfig struct {
	seed    uint64
	seeded  bool
	shuffle bool
}

func newSplitConfig(opts []SplitOption) splitConfig {
	cfg := splitConfig{shuffle: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithRandomSeed fixes the shuffle seed so that splits are reproducible.
// Without it a fresh seed is drawn on every call and logged at debug level.
func WithRandomSeed(seed uint64) SplitOption {
	return func(c *splitConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// WithShuffle sets whether rows are shuffled before cutting (default: true)
func WithShuffle(shuffle bool) SplitOption {
	return func(c *splitConfig) {
		c.shuffle = shuffle
	}
}
