package linear

import (
	"time"

	"github.com/google/uuid"
)

type fitConfig struct {
	now      func() time.Time
	id       string
	seed     uint64
	testSize float64
}

func newFitConfig(opts []Option) fitConfig {
	cfg := fitConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}
	return cfg
}

// Option configures the metadata recorded by Fit.
type Option func(*fitConfig)

// WithClock sets the clock used for Metadata.FittedAt.
func WithClock(now func() time.Time) Option {
	return func(c *fitConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithID sets the model ID instead of a random UUID.
func WithID(id string) Option {
	return func(c *fitConfig) {
		c.id = id
	}
}

// WithSplit records the split parameters the training set came from.
func WithSplit(seed uint64, testSize float64) Option {
	return func(c *fitConfig) {
		c.seed = seed
		c.testSize = testSize
	}
}
