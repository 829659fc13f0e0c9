package pointbin

import "github.com/sirupsen/logrus"

// pluginConfig holds the resolved configuration shared by Loader and Exporter.
type pluginConfig struct {
	logger logrus.FieldLogger
}

// Option configures a Loader or Exporter.
type Option func(*pluginConfig)

// WithLogger sets the logger. Default: logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *pluginConfig) {
		c.logger = l
	}
}

func resolveOptions(opts []Option) *pluginConfig {
	cfg := &pluginConfig{
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logrus.StandardLogger()
	}
	return cfg
}
