package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"cloth-mask/internal/core"
	"cloth-mask/internal/watch"
)

const EnvPrefix = "CLOTHMASK"

type Config struct {
	Mask  MaskConfig  `mapstructure:"mask" yaml:"mask"`
	Watch WatchConfig `mapstructure:"watch" yaml:"watch"`
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
}

type MaskConfig struct {
	KernelSize int     `mapstructure:"kernel_size" yaml:"kernel_size"`
	MinArea    float64 `mapstructure:"min_area" yaml:"min_area"`
}

type WatchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Interval   time.Duration `mapstructure:"interval" yaml:"interval"`
	Extensions []string      `mapstructure:"extensions" yaml:"extensions"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads configuration from defaults, an optional YAML file, .env files
// and CLOTHMASK_* environment variables, in increasing precedence. An empty
// configPath skips the file.
func Load(configPath string, envFiles ...string) (*Config, error) {
	// .env is optional; missing files are not an error
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mask.kernel_size", core.DefaultKernelSize)
	v.SetDefault("mask.min_area", core.DefaultMinArea)

	v.SetDefault("watch.timeout", watch.DefaultTimeout)
	v.SetDefault("watch.interval", watch.DefaultInterval)
	v.SetDefault("watch.extensions", watch.DefaultExtensions)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Default returns the configuration Load produces with no file and no
// environment overrides.
func Default() *Config {
	return &Config{
		Mask: MaskConfig{
			KernelSize: core.DefaultKernelSize,
			MinArea:    core.DefaultMinArea,
		},
		Watch: WatchConfig{
			Timeout:    watch.DefaultTimeout,
			Interval:   watch.DefaultInterval,
			Extensions: append([]string(nil), watch.DefaultExtensions...),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func (c *Config) Validate() error {
	if err := c.MaskParams().Validate(); err != nil {
		return fmt.Errorf("mask: %w", err)
	}
	if err := c.WatchOptions().Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log: format must be json or text, got %q", c.Log.Format)
	}
	return nil
}

func (c *Config) MaskParams() core.MaskParams {
	return core.MaskParams{
		KernelSize: c.Mask.KernelSize,
		MinArea:    c.Mask.MinArea,
	}
}

func (c *Config) WatchOptions() watch.Options {
	return watch.Options{
		Timeout:    c.Watch.Timeout,
		Interval:   c.Watch.Interval,
		Extensions: c.Watch.Extensions,
	}
}
