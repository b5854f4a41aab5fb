package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source    SourceConfig    `yaml:"source" mapstructure:"source"`
	Analytics AnalyticsConfig `yaml:"analytics" mapstructure:"analytics"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SourceConfig selects where loan and expense snapshots come from.
type SourceConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // postgres | sqlite | xlsx
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"` // sqlite file or xlsx workbook
}

// AnalyticsConfig is the engine's external configuration surface. Every
// tunable the formulas depend on lives here; call sites never carry their
// own literals.
type AnalyticsConfig struct {
	// BenchmarkRate is the expected-interest rate on deployed principal,
	// e.g. 0.12 for 12%.
	BenchmarkRate float64 `yaml:"benchmark_rate" mapstructure:"benchmark_rate"`
	// AccrualRatePctPerMonth is the monthly accrual applied when computing
	// the remaining collateral cushion.
	AccrualRatePctPerMonth float64 `yaml:"accrual_rate_pct_per_month" mapstructure:"accrual_rate_pct_per_month"`
	PrivateAgedAfterDays   int     `yaml:"private_aged_after_days" mapstructure:"private_aged_after_days"`
	VyapariAgedAfterDays   int     `yaml:"vyapari_aged_after_days" mapstructure:"vyapari_aged_after_days"`
	ExpiryWarningDays      int     `yaml:"expiry_warning_days" mapstructure:"expiry_warning_days"`
	// ReferenceEpoch (YYYY-MM-DD) anchors the interest-coverage window: the
	// date deposit-level tracking began.
	ReferenceEpoch string `yaml:"reference_epoch" mapstructure:"reference_epoch"`
}

// CacheConfig controls snapshot memoization.
type CacheConfig struct {
	TTLSecs int `yaml:"ttl_secs" mapstructure:"ttl_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LOANBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.driver", "sqlite")
	v.SetDefault("source.path", "loanbook.db")
	v.SetDefault("analytics.benchmark_rate", 0.12)
	v.SetDefault("analytics.accrual_rate_pct_per_month", 1.25)
	v.SetDefault("analytics.private_aged_after_days", 365)
	v.SetDefault("analytics.vyapari_aged_after_days", 730)
	v.SetDefault("analytics.expiry_warning_days", 7)
	v.SetDefault("analytics.reference_epoch", "2020-03-01")
	v.SetDefault("cache.ttl_secs", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate fails fast on configuration misuse. This is the one error class
// that aborts instead of degrading: a negative accrual rate is a caller bug,
// not dirty data.
func (c *Config) Validate() error {
	var errs []string

	if c.Analytics.BenchmarkRate <= 0 {
		errs = append(errs, "benchmark_rate must be > 0")
	}
	if c.Analytics.AccrualRatePctPerMonth < 0 {
		errs = append(errs, "accrual_rate_pct_per_month must be >= 0")
	}
	if c.Analytics.PrivateAgedAfterDays <= 0 {
		errs = append(errs, "private_aged_after_days must be > 0")
	}
	if c.Analytics.VyapariAgedAfterDays <= 0 {
		errs = append(errs, "vyapari_aged_after_days must be > 0")
	}
	if c.Analytics.ExpiryWarningDays < 0 {
		errs = append(errs, "expiry_warning_days must be >= 0")
	}
	if _, err := c.Analytics.Epoch(); err != nil {
		errs = append(errs, "reference_epoch must be YYYY-MM-DD")
	}
	if c.Cache.TTLSecs < 0 {
		errs = append(errs, "cache.ttl_secs must be >= 0")
	}
	switch c.Source.Driver {
	case "postgres", "sqlite", "xlsx":
	default:
		errs = append(errs, "source.driver must be postgres, sqlite or xlsx")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Epoch parses the configured reference epoch.
func (a AnalyticsConfig) Epoch() (time.Time, error) {
	t, err := time.Parse("2006-01-02", a.ReferenceEpoch)
	if err != nil {
		return time.Time{}, eris.Wrap(err, "config: parse reference_epoch")
	}
	return t, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
