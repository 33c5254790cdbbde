package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"ballast/internal/core"
)

type Config struct {
	Backtest   BacktestConfig   `mapstructure:"backtest"`
	Data       DataConfig       `mapstructure:"data"`
	Output     OutputConfig     `mapstructure:"output"`
	Server     ServerConfig     `mapstructure:"server"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Commentary CommentaryConfig `mapstructure:"commentary"`
}

// BacktestConfig carries the sizing, cost and summary parameters of a run.
type BacktestConfig struct {
	Capital   float64 `mapstructure:"capital"`
	LotSize   int     `mapstructure:"lot_size"`
	FeeBP     float64 `mapstructure:"fee_bp"`
	SlipBP    float64 `mapstructure:"slip_bp"`
	TaxBPSell float64 `mapstructure:"tax_bp_sell"`
	RFAnnual  float64 `mapstructure:"rf_annual"`
	Mode      string  `mapstructure:"mode"` // "close" or "tplus1"
}

// DataConfig points at the CSV inputs used by the CLI.
type DataConfig struct {
	Prices  string `mapstructure:"prices"`
	Weights string `mapstructure:"weights"`
}

// OutputConfig controls what a run writes next to its summary.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Ledger bool   `mapstructure:"ledger"`
	Chart  bool   `mapstructure:"chart"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	APIKey      string `mapstructure:"api_key"`
	JobTTLHours int    `mapstructure:"job_ttl_hours"`
	MaxJobs     int    `mapstructure:"max_jobs"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ArchiveConfig selects where run artifacts are persisted.
type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// CommentaryConfig enables the LLM write-up of run summaries.
type CommentaryConfig struct {
	Enabled  bool         `mapstructure:"enabled"`
	Provider string       `mapstructure:"provider"` // "claude", "openai" or "ollama"
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Backtest: BacktestConfig{
			Capital: 1_000_000,
			LotSize: 1,
			Mode:    string(core.ModeClose),
		},
		Output: OutputConfig{
			Dir:    "out",
			Ledger: true,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "archive",
		},
	}
}

// Validate checks the sizing and cost parameters.
func (b BacktestConfig) Validate() error {
	if b.Capital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("capital must be positive, got %g", b.Capital))
	}
	if b.LotSize < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("lot_size must be at least 1, got %d", b.LotSize))
	}
	if b.FeeBP < 0 || b.SlipBP < 0 || b.TaxBPSell < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("cost rates cannot be negative: fee_bp=%g slip_bp=%g tax_bp_sell=%g",
				b.FeeBP, b.SlipBP, b.TaxBPSell))
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Backtest.Validate(); err != nil {
		return err
	}
	if _, err := core.ParseMode(c.Backtest.Mode); err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.MaxJobs < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_jobs must be at least 1, got %d", c.Server.MaxJobs))
	}

	// Archive validation - only when enabled
	if c.Archive.Enabled {
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required when type is localfs"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("s3 bucket required when archive type is s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("archive type must be localfs or s3, got %q", c.Archive.Type))
		}
	}

	// Commentary validation - if enabled, check provider config exists
	if c.Commentary.Enabled {
		switch c.Commentary.Provider {
		case "claude":
			if c.Commentary.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.Commentary.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			// Endpoint and model default inside the provider
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("commentary provider must be claude, openai or ollama, got %q", c.Commentary.Provider))
		}
	}

	return nil
}

// Mode returns the validated run mode; call Validate first.
func (c *Config) Mode() core.Mode {
	m, err := core.ParseMode(c.Backtest.Mode)
	if err != nil {
		return core.ModeClose
	}
	return m
}
