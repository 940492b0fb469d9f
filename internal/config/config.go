package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. CORRLOOM_WORKERS.
const EnvPrefix = "CORRLOOM"

// Global configuration structure.
type Global struct {
	// Method toggles
	Pearson    bool `mapstructure:"pearson" yaml:"pearson"`
	Spearman   bool `mapstructure:"spearman" yaml:"spearman"`
	Kendall    bool `mapstructure:"kendall" yaml:"kendall"`
	AllMethods bool `mapstructure:"all_methods" yaml:"all_methods"`

	// Optional stages
	StatsEnable   bool `mapstructure:"stats_enable" yaml:"stats_enable"`
	InsightEnable bool `mapstructure:"insight_enable" yaml:"insight_enable"`
	MostShow      int  `mapstructure:"most_show" yaml:"most_show"`

	Workers      int    `mapstructure:"workers" yaml:"workers"`
	TopK         int    `mapstructure:"top_k" yaml:"top_k"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	// Ingestion
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows"`
	Decimal   string `mapstructure:"decimal" yaml:"decimal"`
	Thousands string `mapstructure:"thousands" yaml:"thousands"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".corrloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.corrloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("pearson", false)
	v.SetDefault("spearman", false)
	v.SetDefault("kendall", false)
	v.SetDefault("all_methods", false)
	v.SetDefault("stats_enable", false)
	v.SetDefault("insight_enable", false)
	v.SetDefault("most_show", 6)
	v.SetDefault("workers", 0)
	v.SetDefault("top_k", 0)
	v.SetDefault("output_format", "markdown")
	v.SetDefault("max_rows", 100000)
	v.SetDefault("decimal", "")
	v.SetDefault("thousands", "")
	v.SetDefault("delimiter", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine; a malformed one is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
