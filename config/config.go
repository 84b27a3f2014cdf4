package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the data directory.
const FileName = "menutheme.config"

// EnvPrefix prefixes environment overrides, e.g. MENUTHEME_LISTEN_ADDR.
const EnvPrefix = "MENUTHEME"

type Config struct {
	DataDir         string        `mapstructure:"data_dir"`
	ListenAddr      string        `mapstructure:"listen_addr"`
	Template        string        `mapstructure:"template"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
}

func Default() Config {
	return Config{
		DataDir:         ".",
		ListenAddr:      ":8080",
		Template:        "menu",
		RefreshInterval: 30 * time.Second,
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("template", def.Template)
	v.SetDefault("refresh_interval", def.RefreshInterval)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
}

// Load reads <dataDir>/menutheme.config if present, then applies
// MENUTHEME_* environment overrides. A missing file yields the defaults.
func Load(dataDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfgPath := filepath.Join(dataDir, FileName)
	v.SetConfigFile(cfgPath)
	v.SetConfigType("json")

	if _, err := os.Stat(cfgPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", cfgPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr is required")
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval must not be negative, got %s", c.RefreshInterval)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Save writes cfg to <cfg.DataDir>/menutheme.config, replacing any
// existing file atomically.
func Save(cfg Config) error {
	cfgPath := filepath.Join(cfg.DataDir, FileName)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("data_dir", cfg.DataDir)
	v.Set("listen_addr", cfg.ListenAddr)
	v.Set("template", cfg.Template)
	v.Set("refresh_interval", cfg.RefreshInterval.String())
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_format", cfg.LogFormat)

	tmp := cfgPath + ".tmp"
	if err := v.WriteConfigAs(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, cfgPath)
}
