package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for every environment variable read by quizling.
const EnvPrefix = "QUIZLING"

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string         `mapstructure:"env"`       // local, production
	DBPath   string         `mapstructure:"db_path"`   // SQLite file, empty = XDG default
	GamesDir string         `mapstructure:"games_dir"` // user game files and installed packs
	LogLevel string         `mapstructure:"log_level"`
	LogFile  string         `mapstructure:"log_file"`
	Feedback FeedbackConfig `mapstructure:"feedback"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// FeedbackConfig controls how long transient answer feedback stays on screen.
type FeedbackConfig struct {
	FlashFor    time.Duration `mapstructure:"flash_for"`
	ConfettiFor time.Duration `mapstructure:"confetti_for"`
}

// LLMConfig selects the provider used by `quizling generate`.
type LLMConfig struct {
	Provider string        `mapstructure:"provider"` // anthropic, openai, openrouter, gemini, mock
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from defaults, an optional config.yaml, a .env
// file and QUIZLING_* environment variables, in increasing priority.
func Load() (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := configHome(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("db_path", "")
	v.SetDefault("games_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("feedback.flash_for", "900ms")
	v.SetDefault("feedback.confetti_for", "1500ms")
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "60s")
}

// fillPaths resolves empty paths to their XDG defaults.
func (c *Config) fillPaths() error {
	if c.DBPath != "" && c.GamesDir != "" && c.LogFile != "" {
		return nil
	}
	data, err := DataHome()
	if err != nil {
		return err
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(data, "quizling.db")
	}
	if c.GamesDir == "" {
		c.GamesDir = filepath.Join(data, "games")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(data, "quizling.log")
	}
	return nil
}

// DataHome returns $XDG_DATA_HOME/quizling, falling back to
// ~/.local/share/quizling.
func DataHome() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "quizling"), nil
}

func configHome() (string, error) {
	cfgHome := os.Getenv("XDG_CONFIG_HOME")
	if cfgHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cfgHome = filepath.Join(home, ".config")
	}
	return filepath.Join(cfgHome, "quizling"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
