// Package config loads and persists CLI settings from file, environment,
// and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/databroomhq/databroom-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	APIKey       string  `mapstructure:"api_key" yaml:"api_key"`
	DefaultModel string  `mapstructure:"default_model" yaml:"default_model"`
	Provider     string  `mapstructure:"provider" yaml:"provider"`
	MaxTokens    int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature" yaml:"temperature"`
	PromptBudget int     `mapstructure:"prompt_budget" yaml:"prompt_budget"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Local runtimes (Ollama)
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaTimeoutSec int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec"`
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".databroom", "config.yaml"), nil
}

// Save writes the given configuration to cfgFile, or to
// ~/.databroom/config.yaml when cfgFile is empty.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		var err error
		path, err = defaultPath()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is folded into the environment
// before env binding, so DATABROOM_API_KEY can live there.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DATABROOM")
	v.AutomaticEnv()

	// Defaults. api_key defaults to empty so the env binding takes hold.
	v.SetDefault("api_key", "")
	v.SetDefault("default_model", "openai/gpt-4o-mini")
	v.SetDefault("provider", "openrouter")
	v.SetDefault("max_tokens", 1024)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("prompt_budget", 60000)
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_timeout_sec", 60)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := defaultPath()
		if err != nil {
			return nil, err
		}
		_ = utils.EnsureDir(filepath.Dir(path))
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
