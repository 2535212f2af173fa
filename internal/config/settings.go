package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const apiKeyPath = "completion.api_key"

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type CompletionConfig struct {
	Provider      string   `mapstructure:"provider"` // openai, ollama, gemini
	BaseURL       string   `mapstructure:"base_url"`
	Model         string   `mapstructure:"model"` // empty picks the provider default
	OllamaServers []string `mapstructure:"ollama_servers"`
}

type TranslationConfig struct {
	StrictValidation bool   `mapstructure:"strict_validation"`
	ProxyURL         string `mapstructure:"proxy_url"`
	HistorySize      int    `mapstructure:"history_size"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Pass     string `mapstructure:"pass"`
	DB       int    `mapstructure:"db"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

type Settings struct {
	Server      ServerConfig      `mapstructure:"server"`
	Completion  CompletionConfig  `mapstructure:"completion"`
	Translation TranslationConfig `mapstructure:"translation"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Env         string            `mapstructure:"env"`
	Debug       bool              `mapstructure:"debug"`
}

// CompletionKey reads the completion service secret at call time so a rotated
// key is picked up without a restart. It is deliberately not part of Settings.
func (s *Settings) CompletionKey() string {
	return viper.GetString(apiKeyPath)
}

func Load() (*Settings, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	setDefaults()
	viper.SetEnvPrefix("LINGUAVOX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv(apiKeyPath, "LINGUAVOX_COMPLETION_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if settings.Translation.ProxyURL == "" {
		settings.Translation.ProxyURL = fmt.Sprintf("http://localhost:%d", settings.Server.Port)
	}

	return &settings, nil
}

func setDefaults() {
	viper.SetDefault("env", "dev")
	viper.SetDefault("debug", false)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("completion.provider", "openai")
	viper.SetDefault("completion.base_url", "")
	viper.SetDefault("completion.model", "") // provider default, gpt-3.5-turbo for openai
	viper.SetDefault("completion.ollama_servers", []string{})
	viper.SetDefault("translation.strict_validation", false)
	viper.SetDefault("translation.proxy_url", "")
	viper.SetDefault("translation.history_size", 32)
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.pass", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl_hours", 24*30)
}

func genEnv() string {
	env := os.Getenv("LINGUAVOX_ENV")
	if env == "" {
		return "dev"
	}
	return env
}
