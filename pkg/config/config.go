package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Chunker   ChunkerConfig
	Session   SessionConfig
	Providers ProvidersConfig
	SQLite    SQLiteConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type UploadConfig struct {
	Dir         string
	MaxFileSize int
}

type ChunkerConfig struct {
	MaxChunkSize int
}

type SessionConfig struct {
	MaxTurns int
}

type ProvidersConfig struct {
	TimeoutSec  int
	LocalQA     LocalQAConfig
	Educational RemoteProviderConfig
	Creative    RemoteProviderConfig
}

type LocalQAConfig struct {
	Enabled       bool
	ScoreFloor    float64
	MaxChunkChars int
}

type RemoteProviderConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

type SQLiteConfig struct {
	Path string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/curriculum-ai")

	viper.SetEnvPrefix("CURRICULUM_AI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5001)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 20971520)

	viper.SetDefault("upload.dir", "./uploads")
	viper.SetDefault("upload.maxFileSize", 20971520)

	viper.SetDefault("chunker.maxChunkSize", 500)

	viper.SetDefault("session.maxTurns", 10)

	viper.SetDefault("providers.timeoutSec", 30)
	viper.SetDefault("providers.localQA.enabled", true)
	viper.SetDefault("providers.localQA.scoreFloor", 0.3)
	viper.SetDefault("providers.localQA.maxChunkChars", 1000)
	viper.SetDefault("providers.educational.baseURL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	viper.SetDefault("providers.educational.model", "gemini-1.5-flash")
	viper.SetDefault("providers.educational.temperature", 0.7)
	viper.SetDefault("providers.educational.maxTokens", 1500)
	viper.SetDefault("providers.creative.baseURL", "")
	viper.SetDefault("providers.creative.model", "gpt-3.5-turbo")
	viper.SetDefault("providers.creative.temperature", 0.7)
	viper.SetDefault("providers.creative.maxTokens", 800)

	viper.SetDefault("sqlite.path", "./data/learning.db")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
