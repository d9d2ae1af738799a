package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	MaxImageSize       int64

	Provider      string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
	Temperature   float32

	ExposeDebug bool
	CORSOrigins []string
	StaticDir   string
	LogLevel    string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// APIKey returns the credential of the selected inference provider
func (c *Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// Model returns the model identifier of the selected inference provider
func (c *Config) Model() string {
	if c.Provider == ProviderGemini {
		return c.GeminiModel
	}
	return c.OpenAIModel
}

// LoadFromEnv reads .env (if present), an optional config.yaml and the process
// environment, in increasing priority. A missing API key is not an error here:
// the analyze endpoint reports it per request.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("request_timeout", 60*time.Second)
	v.SetDefault("max_request_body_size", 6*1024*1024)
	v.SetDefault("max_image_size", 5*1024*1024)
	v.SetDefault("inference_provider", ProviderOpenAI)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", "gpt-4o")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("temperature", 0.2)
	v.SetDefault("expose_debug", true)
	v.SetDefault("cors_origins", "*")
	v.SetDefault("static_dir", "")
	v.SetDefault("log_level", "info")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Host:               v.GetString("host"),
		Port:               v.GetString("port"),
		RequestTimeout:     v.GetDuration("request_timeout"),
		MaxRequestBodySize: v.GetInt64("max_request_body_size"),
		MaxImageSize:       v.GetInt64("max_image_size"),
		Provider:           strings.ToLower(strings.TrimSpace(v.GetString("inference_provider"))),
		OpenAIAPIKey:       strings.TrimSpace(v.GetString("openai_api_key")),
		OpenAIModel:        strings.TrimSpace(v.GetString("openai_model")),
		OpenAIBaseURL:      strings.TrimSpace(v.GetString("openai_base_url")),
		GeminiAPIKey:       strings.TrimSpace(v.GetString("gemini_api_key")),
		GeminiModel:        strings.TrimSpace(v.GetString("gemini_model")),
		Temperature:        float32(v.GetFloat64("temperature")),
		ExposeDebug:        v.GetBool("expose_debug"),
		CORSOrigins:        splitList(v.GetString("cors_origins")),
		StaticDir:          strings.TrimSpace(v.GetString("static_dir")),
		LogLevel:           v.GetString("log_level"),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxImageSize <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_SIZE must be > 0 (got %d)", cfg.MaxImageSize)
	}
	if cfg.MaxRequestBodySize < cfg.MaxImageSize {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be >= MAX_IMAGE_SIZE (got %d < %d)",
			cfg.MaxRequestBodySize, cfg.MaxImageSize)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be > 0 (got %s)", cfg.RequestTimeout)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return nil, fmt.Errorf("TEMPERATURE must be within [0, 2] (got %v)", cfg.Temperature)
	}
	switch cfg.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return nil, fmt.Errorf("unsupported INFERENCE_PROVIDER: %q", cfg.Provider)
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
