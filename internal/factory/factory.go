package factory

import (
	"context"
	"errors"
	"fmt"

	"corri/internal/config"
	"corri/internal/inference"
)

// ErrMissingCredential is returned when the selected provider has no API key.
// The server still starts; the analyze endpoint reports the problem per request.
var ErrMissingCredential = errors.New("inference provider credential not configured")

// GatewayFactory creates inference gateways
type GatewayFactory interface {
	CreateGateway(ctx context.Context, cfg *config.Config) (inference.Gateway, error)
}

type gatewayFactory struct{}

// NewGatewayFactory creates a new gateway factory
func NewGatewayFactory() GatewayFactory {
	return &gatewayFactory{}
}

// CreateGateway creates a gateway for cfg.Provider
func (f *gatewayFactory) CreateGateway(ctx context.Context, cfg *config.Config) (inference.Gateway, error) {
	if cfg.APIKey() == "" {
		return nil, ErrMissingCredential
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return inference.NewOpenAIGateway(inference.OpenAIOptions{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			BaseURL:     cfg.OpenAIBaseURL,
			Temperature: cfg.Temperature,
		}), nil
	case config.ProviderGemini:
		gw, err := inference.NewGeminiGateway(ctx, inference.GeminiOptions{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			return nil, err
		}
		return gw, nil
	default:
		return nil, fmt.Errorf("unsupported inference provider: %s", cfg.Provider)
	}
}

// CredentialName returns the environment key that holds the provider credential
func CredentialName(provider string) string {
	if provider == config.ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}
