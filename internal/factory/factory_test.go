package factory

import (
	"context"
	"errors"
	"testing"

	"corri/internal/config"
)

func TestCreateGateway_MissingCredential(t *testing.T) {
	f := NewGatewayFactory()
	for _, provider := range []string{config.ProviderOpenAI, config.ProviderGemini} {
		cfg := &config.Config{Provider: provider}
		gw, err := f.CreateGateway(context.Background(), cfg)
		if !errors.Is(err, ErrMissingCredential) {
			t.Errorf("%s: expected ErrMissingCredential, got %v", provider, err)
		}
		if gw != nil {
			t.Errorf("%s: expected nil gateway", provider)
		}
	}
}

func TestCreateGateway_OpenAI(t *testing.T) {
	cfg := &config.Config{
		Provider:     config.ProviderOpenAI,
		OpenAIAPIKey: "sk-test",
		OpenAIModel:  "gpt-4o",
		Temperature:  0.2,
	}
	gw, err := NewGatewayFactory().CreateGateway(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gw.Name() != "openai" || gw.Model() != "gpt-4o" {
		t.Errorf("Unexpected gateway %s/%s", gw.Name(), gw.Model())
	}
}

func TestCreateGateway_UnsupportedProvider(t *testing.T) {
	cfg := &config.Config{Provider: "llama", OpenAIAPIKey: "k"}
	if _, err := NewGatewayFactory().CreateGateway(context.Background(), cfg); err == nil {
		t.Error("Expected error for unsupported provider")
	}
}

func TestCredentialName(t *testing.T) {
	if CredentialName(config.ProviderOpenAI) != "OPENAI_API_KEY" {
		t.Error("Expected OPENAI_API_KEY")
	}
	if CredentialName(config.ProviderGemini) != "GEMINI_API_KEY" {
		t.Error("Expected GEMINI_API_KEY")
	}
}
