package container

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"corri/internal/config"
	"corri/internal/inference"
)

type stubFactory struct {
	gateway inference.Gateway
	err     error
}

func (f stubFactory) CreateGateway(ctx context.Context, cfg *config.Config) (inference.Gateway, error) {
	return f.gateway, f.err
}

type closingGateway struct {
	closed bool
}

func (g *closingGateway) Complete(ctx context.Context, req inference.Request) (string, error) {
	return "", nil
}

func (g *closingGateway) Name() string  { return "closing" }
func (g *closingGateway) Model() string { return "m" }

func (g *closingGateway) Close() error {
	g.closed = true
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Provider:           config.ProviderOpenAI,
		OpenAIModel:        "gpt-4o",
		MaxRequestBodySize: 6 * 1024 * 1024,
		MaxImageSize:       5 * 1024 * 1024,
		CORSOrigins:        []string{"*"},
	}
}

func TestNewContainer_MissingCredentialStillServes(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Expected container without API key, got %v", err)
	}
	defer c.Close()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", rec.Code)
	}
}

func TestNewContainer_FactoryError(t *testing.T) {
	_, err := NewContainerWithFactory(context.Background(), testConfig(), stubFactory{err: errors.New("bad base url")})
	if err == nil {
		t.Fatal("Expected factory error to abort construction")
	}
}

func TestContainer_CloseReleasesGateway(t *testing.T) {
	gw := &closingGateway{}
	c, err := NewContainerWithFactory(context.Background(), testConfig(), stubFactory{gateway: gw})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Expected no error on close, got %v", err)
	}
	if !gw.closed {
		t.Error("Expected gateway to be closed")
	}
}

func TestContainer_MetricsSnapshot(t *testing.T) {
	c, err := NewContainerWithFactory(context.Background(), testConfig(), stubFactory{gateway: &closingGateway{}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := c.Metrics()["total_analyses"]; got != int64(0) {
		t.Errorf("Expected zero analyses, got %v", got)
	}
}
