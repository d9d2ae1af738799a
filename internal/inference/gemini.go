package inference

import (
	"context"
	"fmt"
	"strings"

	apperrors "corri/internal/errors"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOptions configures the Gemini gateway
type GeminiOptions struct {
	APIKey      string
	Model       string
	Temperature float32
}

// GeminiGateway sends the photo as an inline blob next to the user text
type GeminiGateway struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiGateway dials the Gemini API once; call Close on shutdown
func NewGeminiGateway(ctx context.Context, opts GeminiOptions) (*GeminiGateway, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGateway{
		client:      client,
		model:       strings.TrimSpace(opts.Model),
		temperature: opts.Temperature,
	}, nil
}

func (g *GeminiGateway) Name() string  { return "gemini" }
func (g *GeminiGateway) Model() string { return g.model }

// Complete issues exactly one GenerateContent call. The model handle is built
// per call because it carries mutable generation settings.
func (g *GeminiGateway) Complete(ctx context.Context, req Request) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(g.temperature)
	m.SetCandidateCount(1)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.System)},
	}

	resp, err := m.GenerateContent(ctx,
		genai.Text(req.User),
		genai.Blob{MIMEType: req.MIMEType, Data: req.Image},
	)
	if err != nil {
		return "", apperrors.NewUpstreamError(msgUpstreamFailure, err)
	}

	text := firstText(resp)
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewEmptyContentError(msgEmptyContent)
	}
	return text, nil
}

// Close releases the underlying connection
func (g *GeminiGateway) Close() error {
	return g.client.Close()
}

// firstText concatenates the text parts of the first candidate
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
