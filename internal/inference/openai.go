package inference

import (
	"context"
	"strings"

	apperrors "corri/internal/errors"

	"github.com/sashabaranov/go-openai"
)

// OpenAIOptions configures the chat-completion gateway
type OpenAIOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
}

// OpenAIGateway calls the chat completions API with a text + image_url message.
// response_format stays unset; with image input it can yield empty content.
type OpenAIGateway struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIGateway builds the process-wide client once
func NewOpenAIGateway(opts OpenAIOptions) *OpenAIGateway {
	clientConfig := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientConfig.BaseURL = opts.BaseURL
	}
	return &OpenAIGateway{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       opts.Model,
		temperature: opts.Temperature,
	}
}

func (g *OpenAIGateway) Name() string  { return "openai" }
func (g *OpenAIGateway) Model() string { return g.model }

// Complete issues exactly one chat completion
func (g *OpenAIGateway) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.System,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.User,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    DataURI(req.MIMEType, req.Image),
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", apperrors.NewUpstreamError(msgUpstreamFailure, err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewEmptyContentError(msgEmptyContent)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", apperrors.NewEmptyContentError(msgEmptyContent)
	}
	return content, nil
}
