package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	apperrors "corri/internal/errors"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURI(t *testing.T) {
	got := DataURI("image/png", []byte("abc"))
	if got != "data:image/png;base64,YWJj" {
		t.Errorf("Unexpected data URI %q", got)
	}
}

// chatServer fakes the chat completions endpoint and records the last request body
func chatServer(t *testing.T, status int, content *string, calls *int32, lastBody *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if lastBody != nil {
			_ = json.Unmarshal(body, lastBody)
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":{"message":"upstream exploded","type":"server_error"}}`)
			return
		}
		choices := "[]"
		if content != nil {
			encoded, _ := json.Marshal(*content)
			choices = fmt.Sprintf(`[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]`, encoded)
		}
		fmt.Fprintf(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o","choices":%s}`, choices)
	}))
}

func newTestGateway(url string) *OpenAIGateway {
	return NewOpenAIGateway(OpenAIOptions{
		APIKey:      "sk-test",
		Model:       "gpt-4o",
		BaseURL:     url + "/v1",
		Temperature: 0.2,
	})
}

var testRequest = Request{
	Image:    []byte{0x89, 'P', 'N', 'G'},
	MIMEType: "image/png",
	System:   "system text",
	User:     "Analyze this organism in the image.",
}

func TestOpenAIGateway_ReturnsFirstChoice(t *testing.T) {
	var calls int32
	var body map[string]interface{}
	content := `{"top1":{}}`
	server := chatServer(t, http.StatusOK, &content, &calls, &body)
	defer server.Close()

	gw := newTestGateway(server.URL)
	got, err := gw.Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.Equal(t, "gpt-4o", body["model"])
	assert.InDelta(t, 0.2, body["temperature"], 1e-6)
	assert.NotContains(t, body, "response_format")

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2, "no conversation history expected")

	system := messages[0].(map[string]interface{})
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, "system text", system["content"])

	user := messages[1].(map[string]interface{})
	parts := user["content"].([]interface{})
	require.Len(t, parts, 2)
	assert.Equal(t, "Analyze this organism in the image.", parts[0].(map[string]interface{})["text"])
	imageURL := parts[1].(map[string]interface{})["image_url"].(map[string]interface{})["url"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "data:image/png;base64,"), imageURL)
}

func TestOpenAIGateway_EmptyContent(t *testing.T) {
	for _, content := range []string{"", "   \n"} {
		var calls int32
		c := content
		server := chatServer(t, http.StatusOK, &c, &calls, nil)

		_, err := newTestGateway(server.URL).Complete(context.Background(), testRequest)
		server.Close()

		require.Error(t, err)
		assert.Equal(t, apperrors.KindEmptyUpstreamContent, apperrors.KindOf(err))
	}
}

func TestOpenAIGateway_NoChoices(t *testing.T) {
	var calls int32
	server := chatServer(t, http.StatusOK, nil, &calls, nil)
	defer server.Close()

	_, err := newTestGateway(server.URL).Complete(context.Background(), testRequest)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindEmptyUpstreamContent, apperrors.KindOf(err))
}

func TestOpenAIGateway_UpstreamErrorNotRetried(t *testing.T) {
	var calls int32
	server := chatServer(t, http.StatusInternalServerError, nil, &calls, nil)
	defer server.Close()

	_, err := newTestGateway(server.URL).Complete(context.Background(), testRequest)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstreamFailure, apperrors.KindOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenAIGateway_Metadata(t *testing.T) {
	gw := NewOpenAIGateway(OpenAIOptions{APIKey: "k", Model: "gpt-4o-mini"})
	assert.Equal(t, "openai", gw.Name())
	assert.Equal(t, "gpt-4o-mini", gw.Model())
}

func TestFirstText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"nil response", nil, ""},
		{"no candidates", &genai.GenerateContentResponse{}, ""},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, ""},
		{
			name: "joined text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"top1":`), genai.Text(`{}}`)}},
			}}},
			want: `{"top1":{}}`,
		},
		{
			name: "non text parts skipped",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}, genai.Text("ok")}},
			}}},
			want: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstText(tt.resp))
		})
	}
}
