// Package inference performs the single outbound call to a multimodal model.
package inference

import (
	"context"
	"encoding/base64"
	"strings"
)

const (
	msgEmptyContent    = "모델 응답이 비어 있습니다."
	msgUpstreamFailure = "모델 호출에 실패했습니다."
)

// Request is everything one completion needs. Gateways keep no history.
type Request struct {
	Image    []byte
	MIMEType string
	System   string
	User     string
}

// Gateway sends a photo and instructions upstream and returns the raw text of
// the first completion. Implementations are safe for concurrent use.
//
// Errors are *errors.AppError of kind empty_upstream_content when the upstream
// answered without content, and upstream_failure for transport or API errors.
// There are no retries.
type Gateway interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
	Model() string
}

// DataURI encodes an image as a data URI for providers that take image URLs
func DataURI(mimeType string, image []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(image)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(image))
	return b.String()
}
