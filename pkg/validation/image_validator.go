package validation

import (
	"strings"

	apperrors "corri/internal/errors"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MsgMissingImage  = "이미지가 없습니다."
	MsgEmptyImage    = "빈 이미지 파일입니다."
	MsgImageTooLarge = "파일 크기는 5MB를 초과할 수 없습니다."
	MsgNotAnImage    = "이미지 파일만 업로드할 수 있습니다."
)

// ImageValidator handles upload guard clauses
type ImageValidator struct {
	maxSize int64
}

// NewImageValidator creates a validator that accepts images up to maxSize bytes
func NewImageValidator(maxSize int64) *ImageValidator {
	return &ImageValidator{maxSize: maxSize}
}

// MaxSize returns the largest accepted image in bytes
func (v *ImageValidator) MaxSize() int64 {
	return v.maxSize
}

// CheckSize rejects empty or oversized uploads before the body is read
func (v *ImageValidator) CheckSize(size int64) error {
	if size <= 0 {
		return apperrors.NewInvalidInputError(MsgEmptyImage, nil)
	}
	if size > v.maxSize {
		return apperrors.NewInvalidInputError(MsgImageTooLarge, nil)
	}
	return nil
}

// DetectMIME sniffs the image type from its content. The declared type from
// the multipart header is only used when sniffing cannot name an image type.
func (v *ImageValidator) DetectMIME(data []byte, declared string) (string, error) {
	if err := v.CheckSize(int64(len(data))); err != nil {
		return "", err
	}

	detected := mimetype.Detect(data)
	if isImage(detected.String()) {
		return normalize(detected.String()), nil
	}

	declared = normalize(declared)
	if isImage(declared) && detected.Is("application/octet-stream") {
		return declared, nil
	}
	return "", apperrors.NewInvalidInputError(MsgNotAnImage, nil)
}

func isImage(mime string) bool {
	return strings.HasPrefix(normalize(mime), "image/")
}

// normalize drops parameters and lower-cases the media type
func normalize(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}
