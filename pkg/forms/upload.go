package forms

import (
	"errors"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the largest proof file accepted, on both sides.
const MaxUploadSize = 2 << 20

var AllowedUploadExt = []string{"jpg", "jpeg", "png", "pdf"}

var (
	ErrUploadType = errors.New("Format file harus jpg, jpeg, png, atau pdf")
	ErrUploadSize = errors.New("Ukuran file maksimal 2MB")
)

// CheckUpload applies the extension and size rules to a proof file.
func CheckUpload(name string, size int64) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	allowed := false
	for _, a := range AllowedUploadExt {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrUploadType
	}
	if size > MaxUploadSize {
		return ErrUploadSize
	}
	return nil
}

// MimeType guesses the content type from the extension.
func MimeType(name string) string {
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".") {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}
