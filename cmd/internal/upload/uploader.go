// Package upload provides the image-hosting collaborator used by profile
// updates: an opaque upload(bytes) -> URL operation.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrNotConfigured is returned when no upload backend is wired.
var ErrNotConfigured = errors.New("upload: not configured")

// Uploader stores an image payload and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// Disabled is the Uploader used when object storage is not configured.
// Every upload fails with ErrNotConfigured.
type Disabled struct{}

func (Disabled) Upload(_ context.Context, _ []byte, _ string) (string, error) {
	return "", ErrNotConfigured
}

// DecodeImagePayload decodes the profilePic wire value into raw bytes and a
// content type. Clients send either a data URL ("data:image/png;base64,...")
// or a bare base64 string; bare payloads default to application/octet-stream.
func DecodeImagePayload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", errors.New("upload: empty payload")
	}

	contentType := "application/octet-stream"
	b64 := payload

	if strings.HasPrefix(payload, "data:") {
		meta, rest, ok := strings.Cut(payload[len("data:"):], ",")
		if !ok {
			return nil, "", errors.New("upload: malformed data URL")
		}
		meta = strings.TrimSuffix(meta, ";base64")
		if meta != "" {
			contentType = meta
		}
		b64 = rest
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(b64)
		if err != nil {
			return nil, "", errors.New("upload: payload is not valid base64")
		}
	}
	if len(data) == 0 {
		return nil, "", errors.New("upload: empty image")
	}
	return data, contentType, nil
}
