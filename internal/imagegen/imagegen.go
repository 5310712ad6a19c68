package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/animus-coder/readmeart/internal/version"
)

// ErrNoImage is returned when a backend answers without any image payload.
var ErrNoImage = errors.New("no image data in response")

// Image is one generated picture. Data holds decoded bytes; URL is set by
// backends that return a link instead, until Normalize downloads it.
type Image struct {
	Data     []byte
	URL      string
	MIMEType string
	Provider string
}

// Empty reports whether the image carries neither bytes nor a URL.
func (i Image) Empty() bool {
	return len(i.Data) == 0 && i.URL == ""
}

// Generator turns a prompt into an image.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (Image, error)
}

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Code, e.Body)
}

// HTTPStatus exposes the response code for failure classification.
func (e *StatusError) HTTPStatus() int { return e.Code }

var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// DecodeBase64 decodes an image payload, dropping a data URI prefix if present.
func DecodeBase64(s string) ([]byte, error) {
	s = dataURIPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	if s == "" {
		return nil, ErrNoImage
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}
	return data, nil
}

// Normalize makes sure img carries bytes, downloading URL-only results.
func Normalize(ctx context.Context, hc *http.Client, img Image) (Image, error) {
	if len(img.Data) > 0 {
		return img, nil
	}
	if img.URL == "" {
		return img, ErrNoImage
	}
	if hc == nil {
		hc = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return img, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	res, err := hc.Do(req)
	if err != nil {
		return img, fmt.Errorf("download image: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return img, &StatusError{Provider: img.Provider, Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return img, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return img, ErrNoImage
	}
	img.Data = data
	if img.MIMEType == "" {
		img.MIMEType = res.Header.Get("Content-Type")
	}
	return img, nil
}
