package acquire

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes = 32 << 20

var (
	// ErrUnsupportedScheme is returned for URLs other than http, https and data.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
	// ErrTooLarge is returned when an encoded image is over MaxBytes.
	ErrTooLarge = errors.New("image too large")
)

// FetchError is a download that failed in transport or with a non-2xx
// status.
type FetchError struct {
	URL string
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher loads images from URLs.
type Fetcher struct {
	// Client is used for http and https. nil means http.DefaultClient.
	Client *http.Client

	// MaxBytes caps the encoded image size. 0 means DefaultMaxBytes.
	MaxBytes int64
}

// Fetch downloads and decodes the image at rawURL. data: URLs are decoded in
// place without any network access.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	rawURL = strings.TrimSpace(rawURL)

	var data []byte
	if strings.HasPrefix(strings.ToLower(rawURL), "data:") {
		var err error
		if data, err = parseDataURL(rawURL); err != nil {
			return nil, err
		}
		if int64(len(data)) > f.maxBytes() {
			return nil, fmt.Errorf("data url: %d bytes: %w", len(data), ErrTooLarge)
		}
	} else {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
		default:
			return nil, fmt.Errorf("fetch %q: %w", u.Scheme, ErrUnsupportedScheme)
		}

		if data, err = f.download(ctx, u.String()); err != nil {
			return nil, err
		}
	}

	img, _, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// download reads the whole body, failing with ErrTooLarge rather than
// truncating when it exceeds MaxBytes.
func (f *Fetcher) download(ctx context.Context, u string) ([]byte, error) {
	rc, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	limit := f.maxBytes()
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("fetch %s: more than %d bytes: %w", u, limit, ErrTooLarge)
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &FetchError{URL: u, Status: resp.StatusCode, Err: errors.New(resp.Status)}
	}
	return resp.Body, nil
}

func (f *Fetcher) maxBytes() int64 {
	if f.MaxBytes > 0 {
		return f.MaxBytes
	}
	return DefaultMaxBytes
}

// parseDataURL extracts the payload of an RFC 2397 URL.
func parseDataURL(s string) ([]byte, error) {
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return nil, errors.New("data url: missing comma")
	}
	meta, payload := s[len("data:"):comma], s[comma+1:]

	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data url: %w", err)
		}
		return data, nil
	}

	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data url: %w", err)
	}
	return []byte(data), nil
}
