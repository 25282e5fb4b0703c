package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes caps how much of a page is read.
const maxBodyBytes = 10 << 20

// ErrBodyTooLarge is returned for pages larger than the body limit.
var ErrBodyTooLarge = errors.New("response body too large")

type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		maxBytes: maxBodyBytes,
	}
}

// GetHtmlBytes downloads url and returns the response body.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(bodyBytes)) > f.maxBytes {
		return nil, fmt.Errorf("failed to read %s: %w (limit %d bytes)", url, ErrBodyTooLarge, f.maxBytes)
	}
	return bodyBytes, nil
}
