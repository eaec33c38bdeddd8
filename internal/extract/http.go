package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
)

// Fetch limits. Study PDFs are small; a hard cap keeps a hostile or
// misconfigured source from exhausting worker memory.
const (
	defaultFetchTimeout = 60 * time.Second
	maxDocumentBytes    = 32 << 20 // 32 MiB
)

// HTTPExtractor fetches a document over HTTP(S) and converts it to plain
// text. It handles both plain URLs and Dropbox share links; the latter
// are rewritten to direct-download form before fetching.
type HTTPExtractor struct {
	client *http.Client
}

// NewHTTPExtractor creates an HTTPExtractor. A nil client gets a default
// with a sane timeout.
func NewHTTPExtractor(client *http.Client) *HTTPExtractor {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &HTTPExtractor{client: client}
}

// Extract fetches the referenced document and returns its plain text.
func (e *HTTPExtractor) Extract(ctx context.Context, ref domain.SourceRef) (string, error) {
	location := ref.Location
	if ref.Kind == domain.RefKindDropbox {
		normalized, err := normalizeDropboxLink(location)
		if err != nil {
			return "", err
		}
		location = normalized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request for %q: %v", ErrExtraction, location, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching %q: %v", ErrExtraction, location, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: fetching %q: unexpected status %d",
			ErrExtraction, location, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading %q: %v", ErrExtraction, location, err)
	}
	if len(data) > maxDocumentBytes {
		return "", fmt.Errorf("%w: %q exceeds the %d byte limit",
			ErrExtraction, location, maxDocumentBytes)
	}

	return documentText(data)
}

// normalizeDropboxLink rewrites a Dropbox share link so it serves the
// file content directly instead of the preview page (dl=1).
func normalizeDropboxLink(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: malformed Dropbox link %q: %v", ErrExtraction, location, err)
	}

	q := u.Query()
	q.Set("dl", "1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
