package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-cleanhttp"
)

// maxFragmentSize bounds a single fetched fragment.
const maxFragmentSize = 8 << 20

// Fetcher reads the raw bytes behind a reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FileFetcher reads local files.
type FileFetcher struct{}

// Fetch reads the file at ref.
func (FileFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ref) //nolint:gosec // G304: deck files are user-chosen
	if err != nil {
		return nil, err
	}
	return checkText(ref, data)
}

// HTTPFetcher downloads http(s) references.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher with a pooled client that does not
// share global transport state.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: cleanhttp.DefaultPooledClient()}
}

// Fetch GETs ref. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/markdown, text/plain, application/yaml, application/json;q=0.9, */*;q=0.1")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", ref, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFragmentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxFragmentSize {
		return nil, fmt.Errorf("GET %s: response exceeds %d bytes", ref, maxFragmentSize)
	}
	return checkText(ref, data)
}

// checkText rejects binary content such as images linked by mistake.
func checkText(ref string, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%s is %s, not text", ref, mt.String())
}

var defaultHTTP = NewHTTPFetcher()

// FetcherFor picks a fetcher by the reference's scheme.
func FetcherFor(ref string) (Fetcher, error) {
	switch {
	case IsURL(ref):
		return defaultHTTP, nil
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("%s: %w", ref, ErrUnsupportedScheme)
	default:
		return FileFetcher{}, nil
	}
}
