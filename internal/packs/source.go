package packs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// maxPackSize bounds how much of a response body is read. The full JSON
// Against Humanity collection is a few megabytes.
const maxPackSize = 64 << 20

// ErrNoBaseURL is returned when a relative source URL cannot be resolved
// because no base URL is configured.
var ErrNoBaseURL = errors.New("relative url needs a base url")

// Source is a named location a pack collection can be downloaded from.
type Source struct {
	Name string
	URL  string
}

// DefaultSources lists the collections offered out of the box.
var DefaultSources = []Source{
	{
		Name: "JSON Against Humanity",
		URL:  "/cah-all-compact.json",
	},
}

// Fetcher retrieves the raw bytes of a pack collection.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPFetcher downloads collections over HTTP. Relative URLs are resolved
// against BaseURL.
type HTTPFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewHTTPFetcher returns an HTTPFetcher with a bounded request timeout.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: baseURL,
	}
}

// Resolve turns rawURL into an absolute URL.
func (f *HTTPFetcher) Resolve(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if f.BaseURL == "" {
		return "", fmt.Errorf("%w: %q", ErrNoBaseURL, rawURL)
	}
	base, err := url.Parse(f.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", f.BaseURL, err)
	}
	return base.ResolveReference(u).String(), nil
}

// Fetch downloads rawURL and returns the response body. Anything other than
// 200 OK is an error, as is a body larger than the pack size limit.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := f.Resolve(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", target, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPackSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if len(data) > maxPackSize {
		return nil, errors.New("pack collection exceeds size limit")
	}
	return data, nil
}

// DirFetcher serves relative URLs from a local directory, normally the one
// the server publishes as static files. Absolute URLs, and relative ones
// with no matching file, are passed to Next.
type DirFetcher struct {
	Dir  string
	Next Fetcher
}

// Fetch reads rawURL from Dir when it is relative and present there.
func (f *DirFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if f.Dir != "" && !u.IsAbs() && u.Host == "" {
		name := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
		data, err := fs.ReadFile(os.DirFS(f.Dir), name)
		switch {
		case err == nil:
			if len(data) > maxPackSize {
				return nil, errors.New("pack collection exceeds size limit")
			}
			return data, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	if f.Next == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoBaseURL, rawURL)
	}
	return f.Next.Fetch(ctx, rawURL)
}
