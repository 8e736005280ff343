package volume

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"
)

// Fetcher - Gets the raw bytes of a named volume document. Does not close the reader.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)
}

// DefaultFetchTimeout - client timeout when NewHTTPFetcher is given no client
const DefaultFetchTimeout = 30 * time.Second

// HTTPFetcher - Reads volume documents served as static files, e.g. http://localhost:1323/data
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &HTTPFetcher{BaseURL: strings.TrimSuffix(baseURL, "/"), Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/"+name, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to load %s: %s", name, resp.Status)
	}
	return resp.Body, nil
}

// DirFetcher - Reads volume documents straight off a filesystem
type DirFetcher struct {
	FS fs.FS
}

func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{FS: os.DirFS(dir)}
}

func (f *DirFetcher) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.FS.Open(name)
}
