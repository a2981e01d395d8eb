package performance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Source yields the raw bytes of one delimited time series.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// SourceFor picks an HTTP source for http(s) URLs and a file source otherwise.
func SourceFor(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location}
	}
	return &FileSource{Path: location}
}

// FileSource reads a local file.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return s.Path }

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(s.Path)
}

// HTTPSource fetches a static file with a single GET; there is no retry.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Name() string { return s.URL }

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 120))
		resp.Body.Close()
		return nil, fmt.Errorf("%s returned %d: %s", s.URL, resp.StatusCode, preview)
	}
	return resp.Body, nil
}

// StaticSource serves an in-memory body.
type StaticSource struct {
	Label string
	Body  []byte
}

func (s *StaticSource) Name() string { return s.Label }

func (s *StaticSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(s.Body)), nil
}

// readSource drains src, treating an empty body as a failure.
func readSource(ctx context.Context, src Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptySource
	}
	return body, nil
}
