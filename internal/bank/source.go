package bank

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// maxDocumentBytes bounds how much of a remote bank document is read.
const maxDocumentBytes = 16 << 20

// HTTPSource fetches a bank document from a static URL.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", s.url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.url, err)
	}
	return data, nil
}

func (s *HTTPSource) String() string { return s.url }

// FileSource reads a bank document from the local filesystem.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}
	return data, nil
}

func (s *FileSource) String() string { return "file:" + s.path }

// StaticSource serves a fixed document (tests, embedded banks).
type StaticSource struct {
	name string
	data []byte
}

func NewStaticSource(name string, data []byte) *StaticSource {
	return &StaticSource{name: name, data: data}
}

func (s *StaticSource) Fetch(_ context.Context) ([]byte, error) {
	return s.data, nil
}

func (s *StaticSource) String() string { return "static:" + s.name }
