package configstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

// FileBackend keeps the document as an indented JSON file. Writes go to
// a temporary file in the same directory and are renamed into place.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) String() string {
	return fmt.Sprintf("file(path=%s)", b.path)
}

func (b *FileBackend) Read(_ context.Context) (Document, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", b.path, err)
	}

	return doc, nil
}

func (b *FileBackend) Write(_ context.Context, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// keep the mode of the document being replaced
	mode := os.FileMode(0o644)
	if info, err := os.Stat(b.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), b.path)
}

// HTTPBackend reads and writes the document through a config server
// exposing GET /api/config and POST /api/writeConfig.
type HTTPBackend struct {
	url  string
	http *http.Client
}

func NewHTTPBackend(url string, client *http.Client) *HTTPBackend {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &HTTPBackend{
		url:  strings.TrimRight(url, "/"),
		http: client,
	}
}

func (b *HTTPBackend) String() string {
	return fmt.Sprintf("http(url=%s)", b.url)
}

func (b *HTTPBackend) Read(ctx context.Context) (Document, error) {
	var doc Document
	if err := b.do(ctx, http.MethodGet, "/api/config", nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *HTTPBackend) Write(ctx context.Context, doc Document) error {
	var res struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}

	if err := b.do(ctx, http.MethodPost, "/api/writeConfig", doc, &res); err != nil {
		return err
	}
	if !res.Success {
		return operation.Errorf(operation.CodeRemoteRejection, "config server rejected update: %s", res.Error)
	}

	return nil
}

func (b *HTTPBackend) do(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.url+path, reader)
	if err != nil {
		return operation.NewError(operation.CodeValidation, "invalid config server url", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := b.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return operation.ErrCancelled
		}
		return operation.NewError(operation.CodeTransport, "config server unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		data, _ := io.ReadAll(res.Body)
		return operation.Errorf(operation.CodeTransport, "config server returned %d: %s", res.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return operation.NewError(operation.CodeTransport, "invalid config server response", err)
	}

	return nil
}
