package configstore

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

// Document is the shared application configuration. Keys are top level
// only as far as merging is concerned.
type Document map[string]any

type Config struct {
	TTL  time.Duration `flag:"ttl" desc:"how long a fetched configuration is served from cache" default:"5s"`
	File string        `flag:"file" desc:"configuration document path" default:"config.json"`
	Url  string        `flag:"url" desc:"remote configuration server, takes precedence over file" default:""`
}

// Backend persists the whole document.
type Backend interface {
	String() string
	Read(context.Context) (Document, error)
	Write(context.Context, Document) error
}

// NewBackend returns the HTTP backend when a url is configured and the
// file backend otherwise.
func NewBackend(config *Config) Backend {
	if config.Url != "" {
		return NewHTTPBackend(config.Url, nil)
	}
	return NewFileBackend(config.File)
}

// Provider holds the last fetched document and serves it while it is
// younger than the configured TTL. Writers are serialised in process
// only; concurrent writers in other processes race, last writer wins.
type Provider struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	doc     Document
	fetched time.Time
}

func New(backend Backend, config *Config) *Provider {
	return &Provider{
		backend: backend,
		ttl:     config.TTL,
		now:     time.Now,
	}
}

func (p *Provider) String() string {
	return fmt.Sprintf("configstore(backend=%s, ttl=%s)", p.backend, p.ttl)
}

// Get returns the cached document if it is still fresh, otherwise it
// reads through to the backend.
func (p *Provider) Get(ctx context.Context) (Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.doc != nil && p.now().Sub(p.fetched) < p.ttl {
		return maps.Clone(p.doc), nil
	}

	return p.refresh(ctx)
}

// Refresh bypasses the cache.
func (p *Provider) Refresh(ctx context.Context) (Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.refresh(ctx)
}

// Update merges partial into the stored document, top level keys from
// partial winning, and writes the result back.
func (p *Provider) Update(ctx context.Context, partial Document) (Document, error) {
	if len(partial) == 0 {
		return nil, operation.Errorf(operation.CodeValidation, "no update data provided")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.backend.Read(ctx)
	if err != nil {
		return nil, err
	}

	merged := Merge(current, partial)
	if err := p.backend.Write(ctx, merged); err != nil {
		return nil, err
	}

	slog.Debug("config:update", "keys", len(partial))

	p.doc = merged
	p.fetched = p.now()

	return maps.Clone(merged), nil
}

// App returns the typed view of the current document.
func (p *Provider) App(ctx context.Context) (*App, error) {
	doc, err := p.Get(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(doc)
}

func (p *Provider) refresh(ctx context.Context) (Document, error) {
	doc, err := p.backend.Read(ctx)
	if err != nil {
		slog.Error("failed to read configuration", "backend", p.backend, "error", err)
		return nil, err
	}
	if doc == nil {
		doc = Document{}
	}

	p.doc = doc
	p.fetched = p.now()

	return maps.Clone(doc), nil
}

// Merge is a shallow merge, nested objects are replaced not combined.
func Merge(base Document, partial Document) Document {
	merged := make(Document, len(base)+len(partial))
	maps.Copy(merged, base)
	maps.Copy(merged, partial)
	return merged
}
