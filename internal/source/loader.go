package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

var (
	ErrEmptyLocation = errors.New("source: location is required")
	ErrEmptyDocument = errors.New("source: document is empty")
	ErrHTTPDisabled  = errors.New("source: http support disabled")
)

// Loader reads documents from files, an fs.FS or HTTP.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the file system FromFS sources resolve against.
func WithFS(files fs.FS) Option {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithHTTP enables URL sources. A nil client uses a fresh http.Client.
func WithHTTP(client *http.Client, timeout time.Duration) Option {
	return func(l *Loader) {
		if client == nil {
			client = &http.Client{}
		}
		clone := *client
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		l.http = &clone
		l.timeout = timeout
	}
}

// NewLoader constructs a loader; HTTP is disabled unless WithHTTP is given.
func NewLoader(options ...Option) *Loader {
	l := &Loader{}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load fetches the document behind src.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("source: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case KindFile:
		data, err = loadFile(ctx, src.Location())
	case KindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case KindURL:
		if l.http == nil {
			return Document{}, ErrHTTPDisabled
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = fmt.Errorf("source: unsupported kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("source: load %s: %w", src.Location(), err)
	}
	return NewDocument(src, data)
}

// LoadLocation parses location and loads it.
func (l *Loader) LoadLocation(ctx context.Context, location string) (Document, error) {
	src, err := Parse(location)
	if err != nil {
		return Document{}, err
	}
	return l.Load(ctx, src)
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if files == nil {
		return nil, errors.New("fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(files, name)
}

func loadHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
