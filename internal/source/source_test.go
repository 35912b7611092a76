package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		location string
		kind     Kind
		wantErr  bool
	}{
		{location: "codes.txt", kind: KindFile},
		{location: "https://example.com/codes.txt", kind: KindURL},
		{location: "HTTP://example.com/codes.txt", kind: KindURL},
		{location: "  ", wantErr: true},
	}
	for _, tt := range tests {
		src, err := Parse(tt.location)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.location)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.location, err)
		}
		if src.Kind() != tt.kind {
			t.Fatalf("Parse(%q) kind = %s, want %s", tt.location, src.Kind(), tt.kind)
		}
	}

	if _, err := FromURL("ftp://example.com/x"); err == nil {
		t.Fatalf("expected scheme error")
	}
}

func TestLoader_FileAndFS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codes.txt")
	if err := os.WriteFile(path, []byte("MRC Morocco\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	loader := NewLoader(WithFS(fstest.MapFS{"codes.txt": {Data: []byte("PRU Peru\n")}}))

	doc, err := loader.LoadLocation(context.Background(), path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if string(doc.Raw()) != "MRC Morocco\n" || doc.Location() != path {
		t.Fatalf("unexpected document %q from %q", doc.Raw(), doc.Location())
	}

	doc, err = loader.Load(context.Background(), FromFS("codes.txt"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if string(doc.Raw()) != "PRU Peru\n" {
		t.Fatalf("unexpected fs document %q", doc.Raw())
	}

	if _, err := loader.LoadLocation(context.Background(), filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestLoader_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("TBC\n"))
	}))
	defer server.Close()

	if _, err := NewLoader().LoadLocation(context.Background(), server.URL+"/codes"); !errors.Is(err, ErrHTTPDisabled) {
		t.Fatalf("expected ErrHTTPDisabled, got %v", err)
	}

	loader := NewLoader(WithHTTP(server.Client(), time.Second))
	doc, err := loader.LoadLocation(context.Background(), server.URL+"/codes")
	if err != nil {
		t.Fatalf("load url: %v", err)
	}
	if string(doc.Raw()) != "TBC\n" {
		t.Fatalf("unexpected body %q", doc.Raw())
	}

	if _, err := loader.LoadLocation(context.Background(), server.URL+"/missing"); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestNewDocument_RejectsEmpty(t *testing.T) {
	if _, err := NewDocument(FromFile("x"), nil); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}
