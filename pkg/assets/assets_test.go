package assets

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmylchreest/orgpage/pkg/fetcher"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.org/img/logo.png", "logo.png"},
		{"https://example.org/img/logo.png?v=3#x", "logo.png"},
		{"https://example.org/img/my%20logo(1).png", "my_logo_1_.png"},
		{"https://example.org/img/логотип.svg", "_______.svg"},
		{"https://example.org/fonts/Site-Font_v2.woff2", "Site-Font_v2.woff2"},
		{"https://example.org/", DefaultName},
		{"https://example.org", DefaultName},
		{"https://example.org/img/", DefaultName},
		{"https://example.org/a/..", DefaultName},
		{"://bad", DefaultName},
	}

	for _, tt := range tests {
		if got := FileName(tt.url); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestRetriever_Download(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "assets", "images")
	r := NewRetriever(fetcher.NewStatic(fetcher.StaticConfig{}), fetcher.Options{})

	path, err := r.Download(context.Background(), srv.URL+"/img/logo.png", dir)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if path != filepath.Join(dir, "logo.png") {
		t.Errorf("path = %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("file content = %v, want %v", got, payload)
	}
}

func TestRetriever_Download_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "images")
	r := NewRetriever(fetcher.NewStatic(fetcher.StaticConfig{}), fetcher.Options{})

	_, err := r.Download(context.Background(), srv.URL+"/missing.png", dir)
	if !errors.Is(err, fetcher.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Errorf("directory should not be created on fetch failure, stat err = %v", statErr)
	}
}

func TestRetriever_Download_WriteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRetriever(fetcher.NewStatic(fetcher.StaticConfig{}), fetcher.Options{})
	_, err := r.Download(context.Background(), srv.URL+"/font.woff2", filepath.Join(blocker, "fonts"))

	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("expected *WriteError, got %T: %v", err, err)
	}
	if errors.Is(err, fetcher.ErrFetchFailed) {
		t.Error("write failure must not look like a fetch failure")
	}
}

func TestRetriever_Download_DataURL(t *testing.T) {
	r := NewRetriever(fetcher.NewStatic(fetcher.StaticConfig{}), fetcher.Options{})

	_, err := r.Download(context.Background(), "data:image/png;base64,iVBORw0KGgo=", t.TempDir())
	if !errors.Is(err, ErrUnsupportedURL) {
		t.Fatalf("expected ErrUnsupportedURL, got %v", err)
	}
}
