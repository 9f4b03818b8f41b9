package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetchHTTPWritesBodyVerbatim(t *testing.T) {
	payload := []byte("%PDF-1.4 fake content")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "artifact.pdf")
	f := NewFetcher()
	if err := f.Fetch(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("downloaded bytes differ from response body")
	}
}

func TestFetchHTTPNon2xxReturnsDownloadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "missing.jpg")
	f := NewFetcher()
	err := f.Fetch(context.Background(), server.URL+"/missing.jpg", dest)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("expected *DownloadError, got %T: %v", err, err)
	}
	if dlErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", dlErr.StatusCode)
	}
	if !strings.Contains(dlErr.Error(), "404") {
		t.Errorf("error message %q should contain the HTTP status", dlErr.Error())
	}
	if _, statErr := os.Stat(dest); statErr == nil {
		t.Error("destination file should not exist after failed download")
	}
}

func TestFetchPDFUsesHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher()
	err := f.FetchPDF(context.Background(), server.URL+"/card.pdf", filepath.Join(t.TempDir(), "card.pdf"))
	var dlErr *DownloadError
	if !errors.As(err, &dlErr) || dlErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected DownloadError with status 500, got %v", err)
	}
}

func TestFetchLocalCopies(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "front.png")
	content := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	if err := os.WriteFile(src, content, 0644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "copied.png")
	f := NewFetcher()
	if err := f.Fetch(context.Background(), src, dest); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Error("local copy differs from source")
	}
}

func TestFetchLocalMissingFile(t *testing.T) {
	f := NewFetcher()
	err := f.Fetch(context.Background(), filepath.Join(t.TempDir(), "no-such.png"), filepath.Join(t.TempDir(), "out.png"))
	if err == nil {
		t.Error("expected error for missing local source")
	}
}
