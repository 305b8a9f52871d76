package feed

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const feedBody = `<components version="0.16"><component type="desktop-application"><id>org.example.App</id></component></components>`

func gzipped(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFetchDownloadsAndDecompresses(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(gzipped(t, feedBody))
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	f := &Fetcher{
		Source:   srv.URL + "/appstream.xml.gz",
		CacheDir: cacheDir,
		TTL:      time.Hour,
	}

	path, err := f.Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if path != filepath.Join(cacheDir, CacheFileName) {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != feedBody {
		t.Errorf("cached feed = %q", data)
	}

	// a second fetch within the TTL reuses the cache
	if _, err := f.Fetch(); err != nil {
		t.Fatalf("second Fetch failed: %v", err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestFetchExpiredCacheRedownloads(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	cached := filepath.Join(cacheDir, CacheFileName)
	if err := os.WriteFile(cached, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(cached, old, old); err != nil {
		t.Fatal(err)
	}

	f := &Fetcher{Source: srv.URL + "/appstream.xml", CacheDir: cacheDir, TTL: 24 * time.Hour}
	path, err := f.Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != feedBody {
		t.Errorf("stale cache not replaced: %q", data)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := &Fetcher{Source: srv.URL + "/missing.xml", CacheDir: t.TempDir(), TTL: time.Hour}
	if _, err := f.Fetch(); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestFetchLocalPlainFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "feed.xml")
	if err := os.WriteFile(src, []byte(feedBody), 0o644); err != nil {
		t.Fatal(err)
	}

	f := &Fetcher{Source: src, CacheDir: filepath.Join(dir, "cache"), TTL: time.Hour}
	path, err := f.Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if path != src {
		t.Errorf("plain local file should be used in place, got %q", path)
	}
}

func TestFetchLocalCompressedFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "feed.xml.gz")
	if err := os.WriteFile(src, gzipped(t, feedBody), 0o644); err != nil {
		t.Fatal(err)
	}

	cacheDir := filepath.Join(dir, "cache")
	f := &Fetcher{Source: src, CacheDir: cacheDir, TTL: time.Hour}
	path, err := f.Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != feedBody {
		t.Errorf("decompressed feed = %q", data)
	}
}

func TestFetchOfflineWithoutCache(t *testing.T) {
	f := &Fetcher{
		Source:   "https://dl.flathub.org/repo/appstream/x86_64/appstream.xml.gz",
		CacheDir: t.TempDir(),
		TTL:      time.Hour,
		Offline:  true,
	}
	if _, err := f.Fetch(); err == nil {
		t.Fatal("expected error when offline with an empty cache")
	}
}

func TestFetchOfflineReusesStaleCache(t *testing.T) {
	cacheDir := t.TempDir()
	cached := filepath.Join(cacheDir, CacheFileName)
	if err := os.WriteFile(cached, []byte(feedBody), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-96 * time.Hour)
	if err := os.Chtimes(cached, old, old); err != nil {
		t.Fatal(err)
	}

	f := &Fetcher{
		Source:   "https://dl.flathub.org/repo/appstream/x86_64/appstream.xml.gz",
		CacheDir: cacheDir,
		TTL:      24 * time.Hour,
		Offline:  true,
	}
	path, err := f.Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if path != cached {
		t.Errorf("path = %q, want stale cache", path)
	}
}
