// Package feed obtains the remote AppStream feed, caching the decompressed
// XML on disk so repeated runs inside the cache window skip the download.
package feed

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/open-edge-platform/appstream-mapper/internal/utils/compression"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
)

var log = logger.Logger()

// CacheFileName is the decompressed feed snapshot kept in the cache dir.
const CacheFileName = "flathub-appstream.xml"

const downloadTimeout = 10 * time.Minute

// Fetcher retrieves the feed from a URL or a local file.
type Fetcher struct {
	// Source is an http(s) URL or a local path to a feed file, possibly
	// compressed.
	Source string
	// CacheDir holds the decompressed snapshot between runs.
	CacheDir string
	// TTL is how long a cached snapshot stays fresh. Zero disables reuse.
	TTL time.Duration
	// Offline forbids network access; only a fresh cache or a local source
	// can satisfy the fetch.
	Offline bool

	client *http.Client
}

// Fetch returns the path of a decompressed feed XML file, downloading and
// caching it if needed.
func (f *Fetcher) Fetch() (string, error) {
	if isLocal(f.Source) {
		return f.fromLocal()
	}

	cached := filepath.Join(f.CacheDir, CacheFileName)
	if age, ok := cacheAge(cached); ok && age < f.TTL {
		log.Infof("using cached feed (age %s)", age.Round(time.Second))
		return cached, nil
	}
	if f.Offline {
		if _, err := os.Stat(cached); err == nil {
			log.Warnf("offline: reusing stale feed cache %s", cached)
			return cached, nil
		}
		return "", fmt.Errorf("offline and no cached feed at %s", cached)
	}
	return f.download(cached)
}

func (f *Fetcher) fromLocal() (string, error) {
	if _, err := os.Stat(f.Source); err != nil {
		return "", fmt.Errorf("feed file not readable: %w", err)
	}
	switch filepath.Ext(f.Source) {
	case ".gz", ".xz", ".zst":
		out := filepath.Join(f.CacheDir, CacheFileName)
		if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create cache dir: %w", err)
		}
		if err := compression.DecompressFile(f.Source, out); err != nil {
			return "", err
		}
		return out, nil
	default:
		return f.Source, nil
	}
}

func (f *Fetcher) download(cached string) (string, error) {
	if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: downloadTimeout}
	}

	log.Infof("downloading feed from %s", f.Source)
	resp, err := f.client.Get(f.Source)
	if err != nil {
		return "", fmt.Errorf("feed download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("feed download failed: unexpected status %s", resp.Status)
	}

	reader, err := compression.Reader(resp.Body, urlPath(f.Source))
	if err != nil {
		return "", err
	}
	defer reader.Close()

	tmp, err := os.CreateTemp(f.CacheDir, CacheFileName+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store feed: %w", err)
	}
	if err := os.Rename(tmp.Name(), cached); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to update feed cache: %w", err)
	}
	return cached, nil
}

func isLocal(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return true
	}
	return u.Scheme != "http" && u.Scheme != "https"
}

func urlPath(src string) string {
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		return u.Path
	}
	return src
}

func cacheAge(path string) (time.Duration, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}
