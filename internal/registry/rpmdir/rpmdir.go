package rpmdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/open-edge-platform/appstream-mapper/internal/registry"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
	"github.com/sassoftware/go-rpmutils"
)

const ProviderName = "rpmdir"

// Provider builds a registry snapshot from a directory of .rpm files, reading
// name and version straight out of each package header. Useful on hosts where
// the package set is a local RPM mirror rather than a queryable tool.
type Provider struct {
	Dir string
}

// Register makes the rpmdir provider available to the registry.
func Register(dir string) {
	registry.Register(&Provider{Dir: dir})
}

func (p *Provider) Name() string {
	return ProviderName
}

// Query scans the configured directory. Unreadable files are logged and
// skipped; only a missing directory fails the query as a whole.
func (p *Provider) Query(timeout time.Duration) (registry.Snapshot, error) {
	log := logger.Logger()

	if p.Dir == "" {
		return nil, fmt.Errorf("rpmdir provider requires registry.rpm_dir to be set")
	}

	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing rpm directory %s: %w", p.Dir, err)
	}

	deadline := time.Now().Add(timeout)
	snap := make(registry.Snapshot)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".rpm") {
			continue
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("scanning rpm directory %s: timed out after %s", p.Dir, timeout)
		}

		path := filepath.Join(p.Dir, entry.Name())
		name, version, err := readHeader(path)
		if err != nil {
			log.Errorf("reading rpm header %s: %v", path, err)
			continue
		}

		snap[name] = registry.Package{Attr: name, Version: version}
	}

	log.Infof("found %d packages in %s", len(snap), p.Dir)
	return snap, nil
}

func readHeader(path string) (string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("opening rpm: %w", err)
	}
	defer f.Close()

	rpm, err := rpmutils.ReadRpm(f)
	if err != nil {
		return "", "", fmt.Errorf("reading rpm: %w", err)
	}

	name, err := rpm.Header.GetString(rpmutils.NAME)
	if err != nil {
		return "", "", fmt.Errorf("reading NAME tag: %w", err)
	}
	version, err := rpm.Header.GetString(rpmutils.VERSION)
	if err != nil {
		return "", "", fmt.Errorf("reading VERSION tag: %w", err)
	}
	return name, version, nil
}
