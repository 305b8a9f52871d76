package nix

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/open-edge-platform/appstream-mapper/internal/registry"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/shell"
)

const ProviderName = "nix"

// Provider queries nixpkgs through `nix search` for a (attr, version)
// snapshot of the package registry.
type Provider struct{}

// Register makes the nix provider available to the registry.
func Register() {
	registry.Register(&Provider{})
}

func (p *Provider) Name() string {
	return ProviderName
}

// Query runs nix search over all of nixpkgs. This can take minutes on a cold
// evaluation cache, hence the caller-supplied bound.
func (p *Provider) Query(timeout time.Duration) (registry.Snapshot, error) {
	log := logger.Logger()
	log.Infof("running nix search (this may take a while)...")

	cmdStr := "nix search nixpkgs --json . --extra-experimental-features 'nix-command flakes'"
	out, err := shell.ExecCmdWithTimeout(cmdStr, nil, timeout)
	if err != nil {
		return nil, fmt.Errorf("running nix search: %w", err)
	}

	snap, err := parseSearchOutput([]byte(out))
	if err != nil {
		return nil, err
	}

	log.Infof("found %d packages in nixpkgs", len(snap))
	return snap, nil
}

// parseSearchOutput turns nix search JSON into a snapshot. Keys look like
// "legacyPackages.x86_64-linux.firefox"; the last segment is the attribute.
func parseSearchOutput(data []byte) (registry.Snapshot, error) {
	var results map[string]struct {
		Pname       string `json:"pname"`
		Version     string `json:"version"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parsing nix search output: %w", err)
	}

	snap := make(registry.Snapshot, len(results))
	for attrPath, info := range results {
		parts := strings.Split(attrPath, ".")
		if len(parts) < 3 {
			continue
		}
		attr := parts[len(parts)-1]

		version := info.Version
		if version == "" {
			version = registry.VersionUnknown
		}

		snap[attr] = registry.Package{Attr: attr, Version: version}
	}
	return snap, nil
}
