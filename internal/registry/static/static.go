package static

import (
	"time"

	"github.com/open-edge-platform/appstream-mapper/internal/registry"
)

const ProviderName = "static"

// Provider serves a canned snapshot. It backs deterministic tests and runs
// where no live registry query is wanted; with no packages configured the
// snapshot is empty and coverage is driven by curated mappings alone.
type Provider struct {
	Packages registry.Snapshot
}

// Register makes a static provider with the given packages available.
func Register(packages registry.Snapshot) {
	registry.Register(&Provider{Packages: packages})
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Query(timeout time.Duration) (registry.Snapshot, error) {
	snap := make(registry.Snapshot, len(p.Packages))
	for attr, pkg := range p.Packages {
		snap[attr] = pkg
	}
	return snap, nil
}
