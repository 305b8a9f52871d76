package registry

import "time"

// VersionUnknown marks packages seeded without live registry data.
const VersionUnknown = "unknown"

// Package is one entry of a registry snapshot.
type Package struct {
	Attr       string   // registry identity, e.g. "firefox"
	Version    string   // VersionUnknown when not resolved from a live query
	DesktopIDs []string // desktop-file ids owned by the package; no current provider fills this in
}

// Snapshot maps registry identity to package. It is built once per run and
// read-only afterwards.
type Snapshot map[string]Package

// Provider supplies a registry snapshot. Implementations wrap an external
// lookup tool or data source; a canned implementation backs tests.
type Provider interface {
	// Name is a unique ID, e.g. "nix" or "rpmdir".
	Name() string

	// Query returns the (identity -> package) mapping, observing the given
	// bound on external work.
	Query(timeout time.Duration) (Snapshot, error)
}

var providers = make(map[string]Provider)

// Register makes a Provider available under its Name().
func Register(p Provider) {
	providers[p.Name()] = p
}

// Get returns the Provider by name.
func Get(name string) (Provider, bool) {
	p, ok := providers[name]
	return p, ok
}

// SeedCurated inserts a stub package, version unknown, for every curated
// target missing from the snapshot. Curated mappings must never be dropped
// just because the live registry query did not cover their target.
func SeedCurated(snap Snapshot, attrs []string) {
	for _, attr := range attrs {
		if _, ok := snap[attr]; !ok {
			snap[attr] = Package{Attr: attr, Version: VersionUnknown}
		}
	}
}
