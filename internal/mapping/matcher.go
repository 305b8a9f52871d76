package mapping

import (
	"strings"

	"github.com/open-edge-platform/appstream-mapper/internal/appstream"
	"github.com/open-edge-platform/appstream-mapper/internal/registry"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
)

var log = logger.Logger()

const (
	// ConfidenceCurated marks a correspondence backed by the curated table.
	ConfidenceCurated = 1.0
	// ConfidenceHeuristic marks a correspondence found by name matching.
	ConfidenceHeuristic = 0.8
)

// Correspondence records one feed component resolved to a registry package.
type Correspondence struct {
	FlathubID  string  `json:"flathub_id"`
	Attr       string  `json:"nixpkgs_attr"`
	Version    string  `json:"nixpkgs_version"`
	Confidence float64 `json:"confidence"`
}

// Match correlates every feed component with the registry snapshot, in feed
// order. Curated entries only count when the target attribute is present in
// the snapshot; otherwise the component falls through to the heuristic, which
// tries the lowercased last dot-segment of the component id as an attribute
// name. Each component yields at most one correspondence.
func Match(feed *appstream.Feed, snap registry.Snapshot, table *Table) []Correspondence {
	matches := make([]Correspondence, 0, feed.Len())
	for _, id := range feed.IDs() {
		if attr, ok := table.Lookup(id); ok {
			if pkg, found := snap[attr]; found {
				matches = append(matches, Correspondence{
					FlathubID:  id,
					Attr:       attr,
					Version:    pkg.Version,
					Confidence: ConfidenceCurated,
				})
				continue
			}
		}
		candidate := heuristicAttr(id)
		if pkg, found := snap[candidate]; found {
			matches = append(matches, Correspondence{
				FlathubID:  id,
				Attr:       candidate,
				Version:    pkg.Version,
				Confidence: ConfidenceHeuristic,
			})
		}
	}
	log.Infof("matched %d of %d feed components", len(matches), feed.Len())
	return matches
}

// heuristicAttr derives a candidate attribute name from a reverse-DNS
// component id: the last dot-segment, lowercased.
func heuristicAttr(id string) string {
	segs := strings.Split(id, ".")
	return strings.ToLower(segs[len(segs)-1])
}
