// Package mapping holds the curated desktop-id table and the matcher that
// correlates feed components with registry packages.
package mapping

import (
	"fmt"
	"sort"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/open-edge-platform/appstream-mapper/internal/utils/security"
	"github.com/open-edge-platform/appstream-mapper/internal/validate"
	"github.com/open-edge-platform/appstream-mapper/mappings"
)

// Table maps feed component ids (without the .desktop suffix) to registry
// attribute names. Duplicate ids keep the last entry seen.
type Table struct {
	entries map[string]string
}

type tableFile struct {
	Mappings []tableEntry `json:"mappings"`
}

type tableEntry struct {
	DesktopID string `json:"desktop_id"`
	Package   string `json:"package"`
}

// Lookup returns the curated attribute name for id, if any.
func (t *Table) Lookup(id string) (string, bool) {
	attr, ok := t.entries[id]
	return attr, ok
}

// Len returns the number of curated entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Targets returns the distinct attribute names the table points at, sorted.
func (t *Table) Targets() []string {
	seen := make(map[string]struct{}, len(t.entries))
	for _, attr := range t.entries {
		seen[attr] = struct{}{}
	}
	targets := make([]string, 0, len(seen))
	for attr := range seen {
		targets = append(targets, attr)
	}
	sort.Strings(targets)
	return targets
}

func parseTable(data []byte) (*Table, error) {
	jsonData, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping table: %w", err)
	}
	if err := validate.ValidateMappingsJSON(jsonData); err != nil {
		return nil, err
	}
	var file tableFile
	if err := sigsyaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode mapping table: %w", err)
	}
	entries := make(map[string]string, len(file.Mappings))
	for _, e := range file.Mappings {
		entries[e.DesktopID] = e.Package
	}
	return &Table{entries: entries}, nil
}

// Default returns the embedded curated table.
func Default() (*Table, error) {
	return parseTable(mappings.DesktopIDs)
}

// Load reads a curated table from an external YAML file.
func Load(path string) (*Table, error) {
	data, err := security.SafeReadFile(path, security.RejectSymlinks)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping table %s: %w", path, err)
	}
	return parseTable(data)
}
