package mapping

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/open-edge-platform/appstream-mapper/internal/appstream"
	"github.com/open-edge-platform/appstream-mapper/internal/config/version"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/security"
)

const (
	// unmappedWindow bounds how far into the feed the unmapped sample looks.
	unmappedWindow = 100
	// unmappedSampleMax caps the unmapped sample itself.
	unmappedSampleMax = 20
)

// ReportEntry is one correspondence enriched with the feed display name.
type ReportEntry struct {
	FlathubID   string  `json:"flathub_id"`
	Attr        string  `json:"nixpkgs_attr"`
	Version     string  `json:"nixpkgs_version"`
	Confidence  float64 `json:"confidence"`
	FlathubName string  `json:"flathub_name"`
}

// Report summarizes one correlation run.
type Report struct {
	RunID           string        `json:"run_id"`
	GeneratedAt     string        `json:"generated_at"`
	Tool            string        `json:"tool"`
	ToolVersion     string        `json:"tool_version"`
	TotalComponents int           `json:"total_flathub_components"`
	TotalMappings   int           `json:"total_mappings"`
	CoveragePercent float64       `json:"coverage_percent"`
	Mappings        []ReportEntry `json:"mappings"`
	UnmappedPopular []string      `json:"unmapped_popular"`
}

// BuildReport assembles the run report from the feed and the correspondences.
func BuildReport(feed *appstream.Feed, matches []Correspondence) *Report {
	rpt := &Report{
		RunID:           uuid.NewString(),
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Tool:            "appstream-mapper",
		ToolVersion:     version.Version,
		TotalComponents: feed.Len(),
		TotalMappings:   len(matches),
		Mappings:        make([]ReportEntry, 0, len(matches)),
		UnmappedPopular: []string{},
	}
	if rpt.TotalComponents > 0 {
		rpt.CoveragePercent = float64(rpt.TotalMappings) / float64(rpt.TotalComponents) * 100
	}

	matched := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		matched[m.FlathubID] = struct{}{}
		name := ""
		if c, ok := feed.Get(m.FlathubID); ok {
			name = c.Name
		}
		rpt.Mappings = append(rpt.Mappings, ReportEntry{
			FlathubID:   m.FlathubID,
			Attr:        m.Attr,
			Version:     m.Version,
			Confidence:  m.Confidence,
			FlathubName: name,
		})
	}

	// Sample unmapped components from the head of the feed, where the most
	// prominent applications tend to sit.
	for i, id := range feed.IDs() {
		if i >= unmappedWindow || len(rpt.UnmappedPopular) >= unmappedSampleMax {
			break
		}
		if _, ok := matched[id]; !ok {
			rpt.UnmappedPopular = append(rpt.UnmappedPopular, id)
		}
	}
	return rpt
}

// Write serializes the report as indented JSON to path.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')
	if err := security.SafeWriteFile(path, data, 0o644, security.RejectSymlinks); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
