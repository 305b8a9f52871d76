// Package catalog assembles the merged AppStream catalog and writes it to
// disk in both plain and gzip-compressed form.
package catalog

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/open-edge-platform/appstream-mapper/internal/appstream"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/compression"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
)

var log = logger.Logger()

const (
	// FormatVersion is the AppStream catalog format version emitted.
	FormatVersion = "0.16"
	// Origin identifies the producer of the merged catalog.
	Origin = "nixpkgs-flathub"
	// FileName is the base name of the emitted catalog.
	FileName = "nixpkgs-flathub_x86_64.xml"
)

// Build wraps rewritten component fragments in a catalog root element.
func Build(components []*appstream.Element) *appstream.Element {
	root := &appstream.Element{
		XMLName:  xml.Name{Local: "components"},
		Children: components,
	}
	root.SetAttr("version", FormatVersion)
	root.SetAttr("origin", Origin)
	return root
}

// Write serializes the catalog under outputDir/xml/ and produces a gzipped
// sibling next to the plain file. It returns the plain file path.
func Write(root *appstream.Element, outputDir string) (string, error) {
	dir := filepath.Join(outputDir, "xml")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create catalog directory %s: %w", dir, err)
	}

	data, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')

	outFile := filepath.Join(dir, FileName)
	if err := os.WriteFile(outFile, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write catalog %s: %w", outFile, err)
	}
	if err := compression.CompressFileGZ(outFile, outFile+".gz"); err != nil {
		return "", err
	}
	log.Infof("wrote catalog with %d components to %s", len(root.Children), outFile)
	return outFile, nil
}
