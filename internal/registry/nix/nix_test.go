package nix

import (
	"testing"

	"github.com/open-edge-platform/appstream-mapper/internal/registry"
)

func TestParseSearchOutput(t *testing.T) {
	data := []byte(`{
  "legacyPackages.x86_64-linux.firefox": {
    "pname": "firefox",
    "version": "128.0",
    "description": "A web browser"
  },
  "legacyPackages.x86_64-linux.vlc": {
    "pname": "vlc",
    "version": "3.0.20",
    "description": "Media player"
  },
  "legacyPackages.x86_64-linux.jetbrains.idea-community": {
    "pname": "idea-community",
    "version": "2024.1",
    "description": "IDE"
  },
  "legacyPackages.x86_64-linux.versionless": {
    "pname": "versionless",
    "version": "",
    "description": ""
  },
  "tooShort": {
    "pname": "ignored",
    "version": "1.0",
    "description": ""
  }
}`)

	snap, err := parseSearchOutput(data)
	if err != nil {
		t.Fatalf("parseSearchOutput failed: %v", err)
	}

	if pkg := snap["firefox"]; pkg.Version != "128.0" {
		t.Errorf("firefox = %+v", pkg)
	}
	if pkg := snap["vlc"]; pkg.Version != "3.0.20" {
		t.Errorf("vlc = %+v", pkg)
	}
	// nested attribute paths keep only the last segment
	if pkg, ok := snap["idea-community"]; !ok || pkg.Version != "2024.1" {
		t.Errorf("idea-community = %+v, ok %v", pkg, ok)
	}
	// empty versions fall back to the unknown marker
	if pkg := snap["versionless"]; pkg.Version != registry.VersionUnknown {
		t.Errorf("versionless = %+v", pkg)
	}
	// keys without a full attribute path are skipped
	if _, ok := snap["tooShort"]; ok {
		t.Error("short attribute path should be skipped")
	}
}

func TestParseSearchOutputBadJSON(t *testing.T) {
	if _, err := parseSearchOutput([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed search output")
	}
}
