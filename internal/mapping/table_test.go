package mapping

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if table.Len() == 0 {
		t.Fatal("embedded table is empty")
	}
	for id, want := range map[string]string{
		"org.mozilla.firefox":   "firefox",
		"org.videolan.VLC":      "vlc",
		"com.visualstudio.code": "vscode",
	} {
		attr, ok := table.Lookup(id)
		if !ok || attr != want {
			t.Errorf("Lookup(%s) = %q, %v; want %q", id, attr, ok, want)
		}
	}
	if _, ok := table.Lookup("com.example.NotCurated"); ok {
		t.Errorf("unexpected hit for uncurated id")
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	content := `mappings:
  - desktop_id: org.example.App
    package: example
  - desktop_id: org.example.Other
    package: example
  - desktop_id: org.example.App
    package: example-bin
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len = %d, want 2", table.Len())
	}
	// last one wins for duplicate ids
	if attr, _ := table.Lookup("org.example.App"); attr != "example-bin" {
		t.Errorf("duplicate id resolved to %q, want example-bin", attr)
	}
	targets := table.Targets()
	if len(targets) != 2 || targets[0] != "example" || targets[1] != "example-bin" {
		t.Errorf("Targets = %v", targets)
	}
}

func TestLoadTableRejectsBadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := `mappings:
  - desktop_id: "org.example has spaces"
    package: example
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected schema validation error")
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
