package catalog

import (
	"compress/gzip"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/open-edge-platform/appstream-mapper/internal/appstream"
)

func fragment(t *testing.T, id, pkgname string) *appstream.Element {
	t.Helper()
	doc := `<component type="desktop-application"><id>` + id +
		`</id><pkgname>` + pkgname + `</pkgname></component>`
	var e appstream.Element
	if err := xml.Unmarshal([]byte(doc), &e); err != nil {
		t.Fatalf("unmarshal fragment: %v", err)
	}
	return &e
}

func TestBuildRootAttributes(t *testing.T) {
	root := Build([]*appstream.Element{fragment(t, "org.mozilla.firefox", "firefox")})
	if root.XMLName.Local != "components" {
		t.Errorf("root element = %q", root.XMLName.Local)
	}
	if root.Attr("version") != FormatVersion {
		t.Errorf("version = %q, want %q", root.Attr("version"), FormatVersion)
	}
	if root.Attr("origin") != Origin {
		t.Errorf("origin = %q, want %q", root.Attr("origin"), Origin)
	}
	if len(root.Children) != 1 {
		t.Errorf("children = %d", len(root.Children))
	}
}

func TestWriteEmitsPlainAndGzip(t *testing.T) {
	outDir := t.TempDir()
	root := Build([]*appstream.Element{
		fragment(t, "org.mozilla.firefox", "firefox"),
		fragment(t, "org.videolan.VLC", "vlc"),
	})

	path, err := Write(root, outDir)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if path != filepath.Join(outDir, "xml", FileName) {
		t.Errorf("path = %q", path)
	}

	plain, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading catalog: %v", err)
	}
	text := string(plain)
	if !strings.HasPrefix(text, xml.Header) {
		t.Errorf("missing XML declaration")
	}
	if !strings.Contains(text, `origin="nixpkgs-flathub"`) || !strings.Contains(text, `version="0.16"`) {
		t.Errorf("root attributes missing:\n%s", text)
	}
	if !strings.Contains(text, "<pkgname>firefox</pkgname>") {
		t.Errorf("component content missing")
	}

	// the parsed document must round-trip
	var reparsed appstream.Element
	if err := xml.Unmarshal(plain, &reparsed); err != nil {
		t.Fatalf("catalog does not reparse: %v", err)
	}
	if len(reparsed.Children) != 2 {
		t.Errorf("reparsed children = %d, want 2", len(reparsed.Children))
	}

	// the gzip copy decompresses to the plain file
	gzFile, err := os.Open(path + ".gz")
	if err != nil {
		t.Fatalf("opening gzip catalog: %v", err)
	}
	defer gzFile.Close()
	gr, err := gzip.NewReader(gzFile)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer gr.Close()
	unzipped, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("decompressing catalog: %v", err)
	}
	if string(unzipped) != text {
		t.Errorf("gzip copy differs from plain catalog")
	}
}

func TestWriteEmptyCatalog(t *testing.T) {
	outDir := t.TempDir()
	if _, err := Write(Build(nil), outDir); err != nil {
		t.Fatalf("Write failed for empty catalog: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "xml", FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "components") {
		t.Errorf("empty catalog lacks root element")
	}
}
