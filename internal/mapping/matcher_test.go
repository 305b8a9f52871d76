package mapping

import (
	"strings"
	"testing"

	"github.com/open-edge-platform/appstream-mapper/internal/appstream"
	"github.com/open-edge-platform/appstream-mapper/internal/registry"
)

func feedOf(t *testing.T, ids ...string) *appstream.Feed {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<components>`)
	for _, id := range ids {
		b.WriteString(`<component type="desktop-application"><id>`)
		b.WriteString(id)
		b.WriteString(`</id><name>`)
		b.WriteString(id)
		b.WriteString(`</name></component>`)
	}
	b.WriteString(`</components>`)
	feed, err := appstream.ParseFeed(strings.NewReader(b.String()), "https://icons.example.org")
	if err != nil {
		t.Fatalf("ParseFeed failed: %v", err)
	}
	return feed
}

func tableOf(entries map[string]string) *Table {
	return &Table{entries: entries}
}

func TestMatchCurated(t *testing.T) {
	feed := feedOf(t, "org.mozilla.firefox.desktop")
	snap := registry.Snapshot{
		"firefox": {Attr: "firefox", Version: "128.0"},
	}
	table := tableOf(map[string]string{"org.mozilla.firefox": "firefox"})

	matches := Match(feed, snap, table)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.FlathubID != "org.mozilla.firefox" || m.Attr != "firefox" ||
		m.Version != "128.0" || m.Confidence != ConfidenceCurated {
		t.Errorf("match = %+v", m)
	}
}

func TestMatchHeuristic(t *testing.T) {
	feed := feedOf(t, "org.videolan.VLC")
	snap := registry.Snapshot{
		"vlc": {Attr: "vlc", Version: "3.0.20"},
	}
	table := tableOf(nil)

	matches := Match(feed, snap, table)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Attr != "vlc" || m.Version != "3.0.20" || m.Confidence != ConfidenceHeuristic {
		t.Errorf("match = %+v", m)
	}
}

func TestMatchNoCorrespondence(t *testing.T) {
	feed := feedOf(t, "com.example.UnknownApp")
	snap := registry.Snapshot{
		"firefox": {Attr: "firefox", Version: "128.0"},
	}
	matches := Match(feed, snap, tableOf(nil))
	if len(matches) != 0 {
		t.Fatalf("got %d matches, want 0", len(matches))
	}
}

func TestMatchCuratedFallsThroughToHeuristic(t *testing.T) {
	// Curated target absent from the snapshot: the heuristic still applies.
	feed := feedOf(t, "org.gnome.Maps")
	snap := registry.Snapshot{
		"maps": {Attr: "maps", Version: "45.0"},
	}
	table := tableOf(map[string]string{"org.gnome.Maps": "gnome-maps"})

	matches := Match(feed, snap, table)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Attr != "maps" || m.Confidence != ConfidenceHeuristic {
		t.Errorf("match = %+v", m)
	}
}

func TestMatchCuratedAgainstSeededStub(t *testing.T) {
	feed := feedOf(t, "com.visualstudio.code")
	table := tableOf(map[string]string{"com.visualstudio.code": "vscode"})
	snap := registry.Snapshot{}
	registry.SeedCurated(snap, table.Targets())

	matches := Match(feed, snap, table)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Attr != "vscode" || m.Version != registry.VersionUnknown ||
		m.Confidence != ConfidenceCurated {
		t.Errorf("match = %+v", m)
	}
}

func TestMatchHeuristicIsCaseInsensitive(t *testing.T) {
	feed := feedOf(t, "org.audacityteam.Audacity")
	snap := registry.Snapshot{
		"audacity": {Attr: "audacity", Version: "3.4"},
	}
	matches := Match(feed, snap, tableOf(nil))
	if len(matches) != 1 || matches[0].Attr != "audacity" {
		t.Fatalf("matches = %+v", matches)
	}
}

func TestMatchOnePerComponentInFeedOrder(t *testing.T) {
	feed := feedOf(t,
		"org.mozilla.firefox",
		"com.example.Nothing",
		"org.videolan.VLC",
	)
	snap := registry.Snapshot{
		"firefox": {Attr: "firefox", Version: "128.0"},
		"vlc":     {Attr: "vlc", Version: "3.0.20"},
	}
	table := tableOf(map[string]string{"org.mozilla.firefox": "firefox"})

	matches := Match(feed, snap, table)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].FlathubID != "org.mozilla.firefox" || matches[1].FlathubID != "org.videolan.VLC" {
		t.Errorf("match order = %s, %s", matches[0].FlathubID, matches[1].FlathubID)
	}
	seen := map[string]int{}
	for _, m := range matches {
		seen[m.FlathubID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("%s matched %d times", id, n)
		}
	}
}
