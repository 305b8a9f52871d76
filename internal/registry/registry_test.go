package registry

import (
	"testing"
	"time"
)

type fakeProvider struct {
	name string
	snap Snapshot
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Query(timeout time.Duration) (Snapshot, error) {
	return f.snap, nil
}

func TestRegisterAndGet(t *testing.T) {
	p := &fakeProvider{name: "fake", snap: Snapshot{"firefox": {Attr: "firefox", Version: "128.0"}}}
	Register(p)

	got, ok := Get("fake")
	if !ok {
		t.Fatal("provider not found after Register")
	}
	snap, err := got.Query(time.Second)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if snap["firefox"].Version != "128.0" {
		t.Errorf("snapshot = %+v", snap)
	}

	if _, ok := Get("missing"); ok {
		t.Error("unexpected hit for unregistered provider")
	}
}

func TestSeedCurated(t *testing.T) {
	snap := Snapshot{
		"firefox": {Attr: "firefox", Version: "128.0"},
	}
	SeedCurated(snap, []string{"firefox", "vscode", "vlc"})

	if len(snap) != 3 {
		t.Fatalf("snapshot has %d entries, want 3", len(snap))
	}
	// live entries keep their version
	if snap["firefox"].Version != "128.0" {
		t.Errorf("firefox version overwritten: %q", snap["firefox"].Version)
	}
	// missing targets are stubbed
	for _, attr := range []string{"vscode", "vlc"} {
		pkg, ok := snap[attr]
		if !ok {
			t.Errorf("%s not seeded", attr)
			continue
		}
		if pkg.Version != VersionUnknown {
			t.Errorf("%s version = %q, want %q", attr, pkg.Version, VersionUnknown)
		}
	}
}
