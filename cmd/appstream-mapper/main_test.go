package main

import (
	"testing"
)

// TestMain_CreateRootCommand validates that the root command is properly configured
// with all expected flags and subcommands.
func TestMain_CreateRootCommand(t *testing.T) {
	root := createRootCommand()

	if root == nil {
		t.Fatal("createRootCommand returned nil")
	}

	// Verify command metadata
	if root.Use != "appstream-mapper" {
		t.Errorf("expected Use to be 'appstream-mapper', got %q", root.Use)
	}

	if root.Short == "" {
		t.Error("Short description should not be empty")
	}

	if root.Long == "" {
		t.Error("Long description should not be empty")
	}

	// Verify persistent flags are registered
	for _, name := range []string{"config", "log-level"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s to be registered", name)
		}
	}

	// Verify all expected subcommands are registered
	expectedCommands := map[string]bool{
		"map":                false,
		"validate":           false,
		"version":            false,
		"config":             false,
		"cache":              false,
		"install-completion": false,
	}

	for _, cmd := range root.Commands() {
		if _, exists := expectedCommands[cmd.Name()]; exists {
			expectedCommands[cmd.Name()] = true
		}
	}

	for cmdName, found := range expectedCommands {
		if !found {
			t.Errorf("expected subcommand %q to be registered", cmdName)
		}
	}
}

// TestMain_MapCommandFlags validates the map command flag surface.
func TestMain_MapCommandFlags(t *testing.T) {
	mapCmd := createMapCommand()

	flags := []struct {
		name      string
		shorthand string
	}{
		{"workers", "w"},
		{"cache-dir", "d"},
		{"output", "o"},
		{"feed", ""},
		{"feed-sig", ""},
		{"registry", ""},
		{"mappings", ""},
		{"no-icons", ""},
		{"offline", ""},
		{"mapping-only", ""},
	}

	for _, flag := range flags {
		f := mapCmd.Flags().Lookup(flag.name)
		if f == nil {
			t.Errorf("expected flag --%s to be registered", flag.name)
			continue
		}
		if flag.shorthand != "" && f.Shorthand != flag.shorthand {
			t.Errorf("flag --%s: expected shorthand %q, got %q", flag.name, flag.shorthand, f.Shorthand)
		}
	}
}
