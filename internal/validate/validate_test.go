package validate

import "testing"

func TestValidateConfigJSON(t *testing.T) {
	good := `{
  "workers": 8,
  "cache_dir": "./cache",
  "output_dir": "./flathub-mapped",
  "temp_dir": "./tmp",
  "feed": {
    "url": "https://dl.flathub.org/repo/appstream/x86_64/appstream.xml.gz",
    "icons_base_url": "https://dl.flathub.org/repo/appstream/x86_64/icons",
    "ttl_hours": 24
  },
  "registry": {"provider": "nix", "query_timeout_seconds": 300},
  "logging": {"level": "info"}
}`
	if err := ValidateConfigJSON([]byte(good)); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := `{"workers": 0, "registry": {"provider": "apt"}}`
	if err := ValidateConfigJSON([]byte(bad)); err == nil {
		t.Error("invalid config accepted")
	}

	if err := ValidateConfigJSON([]byte("{")); err == nil {
		t.Error("malformed JSON accepted")
	}
}

func TestValidateMappingsJSON(t *testing.T) {
	good := `{"mappings": [{"desktop_id": "org.mozilla.firefox", "package": "firefox"}]}`
	if err := ValidateMappingsJSON([]byte(good)); err != nil {
		t.Errorf("valid mappings rejected: %v", err)
	}

	bad := `{"mappings": [{"desktop_id": "has spaces", "package": "firefox"}]}`
	if err := ValidateMappingsJSON([]byte(bad)); err == nil {
		t.Error("invalid desktop_id accepted")
	}

	if err := ValidateMappingsJSON([]byte(`{}`)); err == nil {
		t.Error("missing mappings key accepted")
	}
}
