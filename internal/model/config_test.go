package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GitHub.PageLimit != DefaultPageLimit {
		t.Errorf("page limit = %d, want %d", cfg.GitHub.PageLimit, DefaultPageLimit)
	}
	if cfg.GitHub.BaseURL != DefaultBaseURL {
		t.Errorf("base url = %q, want %q", cfg.GitHub.BaseURL, DefaultBaseURL)
	}
	if cfg.Display.DefaultFilter != "unread" {
		t.Errorf("default filter = %q, want unread", cfg.Display.DefaultFilter)
	}
}

func TestLoadConfigOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `github:
  base_url: https://ghe.example.com/api/v3/
  page_limit: 20
display:
  default_filter: participating
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GitHub.BaseURL != "https://ghe.example.com/api/v3" {
		t.Errorf("base url = %q, trailing slash should be trimmed", cfg.GitHub.BaseURL)
	}
	if cfg.GitHub.PageLimit != 20 {
		t.Errorf("page limit = %d, want 20", cfg.GitHub.PageLimit)
	}
	if cfg.GitHub.TimeoutSec != DefaultTimeoutSec {
		t.Errorf("timeout = %d, want default %d", cfg.GitHub.TimeoutSec, DefaultTimeoutSec)
	}
	if cfg.Display.DefaultFilter != "participating" {
		t.Errorf("default filter = %q", cfg.Display.DefaultFilter)
	}
	if cfg.Display.MoreThreshold != DefaultMoreThreshold {
		t.Errorf("more threshold = %d, want default", cfg.Display.MoreThreshold)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero page limit":          "github:\n  page_limit: 0\n",
		"page limit above api cap": "github:\n  page_limit: 100\n",
		"unknown filter":           "display:\n  default_filter: starred\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidatePageLimitBounds(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.GitHub.PageLimit = MaxPageLimit
	if err := cfg.Validate(); err != nil {
		t.Errorf("page limit %d rejected: %v", MaxPageLimit, err)
	}

	// A larger limit would never see a full page, so HasMore could never be set.
	cfg.GitHub.PageLimit = MaxPageLimit + 1
	if err := cfg.Validate(); err == nil {
		t.Errorf("page limit %d accepted", MaxPageLimit+1)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.GitHub.PageLimit = 30
	cfg.Display.DefaultFilter = "all"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "page_limit: 30") {
		t.Errorf("saved config missing page_limit:\n%s", data)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.GitHub.PageLimit != 30 || loaded.Display.DefaultFilter != "all" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
