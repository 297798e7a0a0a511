package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Feature: fitflex, Property: config merge precedence
func TestConfigMergePrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.:-]{1,20}`)

	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasAPIURL") {
			cfg.APIURL = nonEmptyString.Draw(t, "apiURL")
		}
		if rapid.Bool().Draw(t, "hasMessageDelay") {
			cfg.MessageDelay = nonEmptyString.Draw(t, "messageDelay")
		}
		if rapid.Bool().Draw(t, "hasLogLevel") {
			cfg.LogLevel = nonEmptyString.Draw(t, "logLevel")
		}
		if rapid.Bool().Draw(t, "hasDefaultDuration") {
			cfg.DefaultDuration = rapid.IntRange(1, 120).Draw(t, "defaultDuration")
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "APIURL", global.APIURL, project.APIURL, defaults.APIURL, merged.APIURL)
		checkStringField(t, "MessageDelay", global.MessageDelay, project.MessageDelay, defaults.MessageDelay, merged.MessageDelay)
		checkStringField(t, "LogLevel", global.LogLevel, project.LogLevel, defaults.LogLevel, merged.LogLevel)

		wantDuration := defaults.DefaultDuration
		if global.DefaultDuration > 0 {
			wantDuration = global.DefaultDuration
		}
		if project.DefaultDuration > 0 {
			wantDuration = project.DefaultDuration
		}
		if merged.DefaultDuration != wantDuration {
			t.Fatalf("DefaultDuration: want %d, got %d", wantDuration, merged.DefaultDuration)
		}
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty  → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set: expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set: expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set: expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.APIURL != "http://localhost:8000" {
		t.Errorf("APIURL: want %q, got %q", "http://localhost:8000", d.APIURL)
	}
	delay, err := d.NoticeDelay()
	if err != nil {
		t.Fatalf("NoticeDelay: %v", err)
	}
	if delay != 3*time.Second {
		t.Errorf("NoticeDelay: want 3s, got %s", delay)
	}
	if d.DefaultDuration != 15 {
		t.Errorf("DefaultDuration: want 15, got %d", d.DefaultDuration)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"relative url", func(c *Config) { c.APIURL = "localhost" }},
		{"bad timeout", func(c *Config) { c.RequestTimeout = "soon" }},
		{"zero delay", func(c *Config) { c.MessageDelay = "0s" }},
		{"negative duration", func(c *Config) { c.DefaultDuration = -5 }},
		{"unknown format", func(c *Config) { c.DefaultFormat = "yaml" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "logfmt" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Defaults()
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("FITFLEX_API_URL", "https://api.example.com")
	t.Setenv("FITFLEX_LOG_LEVEL", "debug")
	t.Setenv("FITFLEX_LOG_FORMAT", "json")

	c := Defaults()
	ApplyEnv(&c)
	if c.APIURL != "https://api.example.com" {
		t.Errorf("APIURL: got %q", c.APIURL)
	}
	if c.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q", c.LogLevel)
	}
	if c.LogFormat != "json" {
		t.Errorf("LogFormat: got %q", c.LogFormat)
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	defaults := Defaults()
	if cfg.APIURL != defaults.APIURL {
		t.Errorf("APIURL: want %q, got %q", defaults.APIURL, cfg.APIURL)
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := filepath.Join(tmp, ".config", "fitflex")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}
