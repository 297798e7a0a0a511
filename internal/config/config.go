package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configurable fitflex settings.
type Config struct {
	APIURL          string `json:"api_url"`
	RequestTimeout  string `json:"request_timeout"` // Go duration, e.g. "30s"
	MessageDelay    string `json:"message_delay"`   // how long notices stay on screen
	DefaultDuration int    `json:"default_duration"` // minutes assigned by presets
	LogFile         string `json:"log_file"`         // empty: XDG state dir
	LogLevel        string `json:"log_level"`
	LogFormat       string `json:"log_format"` // "text" | "json"
	DefaultFormat   string `json:"default_format"` // "markdown" | "json"
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		APIURL:          "http://localhost:8000",
		RequestTimeout:  "30s",
		MessageDelay:    "3s",
		DefaultDuration: 15,
		LogLevel:        "info",
		LogFormat:       "text",
		DefaultFormat:   "markdown",
	}
}

// LoadGlobal reads ~/.config/fitflex/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "fitflex", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .fitflexconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".fitflexconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	overlay(&result, global)
	overlay(&result, project)
	return result
}

func overlay(dst, src *Config) {
	if src == nil {
		return
	}
	if src.APIURL != "" {
		dst.APIURL = src.APIURL
	}
	if src.RequestTimeout != "" {
		dst.RequestTimeout = src.RequestTimeout
	}
	if src.MessageDelay != "" {
		dst.MessageDelay = src.MessageDelay
	}
	if src.DefaultDuration > 0 {
		dst.DefaultDuration = src.DefaultDuration
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
}

// ApplyEnv overrides config values from the environment:
//
//	FITFLEX_API_URL, FITFLEX_LOG_LEVEL, FITFLEX_LOG_FILE, FITFLEX_LOG_FORMAT
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("FITFLEX_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("FITFLEX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FITFLEX_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("FITFLEX_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// Validate checks that the merged config is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q is not an absolute URL", c.APIURL)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := c.NoticeDelay(); err != nil {
		return err
	}
	if c.DefaultDuration <= 0 {
		return fmt.Errorf("default_duration must be positive, got %d", c.DefaultDuration)
	}
	if c.DefaultFormat != "markdown" && c.DefaultFormat != "json" {
		return fmt.Errorf("default_format must be markdown or json, got %q", c.DefaultFormat)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Timeout returns the parsed request timeout.
func (c Config) Timeout() (time.Duration, error) {
	return parsePositive("request_timeout", c.RequestTimeout)
}

// NoticeDelay returns how long transient notices stay visible.
func (c Config) NoticeDelay() (time.Duration, error) {
	return parsePositive("message_delay", c.MessageDelay)
}

func parsePositive(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
