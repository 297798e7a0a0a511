// Package profile manages the user's persistent fitflex profile.
// The profile is stored at ~/.config/fitflex/profile.json and is created
// once via the interactive setup flow, then referenced on every command.
package profile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Start pages the TUI can open on.
const (
	StartDashboard = "dashboard"
	StartWorkout   = "workout"
	StartHistory   = "history"
)

// Profile holds user-level preferences set during first-run setup.
type Profile struct {
	APIURL          string `json:"api_url"`
	Email           string `json:"email"`            // prefilled on the login form
	DefaultFormat   string `json:"default_format"`   // "markdown" | "json"
	DefaultDuration int    `json:"default_duration"` // minutes per preset exercise
	StartPage       string `json:"start_page"`       // page shown after login
}

func profilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile.json"), nil
}

// ConfigDir returns the fitflex config directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fitflex"), nil
}

// Exists reports whether a profile file is present on disk.
func Exists() bool {
	p, err := profilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load reads the profile from disk. Returns an error if the file is missing or malformed.
func Load() (*Profile, error) {
	p, err := profilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("profile not found, run 'fitflex setup' to configure: %w", err)
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return nil, fmt.Errorf("malformed profile at %s: %w", p, err)
	}
	return &prof, nil
}

// Save writes the profile to disk, creating the config directory if needed.
func Save(prof *Profile) error {
	p, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// RunSetup runs the interactive setup wizard on in/out.
// If existing is non-nil, it is used as the default for each prompt (edit mode).
func RunSetup(in io.Reader, out io.Writer, existing *Profile) (*Profile, error) {
	r := bufio.NewReader(in)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Fprintf(out, "%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Fprintf(out, "%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	prof := &Profile{
		APIURL:          "http://localhost:8000",
		DefaultFormat:   "markdown",
		DefaultDuration: 15,
		StartPage:       StartDashboard,
	}
	if existing != nil {
		*prof = *existing
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  ┌─────────────────────────────────┐")
	fmt.Fprintln(out, "  │   fitflex · first-time setup    │")
	fmt.Fprintln(out, "  └─────────────────────────────────┘")
	fmt.Fprintln(out)

	var err error

	for {
		prof.APIURL, err = ask("  FitFlex server URL", prof.APIURL)
		if err != nil {
			return nil, err
		}
		if u, perr := url.Parse(prof.APIURL); perr == nil && u.Scheme != "" && u.Host != "" {
			break
		}
		fmt.Fprintln(out, "  Please enter an absolute URL, e.g. https://fitflex.example.com")
	}

	prof.Email, err = ask("  Login email (optional)", prof.Email)
	if err != nil {
		return nil, err
	}

	format, err := ask("  Default output format (markdown/json)", prof.DefaultFormat)
	if err != nil {
		return nil, err
	}
	if format == "json" {
		prof.DefaultFormat = "json"
	} else {
		prof.DefaultFormat = "markdown"
	}

	minutes, err := ask("  Minutes per exercise for presets", strconv.Itoa(prof.DefaultDuration))
	if err != nil {
		return nil, err
	}
	if n, perr := strconv.Atoi(minutes); perr == nil && n > 0 {
		prof.DefaultDuration = n
	}

	page, err := ask("  Start page (dashboard/workout/history)", prof.StartPage)
	if err != nil {
		return nil, err
	}
	switch page {
	case StartWorkout, StartHistory:
		prof.StartPage = page
	default:
		prof.StartPage = StartDashboard
	}

	fmt.Fprintln(out)
	return prof, nil
}
