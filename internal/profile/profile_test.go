package profile

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunSetupDefaults(t *testing.T) {
	var out bytes.Buffer
	prof, err := RunSetup(strings.NewReader("\n\n\n\n\n"), &out, nil)
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if prof.APIURL != "http://localhost:8000" {
		t.Errorf("APIURL: got %q", prof.APIURL)
	}
	if prof.DefaultDuration != 15 || prof.StartPage != StartDashboard || prof.DefaultFormat != "markdown" {
		t.Errorf("unexpected defaults: %+v", prof)
	}
	if !strings.Contains(out.String(), "first-time setup") {
		t.Errorf("banner missing from output: %q", out.String())
	}
}

func TestRunSetupRepromptsBadURL(t *testing.T) {
	input := "localhost\nhttps://api.example.com\nana@example.com\njson\n20\nhistory\n"
	var out bytes.Buffer
	prof, err := RunSetup(strings.NewReader(input), &out, nil)
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	want := Profile{
		APIURL:          "https://api.example.com",
		Email:           "ana@example.com",
		DefaultFormat:   "json",
		DefaultDuration: 20,
		StartPage:       StartHistory,
	}
	if *prof != want {
		t.Errorf("want %+v, got %+v", want, *prof)
	}
	if !strings.Contains(out.String(), "absolute URL") {
		t.Error("expected a re-prompt for the relative URL")
	}
}

func TestRunSetupKeepsExistingValues(t *testing.T) {
	existing := &Profile{APIURL: "https://fit.example.com", Email: "bo@example.com", DefaultFormat: "json", DefaultDuration: 25, StartPage: StartWorkout}
	prof, err := RunSetup(strings.NewReader("\n\n\n\n\n"), &bytes.Buffer{}, existing)
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if *prof != *existing {
		t.Errorf("want %+v, got %+v", *existing, *prof)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if Exists() {
		t.Fatal("profile should not exist in a fresh HOME")
	}
	prof := &Profile{APIURL: "https://fit.example.com", DefaultFormat: "markdown", DefaultDuration: 10, StartPage: StartDashboard}
	if err := Save(prof); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("profile should exist after Save")
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *prof {
		t.Errorf("want %+v, got %+v", *prof, *got)
	}
}
