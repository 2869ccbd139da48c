package main

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-v"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run(-v) = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), Version) {
		t.Errorf("version output %q missing %q", stdout.String(), Version)
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(*cliOptions) bool
	}{
		{"defaults", nil, false, func(o *cliOptions) bool {
			return o.configPath == "" && o.logLevel == "info" && !o.headless && o.size == 0
		}},
		{"all", []string{"-c", "dial.lua", "-size", "300", "-headless", "-watch", "-log-json"}, false, func(o *cliOptions) bool {
			return o.configPath == "dial.lua" && o.size == 300 && o.headless && o.watch && o.logJSON
		}},
		{"negative size", []string{"-size", "-1"}, true, nil},
		{"unknown flag", []string{"-bogus"}, true, nil},
		{"stray argument", []string{"dial.lua"}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseFlags(tt.args, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(o) {
				t.Errorf("parseFlags() = %+v", o)
			}
		})
	}
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, 0},
		{"bad flag", []string{"-bogus"}, 2},
		{"bad log level", []string{"-log-level", "loud"}, 2},
		{"missing config", []string{"-c", "/nonexistent/dial.lua"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args, &bytes.Buffer{}, &bytes.Buffer{}); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestRunSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "dial.lua")
	if err := os.WriteFile(cfg, []byte(`regulator.config = { target_value = 25, current_value = 20, unit = "°C" }`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "dial.png")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-c", cfg, "-snapshot", out, "-size", "96", "-log-level", "error"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("snapshot is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 96 {
		t.Errorf("snapshot bounds = %v, want 96x96", b)
	}
}

func TestRunSnapshotDefaults(t *testing.T) {
	out := filepath.Join(t.TempDir(), "default.png")
	if code := run([]string{"-snapshot", out, "-log-level", "error"}, &bytes.Buffer{}, &bytes.Buffer{}); code != 0 {
		t.Fatalf("run() = %d", code)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestDebugMux(t *testing.T) {
	srv := httptest.NewServer(debugMux())
	defer srv.Close()

	for _, path := range []string{"/debug/vars", "/debug/pprof/"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}
}
