package render

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func TestFontNames(t *testing.T) {
	names := FontNames()
	if !slices.IsSorted(names) {
		t.Errorf("FontNames() = %v, want sorted", names)
	}
	for _, want := range []string{"regular", "bold", "mono"} {
		if !slices.Contains(names, want) {
			t.Errorf("FontNames() missing %q", want)
		}
		if !IsEmbeddedFont(want) {
			t.Errorf("IsEmbeddedFont(%q) = false", want)
		}
	}
	if IsEmbeddedFont("comic") {
		t.Error("IsEmbeddedFont(comic) = true")
	}
}

func TestLoadFont(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.ttf")
	if err := os.WriteFile(path, gomono.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		want    []byte
		wantErr bool
	}{
		{"", goregular.TTF, false},
		{"regular", goregular.TTF, false},
		{"mono", gomono.TTF, false},
		{path, gomono.TTF, false},
		{filepath.Join(dir, "missing.ttf"), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadFont(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFont() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Error("LoadFont() returned the wrong font data")
			}
		})
	}
}
