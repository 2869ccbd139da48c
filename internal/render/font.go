package render

import (
	"fmt"
	"os"
	"sort"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontName selects the font used for dial text.
const DefaultFontName = "regular"

// embeddedFonts are the Go fonts selectable by name.
var embeddedFonts = map[string][]byte{
	"regular":     goregular.TTF,
	"bold":        gobold.TTF,
	"italic":      goitalic.TTF,
	"bold-italic": gobolditalic.TTF,
	"mono":        gomono.TTF,
	"mono-bold":   gomonobold.TTF,
}

// FontNames returns the embedded font names in sorted order.
func FontNames() []string {
	names := make([]string, 0, len(embeddedFonts))
	for name := range embeddedFonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmbeddedFont reports whether name selects an embedded font.
func IsEmbeddedFont(name string) bool {
	_, ok := embeddedFonts[name]
	return ok
}

// LoadFont returns TrueType or OpenType data for name, which is either an
// embedded font name or a path to a font file. An empty name selects
// DefaultFontName.
func LoadFont(name string) ([]byte, error) {
	if name == "" {
		name = DefaultFontName
	}
	if data, ok := embeddedFonts[name]; ok {
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("font %q is neither embedded nor readable: %w", name, err)
	}
	return data, nil
}
