// Package fonts provides the font files bundled with badger.
//
// The Go font family is embedded through golang.org/x/image so a metrics
// dataset can be built without any font files on disk. Badges reference
// faces by name only; viewers fall back to the generic families in
// [CSSFamily] when the named face is not installed.
package fonts

import (
	"sort"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Face names of the embedded fonts.
const (
	GoRegular = "Go"
	GoMedium  = "Go Medium"
	GoBold    = "Go Bold"
	GoMono    = "Go Mono"
)

// FallbackFontFamily lists the generic families appended to every face.
const FallbackFontFamily = `Verdana, 'DejaVu Sans', Geneva, sans-serif`

var builtin = map[string][]byte{
	GoRegular: goregular.TTF,
	GoMedium:  gomedium.TTF,
	GoBold:    gobold.TTF,
	GoMono:    gomono.TTF,
}

// Builtin returns the TTF data of an embedded face.
func Builtin(face string) ([]byte, bool) {
	data, ok := builtin[face]
	return data, ok
}

// BuiltinFaces returns the embedded face names, regular face first.
func BuiltinFaces() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		if name != GoRegular {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{GoRegular}, names...)
}

// CSSFamily returns the font-family attribute value for face.
func CSSFamily(face string) string {
	return "'" + face + "', " + FallbackFontFamily
}
