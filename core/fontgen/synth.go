// Package fontgen synthesizes an icon font from a set of vector files.
//
// Synthesizers are looked up by name from a registry, in the style of
// database/sql drivers. The native synthesizer encodes TrueType in-process;
// the exec synthesizer bridges to an external program.
package fontgen

import (
	"context"
	"log/slog"

	"github.com/gaurav-prasanna/iconfontify/core"
)

// FormatTTF is the only font format a build asks for.
const FormatTTF = "ttf"

// Options is the synthesis profile.
type Options struct {
	Formats            []string `json:"formats"`
	FontName           string   `json:"fontName"`
	FontHeight         int      `json:"fontHeight"`
	Descent            int      `json:"descent"`
	Normalize          bool     `json:"normalize"`
	CenterHorizontally bool     `json:"centerHorizontally"`
	FixedWidth         bool     `json:"fixedWidth"`
	FontWeight         int      `json:"fontWeight"`
	FontStyle          string   `json:"fontStyle"`
	Metadata           string   `json:"metadata"`
	StartUnicode       rune     `json:"startUnicode"`
}

// DefaultOptions returns the fixed profile every build uses.
func DefaultOptions(fontName string) Options {
	return Options{
		Formats:            []string{FormatTTF},
		FontName:           fontName,
		FontHeight:         1024,
		Descent:            200,
		Normalize:          true,
		CenterHorizontally: true,
		FixedWidth:         false,
		FontWeight:         400,
		FontStyle:          "normal",
		Metadata:           "Generated icon font",
		StartUnicode:       core.BasePoint,
	}
}

// Request asks for a font built from every file matching Glob.
type Request struct {
	Glob string `json:"files"`
	Options
}

// Glyph describes one glyph that made it into the font, in font order.
// Unicode is whatever the synthesizer assigned; callers may ignore it.
type Glyph struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Unicode []rune `json:"unicode,omitempty"`
}

// Result carries the font binaries by format and the glyph list.
type Result struct {
	Fonts  map[string][]byte `json:"fonts"`
	Glyphs []Glyph            `json:"glyphs"`
}

// Synthesizer turns vector icons into a font.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Result, error)
}

// Config is handed to a synthesizer factory.
type Config struct {
	// Command is the external program for synthesizers that need one.
	Command []string

	Logger *slog.Logger
}
