// Package core defines the data model and stage interfaces shared by the
// icon build pipeline: normalize → synthesize → write.
package core

import (
	"context"
	"fmt"
	"strings"
)

// BasePoint is the first private-use code point handed out in a build.
const BasePoint = 0xE001

// LastPrivateUse is the last code point of the BMP private-use area.
const LastPrivateUse = 0xF8FF

// IconFile is one vector icon on disk. Name is the stable identifier used by
// the glyph map and style rules.
type IconFile struct {
	Name string
	Path string
}

// GlyphRecord maps one icon name to its assigned code point.
type GlyphRecord struct {
	IconName         string
	CodePoint        rune
	HexCode          string // e.g. `\E001`
	DisplayCodePoint string // e.g. U+E001
}

// NewGlyphRecord builds the record for the glyph at index in the order the
// synthesizer returned it.
func NewGlyphRecord(name string, index int) GlyphRecord {
	cp := rune(BasePoint + index)
	hex := strings.ToUpper(fmt.Sprintf("%x", cp))
	return GlyphRecord{
		IconName:         name,
		CodePoint:        cp,
		HexCode:          `\` + hex,
		DisplayCodePoint: fmt.Sprintf("U+%04X", cp),
	}
}

// StyleRule returns the stylesheet rule that renders the icon through a
// ::before pseudo element.
func (r GlyphRecord) StyleRule() string {
	return fmt.Sprintf(".icon-%s:before {\n  content: \"%s\";\n}", r.IconName, r.HexCode)
}

// BuildArtifacts are the files a successful build leaves in the output
// directory.
type BuildArtifacts struct {
	FontPath    string
	MappingPath string
}

// FileError records a per-icon failure that did not stop the batch.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// NormalizeReport is the outcome of normalizing one directory.
type NormalizeReport struct {
	Processed []string
	Failed    []FileError
}

// OK reports whether every icon was normalized.
func (r *NormalizeReport) OK() bool {
	return len(r.Failed) == 0
}

// DocumentNormalizer turns one icon document into its normalized form.
type DocumentNormalizer interface {
	Normalize(src []byte) ([]byte, error)
}

// DirNormalizer normalizes every icon in srcDir, writing results to dstDir.
// dstDir may equal srcDir for in-place mode.
type DirNormalizer interface {
	NormalizeDir(ctx context.Context, srcDir, dstDir string) (*NormalizeReport, error)
}
