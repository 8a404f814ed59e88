// Package optimize — structural optimization of icon documents.
// A fixed preset of named plugins runs over an svgdoc.Document. Plugins
// that rewrite geometry (shape-to-path conversion, group collapsing, path
// merging, transform consolidation) are not part of the preset.
package optimize

import (
	"fmt"
	"slices"

	"github.com/gaurav-prasanna/iconfontify/core/svgdoc"
)

// DefaultPrecision is the number of decimal digits kept by numeric cleanup.
// Fewer digits warp small icon grids at font rendering sizes.
const DefaultPrecision = 3

// NeverApplied lists geometry-changing plugins this package does not
// implement. Naming them in Config.Disable is accepted and has no effect.
var NeverApplied = []string{"convertShapeToPath", "collapseGroups", "mergePaths", "convertTransform"}

// Config tunes the preset.
type Config struct {
	Precision int
	Disable   []string
}

// DefaultConfig returns the preset with every plugin enabled.
func DefaultConfig() Config {
	return Config{Precision: DefaultPrecision}
}

// Plugin is one named pass over a document.
type Plugin struct {
	Name  string
	Apply func(doc *svgdoc.Document, cfg Config) error
}

// preset is the fixed plugin order.
var preset = []Plugin{
	{"removeComments", removeComments},
	{"removeMetadata", removeElements("metadata")},
	{"removeTitle", removeElements("title")},
	{"removeDesc", removeElements("desc")},
	{"removeEditorsNSData", removeEditorsNSData},
	{"cleanupAttrs", cleanupAttrs},
	{"removeEmptyAttrs", removeEmptyAttrs},
	{"removeHiddenElems", removeHiddenElems},
	{"removeUselessStrokeAndFill", removeUselessStrokeAndFill},
	{"cleanupNumericValues", cleanupNumericValues},
	{"cleanupPathData", cleanupPathData},
	{"removeEmptyContainers", removeEmptyContainers},
}

// PluginNames returns the preset plugin names in application order.
func PluginNames() []string {
	names := make([]string, len(preset))
	for i, p := range preset {
		names[i] = p.Name
	}
	return names
}

// Optimizer applies the enabled plugins in preset order.
type Optimizer struct {
	cfg     Config
	plugins []Plugin
}

// New builds an Optimizer. Unknown names in cfg.Disable are an error.
func New(cfg Config) (*Optimizer, error) {
	known := PluginNames()
	for _, name := range cfg.Disable {
		if !slices.Contains(known, name) && !slices.Contains(NeverApplied, name) {
			return nil, fmt.Errorf("unknown optimizer plugin %q", name)
		}
	}

	o := &Optimizer{cfg: cfg}
	for _, p := range preset {
		if !slices.Contains(cfg.Disable, p.Name) {
			o.plugins = append(o.plugins, p)
		}
	}
	return o, nil
}

// Optimize rewrites doc in place.
func (o *Optimizer) Optimize(doc *svgdoc.Document) error {
	for _, p := range o.plugins {
		if err := p.Apply(doc, o.cfg); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	return nil
}
