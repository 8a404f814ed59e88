// Package discover — icon file filtering rules.
// Decides which directory entries are icons and derives their names.
package discover

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gaurav-prasanna/iconfontify/core/config"
)

// IsIcon reports whether a file name is a recognized icon. The extension
// match is case-sensitive, matching the synthesizer glob, and dotfiles such
// as editor backups are skipped.
func IsIcon(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return filepath.Ext(name) == config.IconExt && len(name) > len(config.IconExt)
}

// IconName derives the icon identifier from a file name: the base name
// without extension, in Unicode NFC. macOS stores names decomposed, which
// would otherwise give the same icon two spellings.
func IconName(fileName string) string {
	base := filepath.Base(fileName)
	return norm.NFC.String(strings.TrimSuffix(base, filepath.Ext(base)))
}
