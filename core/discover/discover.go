// Package discover lists the icons of an input directory.
// Enumeration order is byte order of the file names, the same order the
// synthesizer glob expands to, so code point assignment follows it.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/iconfontify/core"
)

const op = "discover"

// Icons returns every icon in dir. A missing directory, an empty icon set
// and two files that resolve to the same icon name are input errors.
func Icons(dir string) ([]core.IconFile, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.Errorf(core.KindInput, op,
			"create the directory or point --input at your icons",
			"input directory %q does not exist", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, core.Errorf(core.KindInput, op,
			"point --input at a directory of .svg files",
			"input path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	names := newNameSet()
	var icons []core.IconFile
	for _, e := range entries {
		if e.IsDir() || !IsIcon(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		name := IconName(e.Name())
		if prev, ok := names.Add(name, path); !ok {
			return nil, core.Errorf(core.KindInput, op,
				"rename one of the files",
				"icons %q and %q share the name %q", prev, path, name)
		}
		icons = append(icons, core.IconFile{Name: name, Path: path})
	}

	if names.Len() == 0 {
		return nil, core.Errorf(core.KindInput, op,
			"add .svg files to the input directory",
			"no icons found in %q", dir)
	}
	return icons, nil
}
