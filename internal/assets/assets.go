package assets

import (
	"io/fs"
	"sort"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyleName   = "default"
	EditorTemplateName = "editor"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the default embedded loader.
// The name should not include the .css extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// Web returns the static files of the editor page (editor.js, editor.css).
func Web() fs.FS {
	sub, err := fs.Sub(web, "web")
	if err != nil {
		// unreachable: web/ is embedded
		panic(err)
	}
	return sub
}

// EmbeddedStyles lists the names of the built-in styles, sorted.
func EmbeddedStyles() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".css"); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
