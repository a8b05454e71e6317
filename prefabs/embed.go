package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml tiled/*.tsx
var PrefabsFS embed.FS

// DiskDir is checked before the embedded copies, so assets can be edited
// without rebuilding.
var DiskDir = "prefabs"

// Load reads a prefab file, preferring the copy on disk.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// LoadScript reads a behaviour script. Names may carry a prefabs/ or
// scripts/ prefix.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// FS serves prefab files from disk first and the embedded copies second.
func FS() fs.FS {
	return overlayFS{}
}

type overlayFS struct{}

func (overlayFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if f, err := os.DirFS(DiskDir).Open(name); err == nil {
		return f, nil
	}
	if name == "scripts" || strings.HasPrefix(name, "scripts/") {
		return ScriptsFS.Open(name)
	}
	return PrefabsFS.Open(name)
}

func cleanPrefabPath(name string) string {
	if name == "" {
		return ""
	}
	s := path.Clean(filepath.ToSlash(name))
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(name string) string {
	if name == "" {
		return ""
	}

	s := cleanPrefabPath(name)

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return path.Join("scripts", s)
}

func diskPrefabPath(clean string) string {
	return filepath.Join(DiskDir, filepath.FromSlash(clean))
}
