package tileset

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/milk9111/tilecombat/common"
)

// Resource is an opaque handle to an image declared by the descriptor. The bytes
// behind it are loaded by the host, never by this package.
type Resource struct {
	// Path is the declared source joined with the tileset's base directory.
	Path   string
	Width  int
	Height int
	// Region is the sub-rectangle of a shared grid image, nil for whole images.
	Region *common.Rect
}

// ResourcePolicy decides what an unresolved resource does to a load.
type ResourcePolicy int

const (
	// ResourceWarn logs and records the problem on Tileset.Warnings.
	ResourceWarn ResourcePolicy = iota
	// ResourceError fails the load with ErrMissingResource.
	ResourceError
	// ResourceIgnore skips resolution entirely.
	ResourceIgnore
)

// Resolver reports whether a resource path exists.
type Resolver interface {
	Exists(path string) bool
}

// FSResolver resolves slash separated paths inside an fs.FS.
type FSResolver struct {
	FS fs.FS
}

func (r FSResolver) Exists(p string) bool {
	if r.FS == nil {
		return false
	}
	_, err := fs.Stat(r.FS, strings.TrimPrefix(path.Clean(p), "/"))
	return err == nil
}

// OSResolver resolves paths on the local filesystem.
type OSResolver struct{}

func (OSResolver) Exists(p string) bool {
	_, err := os.Stat(filepath.FromSlash(p))
	return err == nil
}

func joinPath(baseDir, p string) string {
	p = filepath.ToSlash(p)
	if baseDir == "" || path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(filepath.ToSlash(baseDir), p)
}
