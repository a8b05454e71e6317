package tileset

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/milk9111/tilecombat/common"
)

// LoopProperty is the tile property that overrides an animation's loop flag
// for descriptor formats without one.
const LoopProperty = "loop"

// maxFrameMillis is the longest frame duration a time.Duration can hold.
const maxFrameMillis = math.MaxInt64 / int64(time.Millisecond)

// LoadOptions configures Load. The zero value warns on missing resources when
// a Resolver is set and skips resolution otherwise.
type LoadOptions struct {
	Resources ResourcePolicy
	Resolver  Resolver
}

// LoadFile loads a .tsx or .yaml descriptor from disk. Declared paths resolve
// against the descriptor's directory.
func LoadFile(filename string, opts LoadOptions) (*Tileset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("tileset: read %s: %w", filename, err)
	}
	if opts.Resolver == nil {
		opts.Resolver = OSResolver{}
	}
	src, err := SourceFor(filename, bytes.NewReader(data), filepath.ToSlash(filepath.Dir(filename)))
	if err != nil {
		return nil, err
	}
	return Load(src, opts)
}

// LoadFS loads a descriptor from fsys. Declared paths resolve inside fsys.
func LoadFS(fsys fs.FS, name string, opts LoadOptions) (*Tileset, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("tileset: read %s: %w", name, err)
	}
	if opts.Resolver == nil {
		opts.Resolver = FSResolver{FS: fsys}
	}
	src, err := SourceFor(name, bytes.NewReader(data), path.Dir(name))
	if err != nil {
		return nil, err
	}
	return Load(src, opts)
}

// SourceFor picks a decoder from the file extension.
func SourceFor(name string, r io.Reader, baseDir string) (Source, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsx", ".xml":
		return TSXSource{R: r, BaseDir: baseDir}, nil
	case ".yaml", ".yml":
		return YAMLSource{R: r, BaseDir: baseDir}, nil
	}
	return nil, malformed(name, "unsupported descriptor extension %q", filepath.Ext(name))
}

// Load decodes src and validates it into an immutable Tileset. On error no
// Tileset is returned.
func Load(src Source, opts LoadOptions) (*Tileset, error) {
	if src == nil {
		return nil, malformed("", "nil source")
	}
	doc, err := src.Document()
	if err != nil {
		return nil, err
	}
	b := builder{doc: doc, opts: opts}
	return b.build()
}

type builder struct {
	doc      *Document
	opts     LoadOptions
	warnings []error
}

func (b *builder) build() (*Tileset, error) {
	doc := b.doc
	if doc == nil {
		return nil, malformed("", "nil document")
	}
	if doc.TileWidth < 0 || doc.TileHeight < 0 {
		return nil, malformed("tilewidth", "negative tile size %dx%d", doc.TileWidth, doc.TileHeight)
	}
	if doc.TileCount < 0 {
		return nil, malformed("tilecount", "negative tile count %d", doc.TileCount)
	}
	if doc.Columns < 0 {
		return nil, malformed("columns", "negative column count %d", doc.Columns)
	}

	ts := &Tileset{
		Name:       doc.Name,
		TileWidth:  doc.TileWidth,
		TileHeight: doc.TileHeight,
		TileCount:  doc.TileCount,
		Columns:    doc.Columns,
		index:      make(map[int]int, len(doc.Tiles)),
	}

	var err error
	if ts.Image, err = b.image("image", doc.Image); err != nil {
		return nil, err
	}
	if ts.properties, err = b.properties("properties", doc.Properties); err != nil {
		return nil, err
	}

	for i := range doc.Tiles {
		td := &doc.Tiles[i]
		field := fmt.Sprintf("tile[%d]", td.ID)
		if td.ID < 0 {
			return nil, malformed(field+".id", "negative tile id")
		}
		if _, dup := ts.index[td.ID]; dup {
			return nil, malformed(field+".id", "duplicate tile id %d", td.ID)
		}
		tile, err := b.tile(field, td)
		if err != nil {
			return nil, err
		}
		ts.index[td.ID] = len(ts.tiles)
		ts.tiles = append(ts.tiles, tile)
	}

	b.addGridTiles(ts)

	slices.SortStableFunc(ts.tiles, func(a, c *Tile) int { return a.ID - c.ID })
	for i, t := range ts.tiles {
		ts.index[t.ID] = i
	}

	for i := range doc.Tiles {
		td := &doc.Tiles[i]
		if td.Animation == nil {
			continue
		}
		tile := ts.tiles[ts.index[td.ID]]
		anim, err := b.animation(fmt.Sprintf("tile[%d].animation", td.ID), td.Animation, tile, ts)
		if err != nil {
			return nil, err
		}
		tile.Animation = anim
	}

	ts.warnings = b.warnings
	return ts, nil
}

func (b *builder) tile(field string, td *TileDoc) (*Tile, error) {
	tile := &Tile{ID: td.ID}
	var err error
	if tile.Image, err = b.image(field+".image", td.Image); err != nil {
		return nil, err
	}
	if tile.Properties, err = b.properties(field+".properties", td.Properties); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(td.Shapes))
	for _, sd := range td.Shapes {
		sfield := fmt.Sprintf("%s.objectgroup.object[%d]", field, sd.ID)
		if seen[sd.ID] {
			return nil, malformed(sfield+".id", "duplicate shape id %d", sd.ID)
		}
		seen[sd.ID] = true

		kind, ok := ParseShapeKind(sd.Kind)
		if !ok {
			return nil, malformed(sfield+".type", "unknown shape kind %q", sd.Kind)
		}
		for _, g := range []struct {
			name string
			v    float64
		}{{"x", sd.X}, {"y", sd.Y}, {"width", sd.Width}, {"height", sd.Height}} {
			if g.v < 0 || math.IsNaN(g.v) || math.IsInf(g.v, 0) {
				return nil, malformed(sfield+"."+g.name, "invalid geometry %v", g.v)
			}
		}
		tile.Shapes = append(tile.Shapes, Shape{
			ID:   sd.ID,
			Name: sd.Name,
			Kind: kind,
			Rect: common.Rect{X: sd.X, Y: sd.Y, Width: sd.Width, Height: sd.Height},
		})
	}
	return tile, nil
}

func (b *builder) animation(field string, ad *AnimationDoc, owner *Tile, ts *Tileset) (*Animation, error) {
	if len(ad.Frames) == 0 {
		return nil, malformed(field, "animation has no frames")
	}
	anim := &Animation{Frames: make([]Frame, 0, len(ad.Frames)), Loop: true}
	if ad.Loop != nil {
		anim.Loop = *ad.Loop
	} else if v, ok := owner.Property(LoopProperty); ok {
		if loop, ok := v.AsBool(); ok {
			anim.Loop = loop
		}
	}
	for i, fd := range ad.Frames {
		ffield := fmt.Sprintf("%s.frame[%d]", field, i)
		if fd.Duration <= 0 {
			return nil, malformed(ffield+".duration", "duration must be positive, got %d", fd.Duration)
		}
		if _, ok := ts.index[fd.TileID]; !ok {
			return nil, dangling(ffield+".tileid", fd.TileID)
		}
		if int64(fd.Duration) > maxFrameMillis {
			return nil, malformed(ffield+".duration", "duration %dms overflows", fd.Duration)
		}
		d := time.Duration(fd.Duration) * time.Millisecond
		if anim.total > math.MaxInt64-d {
			return nil, malformed(field, "total duration overflows at frame %d", i)
		}
		anim.Frames = append(anim.Frames, Frame{TileID: fd.TileID, Duration: d})
		anim.total += d
	}
	if anim.total <= 0 {
		return nil, malformed(field, "total duration must be positive")
	}
	return anim, nil
}

// addGridTiles materializes undeclared tiles of a grid tileset and assigns
// every image-less tile its cell of the shared image.
func (b *builder) addGridTiles(ts *Tileset) {
	if ts.Columns <= 0 || ts.Image == nil {
		return
	}
	for id := 0; id < ts.TileCount; id++ {
		if _, ok := ts.index[id]; ok {
			continue
		}
		ts.index[id] = len(ts.tiles)
		ts.tiles = append(ts.tiles, &Tile{ID: id, Implicit: true})
	}
	for _, t := range ts.tiles {
		if t.Image != nil {
			continue
		}
		col := t.ID % ts.Columns
		row := t.ID / ts.Columns
		region := common.Rect{
			X:      float64(col * ts.TileWidth),
			Y:      float64(row * ts.TileHeight),
			Width:  float64(ts.TileWidth),
			Height: float64(ts.TileHeight),
		}
		t.Image = &Resource{Path: ts.Image.Path, Width: ts.TileWidth, Height: ts.TileHeight, Region: &region}
	}
}

func (b *builder) image(field string, img *ImageDoc) (*Resource, error) {
	if img == nil {
		return nil, nil
	}
	if strings.TrimSpace(img.Source) == "" {
		return nil, malformed(field+".source", "empty image source")
	}
	if img.Width < 0 || img.Height < 0 {
		return nil, malformed(field, "negative image size %dx%d", img.Width, img.Height)
	}
	p := joinPath(b.doc.BaseDir, img.Source)
	if err := b.resolve(field+".source", p); err != nil {
		return nil, err
	}
	return &Resource{Path: p, Width: img.Width, Height: img.Height}, nil
}

func (b *builder) properties(field string, props []PropertyDoc) (Properties, error) {
	if len(props) == 0 {
		return nil, nil
	}
	out := make(Properties, len(props))
	for _, pd := range props {
		pfield := fmt.Sprintf("%s.%s", field, pd.Name)
		if pd.Name == "" {
			return nil, malformed(field, "property without a name")
		}
		if _, dup := out[pd.Name]; dup {
			return nil, malformed(pfield, "duplicate property")
		}
		typ, ok := ParseValueType(pd.Type)
		if !ok {
			return nil, malformed(pfield+".type", "unknown property type %q", pd.Type)
		}
		v, err := ParseValue(typ, pd.Value)
		if err != nil {
			return nil, &AssetError{Kind: ErrMalformedAsset, Field: pfield, Err: err}
		}
		if typ == TypeFile {
			if strings.TrimSpace(pd.Value) == "" {
				return nil, malformed(pfield, "empty file reference")
			}
			p := joinPath(b.doc.BaseDir, pd.Value)
			if err := b.resolve(pfield, p); err != nil {
				return nil, err
			}
			v = FileValue(p)
		}
		out[pd.Name] = v
	}
	return out, nil
}

func (b *builder) resolve(field, p string) error {
	if b.opts.Resources == ResourceIgnore || b.opts.Resolver == nil {
		return nil
	}
	if b.opts.Resolver.Exists(p) {
		return nil
	}
	err := missing(field, p)
	if b.opts.Resources == ResourceError {
		return err
	}
	log.Print(err)
	b.warnings = append(b.warnings, err)
	return nil
}
