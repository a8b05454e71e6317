package main

import (
	"bytes"
	"image"
	_ "image/png"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilecombat/prefabs"
	"github.com/milk9111/tilecombat/tileset"
)

// imageCache decodes tile images on first use. Missing images are cached as
// nil and drawn as placeholders.
type imageCache struct {
	fsys   fs.FS
	sheets map[string]*ebiten.Image
	tiles  map[*tileset.Tile]*ebiten.Image
}

func newImageCache() *imageCache {
	return &imageCache{
		fsys:   prefabs.FS(),
		sheets: make(map[string]*ebiten.Image),
		tiles:  make(map[*tileset.Tile]*ebiten.Image),
	}
}

func (c *imageCache) tile(t *tileset.Tile) *ebiten.Image {
	if t == nil || t.Image == nil {
		return nil
	}
	if img, ok := c.tiles[t]; ok {
		return img
	}
	img := c.sheet(t.Image.Path)
	if img != nil && t.Image.Region != nil {
		r := t.Image.Region
		rect := image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
		img = img.SubImage(rect).(*ebiten.Image)
	}
	c.tiles[t] = img
	return img
}

func (c *imageCache) sheet(path string) *ebiten.Image {
	if img, ok := c.sheets[path]; ok {
		return img
	}
	c.sheets[path] = nil
	b, err := fs.ReadFile(c.fsys, path)
	if err != nil {
		log.Printf("viewer: read %s: %v", path, err)
		return nil
	}
	decoded, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		log.Printf("viewer: decode %s: %v", path, err)
		return nil
	}
	img := ebiten.NewImageFromImage(decoded)
	c.sheets[path] = img
	return img
}
