package tileset

import (
	"encoding/xml"
	"io"
)

type tsxTileset struct {
	XMLName    xml.Name      `xml:"tileset"`
	Name       string        `xml:"name,attr"`
	TileWidth  int           `xml:"tilewidth,attr"`
	TileHeight int           `xml:"tileheight,attr"`
	TileCount  int           `xml:"tilecount,attr"`
	Columns    int           `xml:"columns,attr"`
	Image      *tsxImage     `xml:"image"`
	Properties []tsxProperty `xml:"properties>property"`
	Tiles      []tsxTile     `xml:"tile"`
}

type tsxImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type tsxProperty struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
	// Multi-line string properties keep their value as character data.
	Text string `xml:",chardata"`
}

type tsxTile struct {
	ID         int           `xml:"id,attr"`
	Image      *tsxImage     `xml:"image"`
	Properties []tsxProperty `xml:"properties>property"`
	Animation  *tsxAnimation `xml:"animation"`
	Objects    []tsxObject   `xml:"objectgroup>object"`
}

type tsxAnimation struct {
	Frames []tsxFrame `xml:"frame"`
}

type tsxFrame struct {
	TileID   int `xml:"tileid,attr"`
	Duration int `xml:"duration,attr"`
}

type tsxObject struct {
	ID     int     `xml:"id,attr"`
	Name   string  `xml:"name,attr"`
	Type   string  `xml:"type,attr"`
	Class  string  `xml:"class,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

// TSXSource decodes a Tiled external tileset (.tsx).
type TSXSource struct {
	R       io.Reader
	BaseDir string
}

func (s TSXSource) Document() (*Document, error) {
	var raw tsxTileset
	if err := xml.NewDecoder(s.R).Decode(&raw); err != nil {
		return nil, &AssetError{Kind: ErrMalformedAsset, Field: "tsx", Err: err}
	}

	doc := &Document{
		Name:       raw.Name,
		TileWidth:  raw.TileWidth,
		TileHeight: raw.TileHeight,
		TileCount:  raw.TileCount,
		Columns:    raw.Columns,
		Image:      raw.Image.doc(),
		Properties: tsxProperties(raw.Properties),
		BaseDir:    s.BaseDir,
	}
	for _, t := range raw.Tiles {
		td := TileDoc{
			ID:         t.ID,
			Image:      t.Image.doc(),
			Properties: tsxProperties(t.Properties),
		}
		if t.Animation != nil {
			td.Animation = &AnimationDoc{Frames: make([]FrameDoc, 0, len(t.Animation.Frames))}
			for _, f := range t.Animation.Frames {
				td.Animation.Frames = append(td.Animation.Frames, FrameDoc{TileID: f.TileID, Duration: f.Duration})
			}
		}
		for _, o := range t.Objects {
			kind := o.Type
			if kind == "" {
				kind = o.Class
			}
			td.Shapes = append(td.Shapes, ShapeDoc{
				ID:     o.ID,
				Name:   o.Name,
				Kind:   kind,
				X:      o.X,
				Y:      o.Y,
				Width:  o.Width,
				Height: o.Height,
			})
		}
		doc.Tiles = append(doc.Tiles, td)
	}
	return doc, nil
}

func (img *tsxImage) doc() *ImageDoc {
	if img == nil {
		return nil
	}
	return &ImageDoc{Source: img.Source, Width: img.Width, Height: img.Height}
}

func tsxProperties(props []tsxProperty) []PropertyDoc {
	if len(props) == 0 {
		return nil
	}
	out := make([]PropertyDoc, 0, len(props))
	for _, p := range props {
		value := p.Value
		if value == "" {
			value = p.Text
		}
		out = append(out, PropertyDoc{Name: p.Name, Type: p.Type, Value: value})
	}
	return out
}
