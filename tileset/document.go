package tileset

// Document is the decoded, unvalidated form of a tileset descriptor. Decoders
// for any markup produce a Document; Load validates it into a Tileset.
type Document struct {
	Name       string        `yaml:"name"`
	TileWidth  int           `yaml:"tile_width"`
	TileHeight int           `yaml:"tile_height"`
	TileCount  int           `yaml:"tile_count"`
	Columns    int           `yaml:"columns"`
	Image      *ImageDoc     `yaml:"image,omitempty"`
	Properties []PropertyDoc `yaml:"properties,omitempty"`
	Tiles      []TileDoc     `yaml:"tiles"`

	// BaseDir is the slash separated directory declared paths are relative to.
	BaseDir string `yaml:"-"`
}

type TileDoc struct {
	ID         int           `yaml:"id"`
	Image      *ImageDoc     `yaml:"image,omitempty"`
	Properties []PropertyDoc `yaml:"properties,omitempty"`
	Animation  *AnimationDoc `yaml:"animation,omitempty"`
	Shapes     []ShapeDoc    `yaml:"shapes,omitempty"`
}

type ImageDoc struct {
	Source string `yaml:"source"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type PropertyDoc struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type,omitempty"`
	Value string `yaml:"value"`
}

type AnimationDoc struct {
	// Loop defaults to true when unset.
	Loop   *bool      `yaml:"loop,omitempty"`
	Frames []FrameDoc `yaml:"frames"`
}

type FrameDoc struct {
	TileID int `yaml:"tile"`
	// Duration is in milliseconds.
	Duration int `yaml:"duration"`
}

type ShapeDoc struct {
	ID     int     `yaml:"id"`
	Name   string  `yaml:"name,omitempty"`
	Kind   string  `yaml:"kind"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Source produces a Document. Decoding failures should wrap ErrMalformedAsset.
type Source interface {
	Document() (*Document, error)
}

// DocumentSource serves an already decoded Document.
type DocumentSource struct {
	Doc *Document
}

func (s DocumentSource) Document() (*Document, error) {
	if s.Doc == nil {
		return nil, malformed("", "nil document")
	}
	return s.Doc, nil
}
