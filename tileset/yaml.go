package tileset

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLSource decodes the yaml tileset descriptor. Its layout mirrors Document.
type YAMLSource struct {
	R       io.Reader
	BaseDir string
}

func (s YAMLSource) Document() (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(s.R)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &AssetError{Kind: ErrMalformedAsset, Field: "yaml", Err: err}
	}
	doc.BaseDir = s.BaseDir
	return &doc, nil
}
