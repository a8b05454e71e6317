package tileset

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedAsset reports a structural violation in a tileset descriptor.
	ErrMalformedAsset = errors.New("malformed asset")
	// ErrDanglingReference reports an animation frame pointing at a tile that does not exist.
	ErrDanglingReference = errors.New("dangling reference")
	// ErrMissingResource reports a declared image or file path that could not be resolved.
	ErrMissingResource = errors.New("missing resource")
)

// AssetError identifies the offending field of a rejected descriptor.
type AssetError struct {
	Kind  error
	Field string
	Err   error
}

func (e *AssetError) Error() string {
	msg := "tileset: " + e.Kind.Error()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AssetError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func malformed(field, format string, args ...any) error {
	return &AssetError{Kind: ErrMalformedAsset, Field: field, Err: fmt.Errorf(format, args...)}
}

func dangling(field string, tileID int) error {
	return &AssetError{Kind: ErrDanglingReference, Field: field, Err: fmt.Errorf("tile %d does not exist", tileID)}
}

func missing(field, path string) error {
	return &AssetError{Kind: ErrMissingResource, Field: field, Err: fmt.Errorf("%q not found", path)}
}
