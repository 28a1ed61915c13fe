package catalog

import "errors"

var (
	ErrInvalidEntry  = errors.New("invalid catalog entry")
	ErrDuplicateName = errors.New("duplicate sidecar name")
	ErrReadCatalog   = errors.New("read catalog")
)
