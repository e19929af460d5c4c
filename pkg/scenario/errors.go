package scenario

import "errors"

// Configuration errors. All of them are raised before any file is touched.
var (
	ErrInvalidSiteCount = errors.New("invalid defense site count")
	ErrInvalidRadius    = errors.New("invalid ring radius")
	ErrInvalidCount     = errors.New("instance count must be positive")
	ErrEmptyCatalog     = errors.New("zone catalog is empty")
	ErrUnknownShape     = errors.New("unknown scenario shape")
	ErrInvalidEntities  = errors.New("invalid entity database ids")
)
