package catalog

import "errors"

var (
	ErrEntryNotFound    = errors.New("catalog entry not found")
	ErrMetadataNotFound = errors.New("catalog metadata not found")
	ErrCatalogMissing   = errors.New("catalog directory missing")
)
