package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrSearchUnavailable signals a search backend transport or service failure.
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrDirectoryUnavailable signals a tag or entry directory failure.
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	// ErrInvalidRange signals a malformed pagination window.
	ErrInvalidRange = errors.New("invalid range")
)
